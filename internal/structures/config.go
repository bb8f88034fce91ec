package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// IdentityConfig controls the device ledger that holds anonymous voter ids.
type IdentityConfig struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type VotingConfig struct {
	RemoteTimeout time.Duration `yaml:"remoteTimeout"`
	SingleChoice  bool          `yaml:"singleChoice"`
}

type ScoringConfig struct {
	CacheTTL time.Duration `yaml:"cacheTTL"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server         `yaml:"webServer"`
	Logger    LoggerConfig   `yaml:"logger"`
	Database  DatabaseConfig `yaml:"database"`
	Identity  IdentityConfig `yaml:"identity"`
	Voting    VotingConfig   `yaml:"voting"`
	Scoring   ScoringConfig  `yaml:"scoring"`
	Cache     CacheConfig    `yaml:"cache"`
	Metrics   MetricsConfig  `yaml:"metrics"`
}
