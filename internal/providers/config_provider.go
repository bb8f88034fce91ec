package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
	"topfived/internal/structures"

	"github.com/spf13/viper"
)

const defaultRemoteTimeout = 10 * time.Second

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("voting.remoteTimeout", defaultRemoteTimeout)
	v.SetDefault("voting.singleChoice", true)
	v.SetDefault("scoring.cacheTTL", 30*time.Second)

	v.BindEnv("logger.level", "TOPFIVED_LOG_LEVEL")
	v.BindEnv("database.path", "TOPFIVED_DB_PATH")
	v.BindEnv("voting.remoteTimeout", "TOPFIVED_REMOTE_TIMEOUT")
	v.BindEnv("cache.enabled", "TOPFIVED_CACHE_ENABLED")
	v.BindEnv("cache.size", "TOPFIVED_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	if conf.Voting.RemoteTimeout <= 0 {
		conf.Voting.RemoteTimeout = defaultRemoteTimeout
	}
	conf.AppName = "Topfived"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
