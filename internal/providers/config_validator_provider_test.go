package providers

import (
	"testing"
	"time"
	"topfived/internal/structures"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8090,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Database: structures.DatabaseConfig{
			Path: "/tmp/topfived.db",
		},
		Identity: structures.IdentityConfig{
			FilePath:     "/tmp/ledger.dat",
			SaveInterval: 30 * time.Second,
		},
		Voting: structures.VotingConfig{
			RemoteTimeout: 10 * time.Second,
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MissingDatabasePath(t *testing.T) {
	c := validConfig()
	c.Database.Path = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_MissingIdentityFile(t *testing.T) {
	c := validConfig()
	c.Identity.FilePath = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_NegativeRemoteTimeout(t *testing.T) {
	c := validConfig()
	c.Voting.RemoteTimeout = -time.Second
	v := NewCnfValidator(c)
	assert.EqualError(t, v.Validate(), "voting.remoteTimeout must not be negative")
}
