package providers

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"topfived/internal/structures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
webServer:
  host: 127.0.0.1
  port: 8090
logger:
  level: info
  mode: 420
  dir: /tmp
database:
  path: /tmp/topfived.db
identity:
  filePath: /tmp/ledger.dat
  saveInterval: 30s
cache:
  enabled: true
  size: 8
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewConfigProvider_LoadsFileAndDefaults(t *testing.T) {
	path := writeConfig(t, testConfigYAML)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "Topfived", conf.AppName)
	assert.Equal(t, path, conf.Path)
	assert.True(t, conf.Debug)
	assert.Equal(t, 8090, conf.WebServer.Port)
	assert.Equal(t, "/tmp/topfived.db", conf.Database.Path)
	assert.Equal(t, 30*time.Second, conf.Identity.SaveInterval)
	assert.Equal(t, defaultRemoteTimeout, conf.Voting.RemoteTimeout)
	assert.True(t, conf.Voting.SingleChoice)
	assert.Equal(t, 30*time.Second, conf.Scoring.CacheTTL)
	assert.True(t, conf.Cache.Enabled)
}

func TestNewConfigProvider_EnvOverrides(t *testing.T) {
	path := writeConfig(t, testConfigYAML)
	t.Setenv("TOPFIVED_DB_PATH", "/srv/topfived.db")
	t.Setenv("TOPFIVED_REMOTE_TIMEOUT", "3s")
	t.Setenv("TOPFIVED_LOG_LEVEL", "debug")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)

	assert.Equal(t, "/srv/topfived.db", conf.Database.Path)
	assert.Equal(t, 3*time.Second, conf.Voting.RemoteTimeout)
	assert.Equal(t, "debug", conf.Logger.Level)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, err)
}

func TestNewConfigProvider_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "webServer:\n  host: 127.0.0.1\n")

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
