package providers

import (
	"chatsync/internal/structures"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfigProvider_ValidFile(t *testing.T) {
	dir := t.TempDir()
	content := `
webServer:
  host: 127.0.0.1
  port: 18090
persistence:
  stateDir: ` + dir + `
  saveInterval: 60
logger:
  level: info
  mode: 420
  dir: ` + dir + `
cache:
  enabled: true
  size: 1
metrics:
  enabled: true
`
	path := writeConfigFile(t, "config.yaml", content)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "ChatSyncDaemon", conf.AppName)
	assert.Equal(t, path, conf.Path)
	assert.True(t, conf.Debug)
	assert.Equal(t, "127.0.0.1", conf.WebServer.Host)
	assert.Equal(t, 18090, conf.WebServer.Port)
	assert.True(t, conf.Cache.Enabled)
	assert.True(t, conf.Metrics.Enabled)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}

func TestNewConfigProvider_InvalidConfigRejected(t *testing.T) {
	content := `
webServer:
  host: 127.0.0.1
  port: 0
`
	path := writeConfigFile(t, "broken.yaml", content)

	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
