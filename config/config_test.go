package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, "localhost", cfg.RPCHost)
	assert.Equal(t, 26657, cfg.RPCPort)
	assert.True(t, cfg.SpawnDocker)
	assert.Equal(t, "secretdev-1", cfg.ChainID)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadFromFile_OverlaysOntoDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "config.yaml")
	content := `
rpc_host: chain.example.com
rpc_port: 443
spawn_docker: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "chain.example.com", cfg.RPCHost)
	assert.Equal(t, 443, cfg.RPCPort)
	assert.False(t, cfg.SpawnDocker)
	// Untouched fields keep their default value.
	assert.Equal(t, "secretdev-1", cfg.ChainID)
}

func TestSaveToFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Defaults()
	cfg.RPCHost = "example.org"

	require.NoError(t, SaveToFile(cfg, path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
