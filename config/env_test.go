package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SECRETCLIENT_RPC_HOST", "override.example.com")
	t.Setenv("SECRETCLIENT_RPC_PORT", "1337")
	t.Setenv("SECRETCLIENT_SPAWN_DOCKER", "false")
	t.Setenv("SECRETCLIENT_CHAIN_ID", "secretdev-2")
	t.Setenv("SECRETCLIENT_ENCLAVE_KEY_HEX", "deadbeef")
	t.Setenv("SECRETCLIENT_LOG_LEVEL", "debug")
	t.Setenv("SECRETCLIENT_METRICS_ADDR", ":9999")

	cfg := Defaults()
	require.NoError(t, ApplyEnvOverrides(&cfg))

	assert.Equal(t, "override.example.com", cfg.RPCHost)
	assert.Equal(t, 1337, cfg.RPCPort)
	assert.False(t, cfg.SpawnDocker)
	assert.Equal(t, "secretdev-2", cfg.ChainID)
	assert.Equal(t, "deadbeef", cfg.EnclaveKeyHex)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, ":9999", cfg.Metrics.Addr)
	assert.True(t, cfg.Metrics.Enabled)
}

func TestApplyEnvOverrides_InvalidPort(t *testing.T) {
	t.Setenv("SECRETCLIENT_RPC_PORT", "not-a-number")

	cfg := Defaults()
	err := ApplyEnvOverrides(&cfg)
	require.Error(t, err)
}

func TestApplyEnvOverrides_NoneSetLeavesDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, ApplyEnvOverrides(&cfg))
	assert.Equal(t, Defaults(), cfg)
}
