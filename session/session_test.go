package session

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrtlabs/localsecret-go/client"
	"github.com/scrtlabs/localsecret-go/config"
)

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRun_ConnectsWithoutSpawningWhenDisabled(t *testing.T) {
	cfg := Config{
		SpawnDocker: false,
		RPCHost:     "127.0.0.1",
		RPCPort:     26657,
		ChainID:     "secretdev-1",
	}

	var gotClient *client.Client
	err := Run(context.Background(), cfg, func(ctx context.Context, c *client.Client) error {
		gotClient = c
		return nil
	})

	require.NoError(t, err)
	assert.NotNil(t, gotClient)
}

func TestRun_PropagatesCallbackError(t *testing.T) {
	cfg := Config{SpawnDocker: false, RPCHost: "127.0.0.1", RPCPort: 26657}
	wantErr := errors.New("callback failed")

	err := Run(context.Background(), cfg, func(ctx context.Context, c *client.Client) error {
		return wantErr
	})

	require.ErrorIs(t, err, wantErr)
}

func TestRun_SeedsEnclaveKeyWhenProvided(t *testing.T) {
	keyHex := "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20"
	cfg := Config{SpawnDocker: false, RPCHost: "127.0.0.1", RPCPort: 26657, EnclaveKeyHex: keyHex}

	var queried bool
	err := Run(context.Background(), cfg, func(ctx context.Context, c *client.Client) error {
		queried = c != nil
		return nil
	})

	require.NoError(t, err)
	assert.True(t, queried)
}

func TestRun_StartsMetricsServerWhenAddrSet(t *testing.T) {
	addr := fmt.Sprintf("127.0.0.1:%d", freePort(t))
	cfg := Config{SpawnDocker: false, RPCHost: "127.0.0.1", RPCPort: 26657, MetricsAddr: addr}

	var fetchErr error
	var status int
	err := Run(context.Background(), cfg, func(ctx context.Context, c *client.Client) error {
		for i := 0; i < 20; i++ {
			resp, getErr := http.Get("http://" + addr + "/metrics")
			if getErr == nil {
				status = resp.StatusCode
				resp.Body.Close()
				fetchErr = nil
				break
			}
			fetchErr = getErr
			time.Sleep(20 * time.Millisecond)
		}
		return nil
	})

	require.NoError(t, err)
	require.NoError(t, fetchErr)
	assert.Equal(t, http.StatusOK, status)
}

func TestFromAppConfig(t *testing.T) {
	appCfg := config.Defaults()
	appCfg.RPCHost = "chain.example.com"
	appCfg.RPCPort = 443

	sessCfg := FromAppConfig(appCfg)

	assert.Equal(t, appCfg.RPCHost, sessCfg.RPCHost)
	assert.Equal(t, appCfg.RPCPort, sessCfg.RPCPort)
	assert.Equal(t, appCfg.SpawnDocker, sessCfg.SpawnDocker)
	assert.Equal(t, appCfg.ChainID, sessCfg.ChainID)
	assert.Empty(t, sessCfg.MetricsAddr, "metrics disabled by default")
}

func TestFromAppConfig_CarriesMetricsAddrWhenEnabled(t *testing.T) {
	appCfg := config.Defaults()
	appCfg.Metrics.Enabled = true
	appCfg.Metrics.Addr = ":9999"

	sessCfg := FromAppConfig(appCfg)

	assert.Equal(t, ":9999", sessCfg.MetricsAddr)
}
