// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package session orchestrates the lifecycle of a localsecret/secretdev
// node for the duration of a callback: optionally spawning a Docker
// container, waiting for the chain to become ready, handing the caller a
// connected Client, and guaranteeing teardown on every exit path.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/scrtlabs/localsecret-go/client"
	"github.com/scrtlabs/localsecret-go/config"
	"github.com/scrtlabs/localsecret-go/internal/logger"
	"github.com/scrtlabs/localsecret-go/internal/metrics"
)

const (
	dockerImage  = "ghcr.io/scrtlabs/localsecret"
	rpcPortSpec  = "26657/tcp"
	faucetSpec   = "5000/tcp"
	startTimeout = 60 * time.Second
)

// Config configures a Session before Run is called.
type Config struct {
	// SpawnDocker starts and tears down a local node container. Defaults
	// to true.
	SpawnDocker bool

	// RPCHost and RPCPort address an already-running node when
	// SpawnDocker is false. When SpawnDocker is true they are not used:
	// Run replaces them with the spawned container's host and mapped RPC
	// port.
	RPCHost string
	RPCPort int

	// ChainID overrides the chain id used for signing, default
	// client.ChainID.
	ChainID string

	// EnclaveKeyHex, if set, seeds the Client's enclave public key cache
	// directly, skipping the discovery query.
	EnclaveKeyHex string

	// MetricsAddr, if non-empty, starts a standalone Prometheus exposition
	// server on this address for the lifetime of the session.
	MetricsAddr string

	// Logger is used for session and client logging; a default is
	// constructed if nil.
	Logger logger.Logger
}

// DefaultConfig returns the out-of-the-box defaults: spawn a local node,
// bind to localhost:26657.
func DefaultConfig() Config {
	return Config{
		SpawnDocker: true,
		RPCHost:     "localhost",
		RPCPort:     26657,
		ChainID:     client.ChainID,
	}
}

// FromAppConfig adapts a layered config.Config into a session Config.
func FromAppConfig(cfg config.Config) Config {
	sessCfg := Config{
		SpawnDocker:   cfg.SpawnDocker,
		RPCHost:       cfg.RPCHost,
		RPCPort:       cfg.RPCPort,
		ChainID:       cfg.ChainID,
		EnclaveKeyHex: cfg.EnclaveKeyHex,
	}
	if cfg.Metrics.Enabled {
		sessCfg.MetricsAddr = cfg.Metrics.Addr
	}
	return sessCfg
}

// RunWithConfig loads configuration (defaults -> YAML -> env) and runs fn
// against it.
func RunWithConfig(ctx context.Context, opts config.LoaderOptions, log logger.Logger, fn func(ctx context.Context, c *client.Client) error) error {
	appCfg, err := config.Load(opts)
	if err != nil {
		return fmt.Errorf("session: failed to load config: %w", err)
	}
	cfg := FromAppConfig(appCfg)
	cfg.Logger = log
	return Run(ctx, cfg, fn)
}

// Run spawns (or connects to) a localsecret node per cfg, waits for it to
// be ready, and invokes fn with a connected Client. The container (if any)
// is torn down on every exit path, including a panic inside fn.
func Run(ctx context.Context, cfg Config, fn func(ctx context.Context, c *client.Client) error) (err error) {
	log := cfg.Logger
	if log == nil {
		log = logger.NewDefaultLogger()
	}

	start := time.Now()
	var container tc.Container

	if cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler()}
		go func() {
			if serveErr := srv.ListenAndServe(); serveErr != nil && serveErr != http.ErrServerClosed {
				log.Warn("metrics server stopped unexpectedly", logger.Error(serveErr))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
				log.Warn("failed to shut down metrics server", logger.Error(shutdownErr))
			}
		}()
		log.Info("metrics server started", logger.String("addr", cfg.MetricsAddr))
	}

	if cfg.SpawnDocker {
		container, err = startContainer(ctx, log)
		if err != nil {
			return err
		}
		defer func() {
			teardownStart := time.Now()
			termCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if termErr := container.Terminate(termCtx); termErr != nil {
				log.Warn("failed to terminate localsecret container", logger.Error(termErr))
			}
			metrics.SessionDuration.WithLabelValues("teardown").Observe(time.Since(teardownStart).Seconds())
		}()

		host, port, hostErr := containerEndpoint(ctx, container)
		if hostErr != nil {
			return hostErr
		}
		cfg.RPCHost = host
		cfg.RPCPort = port
	}

	metrics.SessionDuration.WithLabelValues("spawn").Observe(time.Since(start).Seconds())

	c := client.New(fmt.Sprintf("http://%s:%d", cfg.RPCHost, cfg.RPCPort), log)
	if cfg.ChainID != "" {
		c = c.WithChainID(cfg.ChainID)
	}

	if cfg.EnclaveKeyHex != "" {
		if err := c.SeedEnclaveIOPublicKey(cfg.EnclaveKeyHex); err != nil {
			return err
		}
	}

	if cfg.SpawnDocker {
		waitStart := time.Now()
		if err := c.WaitForFirstBlock(ctx); err != nil {
			metrics.SessionsCreated.WithLabelValues("failure").Inc()
			return err
		}
		metrics.SessionDuration.WithLabelValues("wait_healthy").Observe(time.Since(waitStart).Seconds())
	}

	metrics.SessionsCreated.WithLabelValues("success").Inc()
	metrics.SessionsActive.Inc()
	defer func() {
		metrics.SessionsActive.Dec()
		metrics.SessionsClosed.Inc()
	}()

	return fn(ctx, c)
}

func startContainer(ctx context.Context, log logger.Logger) (tc.Container, error) {
	req := tc.ContainerRequest{
		Image:        dockerImage,
		ExposedPorts: []string{rpcPortSpec, faucetSpec},
		WaitingFor:   wait.ForListeningPort(rpcPortSpec).WithStartupTimeout(startTimeout),
	}

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("session: failed to start localsecret container: %w", err)
	}

	log.Info("localsecret container started", logger.String("image", dockerImage))
	return container, nil
}

func containerEndpoint(ctx context.Context, container tc.Container) (string, int, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("session: failed to resolve container host: %w", err)
	}
	mapped, err := container.MappedPort(ctx, rpcPortSpec)
	if err != nil {
		return "", 0, fmt.Errorf("session: failed to resolve mapped RPC port: %w", err)
	}
	return host, mapped.Int(), nil
}
