// SAGE - Secure Agent Guarantee Engine
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of SAGE.
//
// SAGE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SAGE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SAGE. If not, see <https://www.gnu.org/licenses/>.


package config

import (
	"fmt"
	"os"
	"strconv"
)

// ApplyEnvOverrides overrides cfg's fields from SECRETCLIENT_* environment
// variables, the highest-precedence layer.
func ApplyEnvOverrides(cfg *Config) error {
	if host := os.Getenv("SECRETCLIENT_RPC_HOST"); host != "" {
		cfg.RPCHost = host
	}
	if port := os.Getenv("SECRETCLIENT_RPC_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("config: invalid SECRETCLIENT_RPC_PORT %q: %w", port, err)
		}
		cfg.RPCPort = p
	}
	if spawn := os.Getenv("SECRETCLIENT_SPAWN_DOCKER"); spawn != "" {
		b, err := strconv.ParseBool(spawn)
		if err != nil {
			return fmt.Errorf("config: invalid SECRETCLIENT_SPAWN_DOCKER %q: %w", spawn, err)
		}
		cfg.SpawnDocker = b
	}
	if chainID := os.Getenv("SECRETCLIENT_CHAIN_ID"); chainID != "" {
		cfg.ChainID = chainID
	}
	if keyHex := os.Getenv("SECRETCLIENT_ENCLAVE_KEY_HEX"); keyHex != "" {
		cfg.EnclaveKeyHex = keyHex
	}
	if level := os.Getenv("SECRETCLIENT_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if addr := os.Getenv("SECRETCLIENT_METRICS_ADDR"); addr != "" {
		cfg.Metrics.Addr = addr
		cfg.Metrics.Enabled = true
	}
	return nil
}
