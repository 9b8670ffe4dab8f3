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

// Package config loads the client's runtime configuration from a layered
// set of sources: compiled-in defaults, an optional YAML file, and
// environment variables, each layer overriding the one before it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the full set of knobs a Session needs to connect to, or spawn,
// a localsecret/secretdev node.
type Config struct {
	RPCHost       string  `yaml:"rpc_host" json:"rpc_host"`
	RPCPort       int     `yaml:"rpc_port" json:"rpc_port"`
	SpawnDocker   bool    `yaml:"spawn_docker" json:"spawn_docker"`
	ChainID       string  `yaml:"chain_id" json:"chain_id"`
	EnclaveKeyHex string  `yaml:"enclave_key_hex" json:"enclave_key_hex"`
	Logging       Logging `yaml:"logging" json:"logging"`
	Metrics       Metrics `yaml:"metrics" json:"metrics"`
}

// Logging configures the structured logger.
type Logging struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Metrics configures the Prometheus exposition endpoint.
type Metrics struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

// Defaults returns the out-of-the-box configuration: spawn a local node
// and bind to localhost:26657.
func Defaults() Config {
	return Config{
		RPCHost:     "localhost",
		RPCPort:     26657,
		SpawnDocker: true,
		ChainID:     "secretdev-1",
		Logging: Logging{
			Level:  "info",
			Format: "json",
		},
		Metrics: Metrics{
			Enabled: false,
			Addr:    ":9090",
		},
	}
}

// LoadFromFile reads a YAML config file, overlaying it onto Defaults().
// A missing file is not an error; it is equivalent to an empty overlay,
// since a file is only ever optional middle layer in the precedence chain.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToFile writes cfg to path as YAML, in the same shape LoadFromFile
// reads back.
func SaveToFile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: failed to marshal: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("config: failed to write %s: %w", path, err)
	}
	return nil
}
