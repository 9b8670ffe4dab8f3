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
)

// LoaderOptions configures the configuration loader.
type LoaderOptions struct {
	// ConfigPath points at a YAML file. Empty skips the file layer.
	// Falls back to SECRETCLIENT_CONFIG if unset.
	ConfigPath string
}

// Load builds a Config through defaults -> YAML file -> environment
// variables, each layer overriding the one before it.
func Load(opts ...LoaderOptions) (Config, error) {
	var options LoaderOptions
	if len(opts) > 0 {
		options = opts[0]
	}

	path := options.ConfigPath
	if path == "" {
		path = os.Getenv("SECRETCLIENT_CONFIG")
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := ApplyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// MustLoad loads configuration or panics on error, for use in program
// entry points where there is no sensible way to continue without it.
func MustLoad(opts ...LoaderOptions) Config {
	cfg, err := Load(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}
