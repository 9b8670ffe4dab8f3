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


package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scrtlabs/localsecret-go/account"
	"github.com/scrtlabs/localsecret-go/client"
	"github.com/scrtlabs/localsecret-go/config"
	"github.com/scrtlabs/localsecret-go/internal/logger"
	"github.com/scrtlabs/localsecret-go/session"
)

var rootCmd = &cobra.Command{
	Use:   "secretclient-cli",
	Short: "secretclient CLI - upload, instantiate, execute, and query contracts on localsecret",
	Long: `secretclient-cli drives a localsecret/secretdev node directly from the
command line: uploading WASM code, instantiating and executing confidential
contracts, and running encrypted smart queries against them.`,
}

var (
	flagConfigPath string
	flagRPCHost    string
	flagRPCPort    int
	flagSpawn      bool
	flagChainID    string
	flagMnemonic   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to a YAML config file (default: $SECRETCLIENT_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&flagRPCHost, "rpc-host", "", "node RPC host, overrides config")
	rootCmd.PersistentFlags().IntVar(&flagRPCPort, "rpc-port", 0, "node RPC port, overrides config")
	rootCmd.PersistentFlags().BoolVar(&flagSpawn, "spawn", false, "spawn a local node via Docker before running")
	rootCmd.PersistentFlags().StringVar(&flagChainID, "chain-id", "", "chain id, overrides config")
	rootCmd.PersistentFlags().StringVar(&flagMnemonic, "mnemonic", "", "signer's BIP39 mnemonic, defaults to $SECRETCLIENT_MNEMONIC")

	// Subcommands are registered in their own files:
	// upload.go, instantiate.go, exec.go, query.go
}

// runWithClient loads configuration, applies any CLI flag overrides,
// starts (or connects to) a node, and invokes fn with a ready Client and
// the signer account derived from --mnemonic.
func runWithClient(fn func(ctx context.Context, c *client.Client, acc *account.Account) error) error {
	mnemonic := flagMnemonic
	if mnemonic == "" {
		mnemonic = os.Getenv("SECRETCLIENT_MNEMONIC")
	}
	if mnemonic == "" {
		return fmt.Errorf("a signer mnemonic is required: pass --mnemonic or set SECRETCLIENT_MNEMONIC")
	}
	acc, err := account.FromMnemonic(mnemonic)
	if err != nil {
		return fmt.Errorf("failed to derive account from mnemonic: %w", err)
	}

	appCfg, err := config.Load(config.LoaderOptions{ConfigPath: flagConfigPath})
	if err != nil {
		return err
	}
	if flagRPCHost != "" {
		appCfg.RPCHost = flagRPCHost
	}
	if flagRPCPort != 0 {
		appCfg.RPCPort = flagRPCPort
	}
	if flagChainID != "" {
		appCfg.ChainID = flagChainID
	}
	appCfg.SpawnDocker = flagSpawn

	log := logger.NewDefaultLogger()
	cfg := session.FromAppConfig(appCfg)
	cfg.Logger = log

	return session.Run(context.Background(), cfg, func(ctx context.Context, c *client.Client) error {
		return fn(ctx, c, acc)
	})
}
