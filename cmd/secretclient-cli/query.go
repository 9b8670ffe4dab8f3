package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scrtlabs/localsecret-go/account"
	"github.com/scrtlabs/localsecret-go/client"
)

var (
	queryContractAddr string
	queryCodeHashHex   string
	queryMsg           string
	queryBalanceOnly   bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a smart query against a contract, or check an account balance",
	RunE:  runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVar(&queryContractAddr, "contract", "", "contract bech32 address")
	queryCmd.Flags().StringVar(&queryCodeHashHex, "code-hash", "", "contract code hash, hex-encoded")
	queryCmd.Flags().StringVar(&queryMsg, "msg", "{}", "query message as JSON")
	queryCmd.Flags().BoolVar(&queryBalanceOnly, "balance", false, "print the signer's uscrt balance instead of querying a contract")
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryBalanceOnly {
		return runWithClient(func(ctx context.Context, c *client.Client, acc *account.Account) error {
			balance, err := c.QueryBalance(ctx, acc)
			if err != nil {
				return err
			}
			fmt.Printf("%s uscrt\n", balance)
			return nil
		})
	}

	if queryContractAddr == "" || queryCodeHashHex == "" {
		return fmt.Errorf("--contract and --code-hash are required unless --balance is set")
	}
	contract, err := contractFromFlags(queryContractAddr, queryCodeHashHex)
	if err != nil {
		return err
	}

	var msg json.RawMessage
	if err := json.Unmarshal([]byte(queryMsg), &msg); err != nil {
		return fmt.Errorf("invalid --msg JSON: %w", err)
	}

	return runWithClient(func(ctx context.Context, c *client.Client, acc *account.Account) error {
		var out json.RawMessage
		if err := c.QueryContract(ctx, msg, contract, acc, &out); err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	})
}
