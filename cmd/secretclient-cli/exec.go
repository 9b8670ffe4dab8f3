package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scrtlabs/localsecret-go/account"
	"github.com/scrtlabs/localsecret-go/client"
)

var (
	execContractAddr string
	execCodeHashHex   string
	execMsg           string
)

var execCmd = &cobra.Command{
	Use:   "exec",
	Short: "Execute a message against an instantiated contract",
	RunE:  runExec,
}

func init() {
	rootCmd.AddCommand(execCmd)

	execCmd.Flags().StringVar(&execContractAddr, "contract", "", "contract bech32 address")
	execCmd.Flags().StringVar(&execCodeHashHex, "code-hash", "", "contract code hash, hex-encoded")
	execCmd.Flags().StringVar(&execMsg, "msg", "{}", "execute message as JSON")
	execCmd.MarkFlagRequired("contract")
	execCmd.MarkFlagRequired("code-hash")
}

func runExec(cmd *cobra.Command, args []string) error {
	contract, err := contractFromFlags(execContractAddr, execCodeHashHex)
	if err != nil {
		return err
	}

	var msg json.RawMessage
	if err := json.Unmarshal([]byte(execMsg), &msg); err != nil {
		return fmt.Errorf("invalid --msg JSON: %w", err)
	}

	return runWithClient(func(ctx context.Context, c *client.Client, acc *account.Account) error {
		var out json.RawMessage
		res, err := c.ExecuteContract(ctx, msg, contract, acc, &out)
		if err != nil {
			return err
		}
		fmt.Printf("gas_used=%d events=%d response=%s\n", res.GasUsed, len(res.Events), string(out))
		return nil
	})
}

func contractFromFlags(addr, codeHashHex string) (client.Contract, error) {
	codeHash, err := hex.DecodeString(codeHashHex)
	if err != nil {
		return client.Contract{}, fmt.Errorf("invalid --code-hash: %w", err)
	}
	return client.Contract{Address: addr, CodeHash: client.CodeHash(codeHash)}, nil
}
