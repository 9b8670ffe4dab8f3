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
	instantiateLabel  string
	instantiateCodeID uint64
	instantiateMsg    string
)

var instantiateCmd = &cobra.Command{
	Use:   "init",
	Short: "Instantiate a previously uploaded contract code",
	RunE:  runInstantiate,
}

func init() {
	rootCmd.AddCommand(instantiateCmd)

	instantiateCmd.Flags().StringVar(&instantiateLabel, "label", "", "contract label, auto-generated when empty")
	instantiateCmd.Flags().Uint64Var(&instantiateCodeID, "code-id", 0, "uploaded code id to instantiate")
	instantiateCmd.Flags().StringVar(&instantiateMsg, "msg", "{}", "init message as JSON")
	instantiateCmd.MarkFlagRequired("code-id")
}

func runInstantiate(cmd *cobra.Command, args []string) error {
	var msg json.RawMessage
	if err := json.Unmarshal([]byte(instantiateMsg), &msg); err != nil {
		return fmt.Errorf("invalid --msg JSON: %w", err)
	}

	return runWithClient(func(ctx context.Context, c *client.Client, acc *account.Account) error {
		res, err := c.InitContract(ctx, msg, instantiateLabel, client.CodeID(instantiateCodeID), acc)
		if err != nil {
			return err
		}
		contract := res.IntoInner()
		fmt.Printf("address=%s code_hash=%s gas_used=%d\n", contract.Address, contract.CodeHash, res.GasUsed)
		return nil
	})
}
