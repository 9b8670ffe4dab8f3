package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scrtlabs/localsecret-go/account"
	"github.com/scrtlabs/localsecret-go/client"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <wasm-file>",
	Short: "Upload a WASM binary and print the assigned code id",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	return runWithClient(func(ctx context.Context, c *client.Client, acc *account.Account) error {
		res, err := c.UploadContract(ctx, path, acc)
		if err != nil {
			return err
		}
		fmt.Printf("code_id=%d gas_used=%d\n", res.IntoInner(), res.GasUsed)
		return nil
	})
}
