package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the verify command. It builds the full client stack,
// which runs the on-chain authorization check, without writing anything.
func NewVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that the configured identity may write to the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, gw, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer gw.Close()

			fmt.Printf("address:    %s\n", client.Address().Hex())
			fmt.Println("authorized: yes")
			return nil
		},
	}
}
