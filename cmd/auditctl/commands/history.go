package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	var (
		start uint64
		count uint64
	)

	cmd := &cobra.Command{
		Use:   "history <node-id>",
		Short: "Show a window of a node's audit history, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, gw, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer gw.Close()

			records, err := client.GetNodeMetricsHistory(cmd.Context(), args[0], start, count)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(records, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().Uint64Var(&start, "start", 0, "history offset to read from (0 = oldest)")
	cmd.Flags().Uint64Var(&count, "count", 10, "number of records to return")

	return cmd
}
