package commands

import (
	"fmt"

	"github.com/scaleaudit/scaleaudit/pkg/types"
	"github.com/spf13/cobra"
)

// NewLogActionCmd creates the log-action command.
func NewLogActionCmd() *cobra.Command {
	var (
		nodeID string
		action string
		reason string
	)

	cmd := &cobra.Command{
		Use:   "log-action",
		Short: "Record an autoscaling decision on the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, gw, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer gw.Close()

			hash, err := client.LogScalingAction(cmd.Context(), types.ScalingAction{
				NodeID: nodeID,
				Action: action,
				Reason: reason,
			})
			if err != nil {
				return err
			}

			fmt.Printf("recorded: %s\n", hash.Hex())
			return nil
		},
	}

	cmd.Flags().StringVar(&nodeID, "node", "", "node identifier (required)")
	cmd.Flags().StringVar(&action, "action", "", "action taken, e.g. scale_up (required)")
	cmd.Flags().StringVar(&reason, "reason", "", "why the action was taken")
	_ = cmd.MarkFlagRequired("node")
	_ = cmd.MarkFlagRequired("action")

	return cmd
}
