package commands

import (
	"fmt"

	"github.com/scaleaudit/scaleaudit/pkg/types"
	"github.com/spf13/cobra"
)

// NewLogMetricsCmd creates the log-metrics command.
func NewLogMetricsCmd() *cobra.Command {
	var (
		nodeID    string
		memory    uint64
		cpu       uint64
		allocated uint64
		status    string
	)

	cmd := &cobra.Command{
		Use:   "log-metrics",
		Short: "Record a node resource reading on the ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			nodeStatus, err := types.ParseNodeStatus(status)
			if err != nil {
				return err
			}

			client, gw, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer gw.Close()

			hash, err := client.LogNodeMetrics(cmd.Context(), nodeID, memory, cpu, allocated, nodeStatus)
			if err != nil {
				return err
			}

			fmt.Printf("recorded: %s\n", hash.Hex())
			return nil
		},
	}

	cmd.Flags().StringVar(&nodeID, "node", "", "node identifier (required)")
	cmd.Flags().Uint64Var(&memory, "memory", 0, "memory usage in MB")
	cmd.Flags().Uint64Var(&cpu, "cpu", 0, "CPU load percentage (0-100)")
	cmd.Flags().Uint64Var(&allocated, "allocated", 0, "allocated memory in MB")
	cmd.Flags().StringVar(&status, "status", "Normal", "node status (Normal, Scaling, Alert)")
	_ = cmd.MarkFlagRequired("node")

	return cmd
}
