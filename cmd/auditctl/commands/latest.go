package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// NewLatestCmd creates the latest command.
func NewLatestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest <node-id>",
		Short: "Show the most recent audit record for a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, gw, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			defer gw.Close()

			record, err := client.GetLatestNodeMetrics(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(struct {
				NodeID            string `json:"nodeId"`
				Timestamp         int64  `json:"timestamp"`
				Datetime          string `json:"datetime"`
				MemoryUsageMB     uint64 `json:"memoryUsage"`
				CPULoadPercent    uint64 `json:"cpuLoad"`
				AllocatedMemoryMB uint64 `json:"allocatedMemory"`
				Status            string `json:"status"`
				ScaleAction       string `json:"scaleAction"`
			}{
				NodeID:            record.NodeID,
				Timestamp:         record.Timestamp,
				Datetime:          record.Time().Format("2006-01-02 15:04:05"),
				MemoryUsageMB:     record.MemoryUsageMB,
				CPULoadPercent:    record.CPULoadPercent,
				AllocatedMemoryMB: record.AllocatedMemoryMB,
				Status:            record.Status.String(),
				ScaleAction:       record.ScaleAction,
			}, "", "  ")
			if err != nil {
				return err
			}

			fmt.Println(string(out))
			return nil
		},
	}
}
