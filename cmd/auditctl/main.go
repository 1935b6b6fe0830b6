package main

import (
	"fmt"
	"os"

	"github.com/scaleaudit/scaleaudit/cmd/auditctl/commands"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "auditctl",
	Short: "ScaleAudit ledger client",
	Long:  "Record node resource metrics and autoscaling decisions as signed transactions on the audit ledger, and read them back",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&commands.ConfigPath, "config", "", "Path to config file (default: "+commands.DefaultConfigPath+")")
}

func main() {
	rootCmd.AddCommand(commands.NewLogMetricsCmd())
	rootCmd.AddCommand(commands.NewLogActionCmd())
	rootCmd.AddCommand(commands.NewLatestCmd())
	rootCmd.AddCommand(commands.NewHistoryCmd())
	rootCmd.AddCommand(commands.NewVerifyCmd())
	rootCmd.AddCommand(commands.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
