package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/groundtruth/insight-engine/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "insight-engine",
	Short: "Automated insight pipeline for mixed marketing data",
	Long:  "Ingests heterogeneous upload batches (CSV, JSON, text, PDF, Markdown), merges them into one table, and computes KPIs, anomalies, and correlations.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
