package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runUploadID string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline for a single upload batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Run(ctx, runUploadID)
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		zap.L().Info("run complete",
			zap.String("upload_id", runUploadID),
			zap.Int("rows", result.Rows),
			zap.Int("columns", result.Columns),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	runCmd.Flags().StringVar(&runUploadID, "upload-id", "", "upload batch directory name (required)")
	_ = runCmd.MarkFlagRequired("upload-id")
	rootCmd.AddCommand(runCmd)
}
