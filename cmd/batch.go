package main

import (
	"context"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/groundtruth/insight-engine/internal/model"
)

var batchLimit int

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run the pipeline over every upload batch in the uploads directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		uploadIDs, err := listUploadBatches(cfg.Uploads.Dir)
		if err != nil {
			return err
		}

		return processBatches(ctx, uploadIDs, batchLimit, cfg.Batch.MaxConcurrentBatches,
			func(ctx context.Context, uploadID string) (*model.RunResult, error) {
				return env.Pipeline.Run(ctx, uploadID)
			})
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max batches to process (0 = all)")
	rootCmd.AddCommand(batchCmd)
}

// listUploadBatches treats every subdirectory of the uploads root as one
// batch.
func listUploadBatches(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "read uploads dir %s", dir)
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() {
			ids = append(ids, entry.Name())
		}
	}
	return ids, nil
}

// runFunc is the callback signature for processing one upload batch.
type runFunc func(ctx context.Context, uploadID string) (*model.RunResult, error)

// processBatches applies the limit, then runs batches concurrently. A
// failed batch is logged and counted; it never aborts the others.
func processBatches(ctx context.Context, uploadIDs []string, limit, concurrency int, run runFunc) error {
	if len(uploadIDs) == 0 {
		zap.L().Info("no upload batches found")
		return nil
	}

	if limit > 0 && len(uploadIDs) > limit {
		uploadIDs = uploadIDs[:limit]
	}

	zap.L().Info("processing batches",
		zap.Int("batches", len(uploadIDs)),
		zap.Int("concurrency", concurrency),
	)

	var succeeded, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, uploadID := range uploadIDs {
		uploadID := uploadID
		g.Go(func() error {
			result, err := run(gctx, uploadID)
			if err != nil {
				failed.Add(1)
				zap.L().Error("batch failed",
					zap.String("upload_id", uploadID),
					zap.Error(err),
				)
				return nil
			}
			succeeded.Add(1)
			zap.L().Info("batch complete",
				zap.String("upload_id", uploadID),
				zap.Int("rows", result.Rows),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	zap.L().Info("batch processing done",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}
