package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	backfillCollection string
	backfillSource     string
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Compute embeddings for records that are missing one",
	RunE:  runBackfill,
}

func init() {
	backfillCmd.Flags().StringVarP(&backfillCollection, "collection", "c", "", "collection to backfill: candidates or jobs")
	backfillCmd.Flags().StringVarP(&backfillSource, "source", "s", "", "job source filter: hr or api (jobs only)")
	_ = backfillCmd.MarkFlagRequired("collection")

	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var processed int
	switch backfillCollection {
	case "candidates":
		processed, err = a.engine.BackfillCandidates(ctx)
	case "jobs":
		processed, err = a.engine.BackfillJobs(ctx, backfillSource)
	default:
		return fmt.Errorf("unknown collection %q, expected candidates or jobs", backfillCollection)
	}
	if err != nil {
		return err
	}

	a.log.Info("backfill complete",
		zap.String("collection", backfillCollection),
		zap.Int("processed", processed))
	return nil
}
