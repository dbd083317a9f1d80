package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	ingestQuery    string
	ingestLocation string
	ingestLimit    int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch job postings from the external job-search API",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestQuery, "query", "q", "", "search query, e.g. 'Python developer'")
	ingestCmd.Flags().StringVarP(&ingestLocation, "location", "l", "", "optional job location")
	ingestCmd.Flags().IntVarP(&ingestLimit, "limit", "n", 5, "maximum postings to insert (max 20)")
	_ = ingestCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.ingestion == nil {
		return fmt.Errorf("JSEARCH_API_KEY is required for ingestion")
	}
	if ingestLimit < 1 || ingestLimit > 20 {
		return fmt.Errorf("limit must be between 1 and 20")
	}

	inserted, err := a.ingestion.Ingest(ctx, ingestQuery, ingestLocation, ingestLimit)
	if err != nil {
		return err
	}

	for _, job := range inserted {
		a.log.Info("inserted job",
			zap.String("id", job.ID.String()),
			zap.String("title", job.Title),
			zap.String("company", job.Company))
	}
	a.log.Info("ingest complete", zap.Int("inserted", len(inserted)))
	return nil
}
