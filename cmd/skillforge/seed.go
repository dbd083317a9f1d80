package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skillforge/skillforge/internal/config"
	"github.com/skillforge/skillforge/internal/schemas"
	"github.com/skillforge/skillforge/internal/types"
)

var (
	seedCandidatesFile string
	seedJobsFile       string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Validate seed files and import them into the database",
	Long:  "Validates candidate and job seed files against their JSON Schemas, then inserts the records. Existing candidates (by email) and jobs (by title/company) are skipped.",
	RunE:  runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedCandidatesFile, "candidates", "", "path to a candidate seed JSON file")
	seedCmd.Flags().StringVar(&seedJobsFile, "jobs", "", "path to a job seed JSON file")

	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, _ []string) error {
	if seedCandidatesFile == "" && seedJobsFile == "" {
		return fmt.Errorf("at least one of --candidates or --jobs is required")
	}

	ctx := context.Background()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if seedCandidatesFile != "" {
		if err := seedCandidates(ctx, a, seedCandidatesFile); err != nil {
			return err
		}
	}
	if seedJobsFile != "" {
		if err := seedJobs(ctx, a, seedJobsFile); err != nil {
			return err
		}
	}
	return nil
}

func seedCandidates(ctx context.Context, a *app, path string) error {
	content, err := schemas.ValidateCandidateSeedFile(path)
	if err != nil {
		return err
	}

	var inputs []types.CandidateCreateInput
	if err := json.Unmarshal(content, &inputs); err != nil {
		return fmt.Errorf("failed to parse candidate seed file: %w", err)
	}

	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return err
	}

	var inserted, skipped int
	for i := range inputs {
		input := &inputs[i]

		existing, err := a.db.GetCandidateByEmail(ctx, input.Email)
		if err != nil {
			return fmt.Errorf("failed to check candidate %s: %w", input.Email, err)
		}
		if existing != nil {
			skipped++
			continue
		}

		hash, err := passwords.HashPassword(input.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", input.Email, err)
		}

		candidate, err := a.db.CreateCandidate(ctx, input, hash)
		if err != nil {
			return fmt.Errorf("failed to insert candidate %s: %w", input.Email, err)
		}
		if _, err := a.engine.EmbedCandidate(ctx, candidate); err != nil {
			a.log.Warn("failed to embed seeded candidate",
				zap.String("email", candidate.Email), zap.Error(err))
		}
		inserted++
	}

	a.log.Info("candidate seed complete",
		zap.String("file", path),
		zap.Int("inserted", inserted),
		zap.Int("skipped", skipped))
	return nil
}

func seedJobs(ctx context.Context, a *app, path string) error {
	content, err := schemas.ValidateJobSeedFile(path)
	if err != nil {
		return err
	}

	var inputs []types.JobCreateInput
	if err := json.Unmarshal(content, &inputs); err != nil {
		return fmt.Errorf("failed to parse job seed file: %w", err)
	}

	var inserted, skipped int
	for i := range inputs {
		input := &inputs[i]

		source := input.Source
		if source == "" {
			source = types.SourceHR
		}
		exists, err := a.db.JobExists(ctx, input.Title, input.Company, source)
		if err != nil {
			return fmt.Errorf("failed to check job %q: %w", input.Title, err)
		}
		if exists {
			skipped++
			continue
		}

		job, err := a.db.CreateJob(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to insert job %q: %w", input.Title, err)
		}
		if _, err := a.engine.EmbedJob(ctx, job); err != nil {
			a.log.Warn("failed to embed seeded job",
				zap.String("title", job.Title), zap.Error(err))
		}
		inserted++
	}

	a.log.Info("job seed complete",
		zap.String("file", path),
		zap.Int("inserted", inserted),
		zap.Int("skipped", skipped))
	return nil
}
