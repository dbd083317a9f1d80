package matching

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BackfillJobs computes and persists embeddings for every job missing one,
// optionally filtered by source. Per-job failures are logged and skipped; the
// returned count is the number of jobs attempted.
func (e *Engine) BackfillJobs(ctx context.Context, source string) (int, error) {
	jobs, err := e.jobs.ListJobsMissingEmbedding(ctx, source)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range jobs {
		g.Go(func() error {
			if _, err := e.EmbedJob(gctx, &jobs[i]); err != nil {
				e.logger.Warn("failed to embed job",
					zap.String("job_id", jobs[i].ID.String()), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return len(jobs), nil
}

// BackfillCandidates computes and persists embeddings for every candidate
// missing one. Same failure semantics as BackfillJobs.
func (e *Engine) BackfillCandidates(ctx context.Context) (int, error) {
	candidates, err := e.candidates.ListCandidatesMissingEmbedding(ctx)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range candidates {
		g.Go(func() error {
			if _, err := e.EmbedCandidate(gctx, &candidates[i]); err != nil {
				e.logger.Warn("failed to embed candidate",
					zap.String("candidate_id", candidates[i].ID.String()), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return len(candidates), nil
}
