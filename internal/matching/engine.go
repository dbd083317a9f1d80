package matching

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/skillforge/skillforge/internal/embedding"
	"github.com/skillforge/skillforge/internal/events"
	"github.com/skillforge/skillforge/internal/types"
)

// ErrNotFound indicates the candidate or job identity did not resolve to a
// record. Distinct from a malformed identity, which fails at parse time.
var ErrNotFound = errors.New("candidate or job not found")

// defaultWorkers bounds the parallelism of lazy embedding backfills.
const defaultWorkers = 4

// CandidateStore is the candidate record access the engine needs.
type CandidateStore interface {
	GetCandidateByID(ctx context.Context, id uuid.UUID) (*types.Candidate, error)
	GetCandidateByEmail(ctx context.Context, email string) (*types.Candidate, error)
	ListCandidates(ctx context.Context) ([]types.Candidate, error)
	ListCandidatesMissingEmbedding(ctx context.Context) ([]types.Candidate, error)
}

// JobStore is the job record access the engine needs.
type JobStore interface {
	GetJobByID(ctx context.Context, id uuid.UUID) (*types.Job, error)
	ListJobs(ctx context.Context, source string) ([]types.Job, error)
	ListJobsMissingEmbedding(ctx context.Context, source string) ([]types.Job, error)
}

// EngineConfig tunes an Engine. Zero values pick sensible defaults.
type EngineConfig struct {
	Workers int              // bounded parallelism for scoring and backfills
	Events  events.Publisher // nil disables event publishing
	Logger  *zap.Logger      // nil disables logging
}

// Engine is the matching engine. It is stateless per call: all durable state
// lives in the record stores and the vector store. One engine is constructed
// at process start and shared across request handlers.
type Engine struct {
	candidates CandidateStore
	jobs       JobStore
	vectors    embedding.Store
	provider   embedding.Provider
	events     events.Publisher
	logger     *zap.Logger
	workers    int
}

// NewEngine creates a matching engine over the given stores and provider.
func NewEngine(candidates CandidateStore, jobs JobStore, vectors embedding.Store, provider embedding.Provider, cfg EngineConfig) *Engine {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	publisher := cfg.Events
	if publisher == nil {
		publisher = events.Noop{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		candidates: candidates,
		jobs:       jobs,
		vectors:    vectors,
		provider:   provider,
		events:     publisher,
		logger:     logger,
		workers:    workers,
	}
}

// EmbedCandidate computes and persists the embedding for a candidate.
// Returns (nil, nil) when the profile has no extractable text.
func (e *Engine) EmbedCandidate(ctx context.Context, c *types.Candidate) ([]float32, error) {
	text := CandidateText(c)
	if text == "" {
		return nil, nil
	}
	vec, err := e.provider.Encode(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode candidate %s: %w", c.ID, err)
	}
	if err := e.vectors.Put(ctx, embedding.KindCandidate, c.ID, vec); err != nil {
		return nil, fmt.Errorf("failed to store candidate embedding %s: %w", c.ID, err)
	}
	e.events.EmbeddingComputed(embedding.KindCandidate, c.ID)
	return vec, nil
}

// EmbedJob computes and persists the embedding for a job posting.
// Returns (nil, nil) when the posting has no extractable text.
func (e *Engine) EmbedJob(ctx context.Context, j *types.Job) ([]float32, error) {
	text := JobText(j)
	if text == "" {
		return nil, nil
	}
	vec, err := e.provider.Encode(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job %s: %w", j.ID, err)
	}
	if err := e.vectors.Put(ctx, embedding.KindJob, j.ID, vec); err != nil {
		return nil, fmt.Errorf("failed to store job embedding %s: %w", j.ID, err)
	}
	e.events.EmbeddingComputed(embedding.KindJob, j.ID)
	return vec, nil
}

// candidateVector resolves a candidate's embedding: stored vector first,
// then compute-and-persist, then a transient unpersisted encode on any
// provider/store failure. Returns nil only for unscorable profiles.
func (e *Engine) candidateVector(ctx context.Context, c *types.Candidate) []float32 {
	if c.ID != uuid.Nil {
		vec, err := e.vectors.Get(ctx, embedding.KindCandidate, c.ID)
		if err == nil && vec != nil {
			return vec
		}
		if err == nil {
			if vec, err = e.EmbedCandidate(ctx, c); err == nil {
				return vec
			}
		}
		e.logger.Warn("falling back to transient candidate embedding",
			zap.String("candidate_id", c.ID.String()), zap.Error(err))
	}

	text := CandidateText(c)
	if text == "" {
		return nil
	}
	vec, err := e.provider.Encode(ctx, text)
	if err != nil {
		e.logger.Warn("transient candidate encode failed", zap.Error(err))
		return nil
	}
	return vec
}

// jobVector resolves a job's embedding, mirroring candidateVector.
func (e *Engine) jobVector(ctx context.Context, j *types.Job) []float32 {
	if j.ID != uuid.Nil {
		vec, err := e.vectors.Get(ctx, embedding.KindJob, j.ID)
		if err == nil && vec != nil {
			return vec
		}
		if err == nil {
			if vec, err = e.EmbedJob(ctx, j); err == nil {
				return vec
			}
		}
		e.logger.Warn("falling back to transient job embedding",
			zap.String("job_id", j.ID.String()), zap.Error(err))
	}

	text := JobText(j)
	if text == "" {
		return nil
	}
	vec, err := e.provider.Encode(ctx, text)
	if err != nil {
		e.logger.Warn("transient job encode failed", zap.Error(err))
		return nil
	}
	return vec
}

// MatchScore computes the composite match score for a candidate/job pair:
// 0.6*semantic + 0.3*skill overlap + 0.1*experience boost, clamped to [0,1]
// and rounded to 3 decimals. A scoring request always returns a number:
// unscorable pairs score 0.0 and embedding failures degrade to transient
// vectors rather than propagating.
func (e *Engine) MatchScore(ctx context.Context, c *types.Candidate, j *types.Job) float64 {
	if CandidateText(c) == "" || JobText(j) == "" {
		return 0.0
	}

	candidateVec := e.candidateVector(ctx, c)
	jobVec := e.jobVector(ctx, j)

	semantic := cosineSimilarity(candidateVec, jobVec)
	skill := SkillMatch(c, j)
	boost := ExperienceBoost(c)

	return round3(clamp01(semanticWeight*semantic + skillWeight*skill + experienceWeight*boost))
}

// MatchingJobsForCandidate ranks all jobs (optionally filtered by source) for
// the candidate with the given email and returns the top-N by composite
// score. An unknown email yields an empty result, not an error. Ties keep
// retrieval order.
func (e *Engine) MatchingJobsForCandidate(ctx context.Context, candidateEmail string, topN int, source string) ([]types.JobMatch, error) {
	candidate, err := e.candidates.GetCandidateByEmail(ctx, candidateEmail)
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return []types.JobMatch{}, nil
	}

	// Warm the candidate's stored embedding; scoring falls back to a
	// transient vector if this fails.
	if vec, err := e.vectors.Get(ctx, embedding.KindCandidate, candidate.ID); err == nil && vec == nil {
		if _, err := e.EmbedCandidate(ctx, candidate); err != nil {
			e.logger.Warn("failed to warm candidate embedding",
				zap.String("candidate_id", candidate.ID.String()), zap.Error(err))
		}
	}

	jobs, err := e.jobs.ListJobs(ctx, source)
	if err != nil {
		return nil, err
	}

	matches := e.scoreJobs(ctx, candidate, jobs)
	sort.SliceStable(matches, func(i, k int) bool { return matches[i].Score > matches[k].Score })
	return truncateJobMatches(matches, topN), nil
}

// MatchingCandidatesForJob ranks all candidates for the given job and returns
// the top-N by composite score. Candidate embeddings missing at call time are
// computed and persisted lazily with bounded parallelism; returned candidate
// records never carry credentials. An unknown job yields an empty result.
func (e *Engine) MatchingCandidatesForJob(ctx context.Context, jobID uuid.UUID, topN int) ([]types.CandidateMatch, error) {
	job, err := e.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return []types.CandidateMatch{}, nil
	}

	if vec, err := e.vectors.Get(ctx, embedding.KindJob, job.ID); err == nil && vec == nil {
		if _, err := e.EmbedJob(ctx, job); err != nil {
			e.logger.Warn("failed to warm job embedding",
				zap.String("job_id", job.ID.String()), zap.Error(err))
		}
	}

	candidates, err := e.candidates.ListCandidates(ctx)
	if err != nil {
		return nil, err
	}

	// Score concurrently, writing by index so retrieval order survives for
	// the stable sort below.
	matches := make([]types.CandidateMatch, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range candidates {
		g.Go(func() error {
			c := candidates[i]
			c.PasswordHash = ""
			matches[i] = types.CandidateMatch{
				Candidate: c,
				Score:     e.MatchScore(gctx, &candidates[i], job),
			}
			return nil
		})
	}
	_ = g.Wait() // scoring never returns an error

	sort.SliceStable(matches, func(i, k int) bool { return matches[i].Score > matches[k].Score })
	if topN > 0 && len(matches) > topN {
		matches = matches[:topN]
	}
	return matches, nil
}

// ScorePair resolves a candidate by email and a job by id and computes their
// composite score. Returns ErrNotFound when either side is missing; the
// resolved job is returned for reporting.
func (e *Engine) ScorePair(ctx context.Context, candidateEmail string, jobID uuid.UUID) (float64, *types.Job, error) {
	candidate, err := e.candidates.GetCandidateByEmail(ctx, candidateEmail)
	if err != nil {
		return 0, nil, err
	}
	job, err := e.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return 0, nil, err
	}
	if candidate == nil || job == nil {
		return 0, nil, ErrNotFound
	}
	return e.MatchScore(ctx, candidate, job), job, nil
}

// scoreJobs scores a candidate against each job with bounded parallelism,
// preserving slice order.
func (e *Engine) scoreJobs(ctx context.Context, candidate *types.Candidate, jobs []types.Job) []types.JobMatch {
	matches := make([]types.JobMatch, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range jobs {
		g.Go(func() error {
			matches[i] = types.JobMatch{
				Job:   jobs[i],
				Score: e.MatchScore(gctx, candidate, &jobs[i]),
			}
			return nil
		})
	}
	_ = g.Wait()
	return matches
}

func truncateJobMatches(matches []types.JobMatch, topN int) []types.JobMatch {
	if topN > 0 && len(matches) > topN {
		return matches[:topN]
	}
	return matches
}
