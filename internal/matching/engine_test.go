package matching

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/skillforge/internal/embedding"
	"github.com/skillforge/skillforge/internal/types"
)

// fakeProvider returns canned vectors by extracted text and counts calls.
type fakeProvider struct {
	mu      sync.Mutex
	calls   int
	vectors map[string][]float32
	err     error
}

func (p *fakeProvider) Encode(_ context.Context, text string) ([]float32, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	if v, ok := p.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0, 0}, nil
}

func (p *fakeProvider) ModelName() string { return "fake" }

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fakeCandidateStore struct {
	candidates []types.Candidate
	missing    []types.Candidate
	err        error
}

func (s *fakeCandidateStore) GetCandidateByID(_ context.Context, id uuid.UUID) (*types.Candidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.candidates {
		if s.candidates[i].ID == id {
			c := s.candidates[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (s *fakeCandidateStore) GetCandidateByEmail(_ context.Context, email string) (*types.Candidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.candidates {
		if s.candidates[i].Email == email {
			c := s.candidates[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (s *fakeCandidateStore) ListCandidates(_ context.Context) ([]types.Candidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.candidates, nil
}

func (s *fakeCandidateStore) ListCandidatesMissingEmbedding(_ context.Context) ([]types.Candidate, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.missing, nil
}

type fakeJobStore struct {
	jobs    []types.Job
	missing []types.Job
	err     error
}

func (s *fakeJobStore) GetJobByID(_ context.Context, id uuid.UUID) (*types.Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			j := s.jobs[i]
			return &j, nil
		}
	}
	return nil, nil
}

func (s *fakeJobStore) ListJobs(_ context.Context, source string) ([]types.Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	if source == "" {
		return s.jobs, nil
	}
	var filtered []types.Job
	for _, j := range s.jobs {
		if j.Source == source {
			filtered = append(filtered, j)
		}
	}
	return filtered, nil
}

func (s *fakeJobStore) ListJobsMissingEmbedding(_ context.Context, source string) ([]types.Job, error) {
	if s.err != nil {
		return nil, s.err
	}
	if source == "" {
		return s.missing, nil
	}
	var filtered []types.Job
	for _, j := range s.missing {
		if j.Source == source {
			filtered = append(filtered, j)
		}
	}
	return filtered, nil
}

func newTestEngine(candidates *fakeCandidateStore, jobs *fakeJobStore, provider *fakeProvider) (*Engine, *embedding.MemoryStore) {
	vectors := embedding.NewMemoryStore()
	engine := NewEngine(candidates, jobs, vectors, provider, EngineConfig{Workers: 2})
	return engine, vectors
}

func testCandidate(email string) types.Candidate {
	return types.Candidate{
		ID:    uuid.New(),
		Email: email,
		Bio:   "Backend engineer",
		Skills: []types.SkillItem{
			{Name: "python", Level: 80},
		},
		Experience: []types.ExperienceItem{
			{Role: "Developer", Description: "Built services"},
		},
	}
}

func testJob(title, source string) types.Job {
	return types.Job{
		ID:             uuid.New(),
		Title:          title,
		Company:        "Acme",
		Description:    "Build things",
		RequiredSkills: []string{"python"},
		Source:         source,
		PostedBy:       "hr@acme.test",
	}
}

func TestMatchScore_UnscorablePairIsZero(t *testing.T) {
	provider := &fakeProvider{}
	engine, _ := newTestEngine(&fakeCandidateStore{}, &fakeJobStore{}, provider)

	empty := &types.Candidate{ID: uuid.New()}
	job := testJob("Backend Engineer", types.SourceHR)

	assert.Equal(t, 0.0, engine.MatchScore(context.Background(), empty, &job))
	assert.Equal(t, 0.0, engine.MatchScore(context.Background(), &types.Candidate{}, &types.Job{}))
	assert.Equal(t, 0, provider.callCount(), "unscorable pairs must not hit the provider")
}

func TestMatchScore_BoundedAndRounded(t *testing.T) {
	candidate := testCandidate("dev@test.io")
	job := testJob("Backend Engineer", types.SourceHR)
	engine, _ := newTestEngine(
		&fakeCandidateStore{candidates: []types.Candidate{candidate}},
		&fakeJobStore{jobs: []types.Job{job}},
		&fakeProvider{},
	)

	score := engine.MatchScore(context.Background(), &candidate, &job)

	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
	assert.Equal(t, round3(score), score)
}

func TestMatchScore_IdenticalTextsScoreFullSemantic(t *testing.T) {
	candidate := testCandidate("dev@test.io")
	job := testJob("Backend Engineer", types.SourceHR)
	engine, _ := newTestEngine(&fakeCandidateStore{}, &fakeJobStore{}, &fakeProvider{})

	// Identical vectors from the default fake provider: semantic = 1.0,
	// skill = 0.8, boost = 0.05.
	want := round3(0.6*1.0 + 0.3*0.8 + 0.1*0.05)
	assert.Equal(t, want, engine.MatchScore(context.Background(), &candidate, &job))
}

func TestMatchScore_CacheHitSkipsProvider(t *testing.T) {
	candidate := testCandidate("dev@test.io")
	job := testJob("Backend Engineer", types.SourceHR)
	provider := &fakeProvider{}
	engine, vectors := newTestEngine(&fakeCandidateStore{}, &fakeJobStore{}, provider)

	require.NoError(t, vectors.Put(context.Background(), embedding.KindCandidate, candidate.ID, []float32{1, 0}))
	require.NoError(t, vectors.Put(context.Background(), embedding.KindJob, job.ID, []float32{1, 0}))

	engine.MatchScore(context.Background(), &candidate, &job)

	assert.Equal(t, 0, provider.callCount())
}

func TestMatchScore_RoundTripComputesOnce(t *testing.T) {
	candidate := testCandidate("dev@test.io")
	job := testJob("Backend Engineer", types.SourceHR)
	provider := &fakeProvider{}
	engine, vectors := newTestEngine(&fakeCandidateStore{}, &fakeJobStore{}, provider)

	first := engine.MatchScore(context.Background(), &candidate, &job)
	assert.Equal(t, 2, provider.callCount(), "one encode per side")
	assert.Equal(t, 2, vectors.Len(), "both vectors persisted")

	second := engine.MatchScore(context.Background(), &candidate, &job)
	assert.Equal(t, 2, provider.callCount(), "second scoring must be a cache hit")
	assert.Equal(t, first, second)
}

func TestMatchScore_TransientForIdentityLessInputs(t *testing.T) {
	candidate := testCandidate("dev@test.io")
	candidate.ID = uuid.Nil
	job := testJob("Backend Engineer", types.SourceHR)
	job.ID = uuid.Nil
	provider := &fakeProvider{}
	engine, vectors := newTestEngine(&fakeCandidateStore{}, &fakeJobStore{}, provider)

	engine.MatchScore(context.Background(), &candidate, &job)

	assert.Equal(t, 2, provider.callCount())
	assert.Equal(t, 0, vectors.Len(), "identity-less inputs must not persist embeddings")
}

func TestMatchScore_ProviderFailureDegradesGracefully(t *testing.T) {
	candidate := testCandidate("dev@test.io")
	job := testJob("Backend Engineer", types.SourceHR)
	provider := &fakeProvider{err: errors.New("model down")}
	engine, _ := newTestEngine(&fakeCandidateStore{}, &fakeJobStore{}, provider)

	// Semantic contribution drops to 0; skill and experience still count.
	want := round3(0.3*0.8 + 0.1*0.05)
	assert.Equal(t, want, engine.MatchScore(context.Background(), &candidate, &job))
}

func TestMatchScore_StoreFailureFallsBackToTransient(t *testing.T) {
	candidate := testCandidate("dev@test.io")
	job := testJob("Backend Engineer", types.SourceHR)
	provider := &fakeProvider{}
	engine := NewEngine(&fakeCandidateStore{}, &fakeJobStore{}, failingStore{}, provider, EngineConfig{})

	score := engine.MatchScore(context.Background(), &candidate, &job)

	want := round3(0.6*1.0 + 0.3*0.8 + 0.1*0.05)
	assert.Equal(t, want, score)
}

// failingStore errors on every operation.
type failingStore struct{}

func (failingStore) Get(context.Context, string, uuid.UUID) ([]float32, error) {
	return nil, errors.New("store down")
}

func (failingStore) Put(context.Context, string, uuid.UUID, []float32) error {
	return errors.New("store down")
}

func TestMatchingJobsForCandidate_RanksAndTruncates(t *testing.T) {
	candidate := testCandidate("dev@test.io")
	strong := testJob("Strong match", types.SourceHR)
	weak := testJob("Weak match", types.SourceHR)
	weak.RequiredSkills = []string{"cobol"}
	middle := testJob("Middle match", types.SourceHR)
	middle.RequiredSkills = []string{"python", "cobol"}

	provider := &fakeProvider{vectors: map[string][]float32{}}
	candidates := &fakeCandidateStore{candidates: []types.Candidate{candidate}}
	jobs := &fakeJobStore{jobs: []types.Job{weak, strong, middle}}
	engine, _ := newTestEngine(candidates, jobs, provider)

	matches, err := engine.MatchingJobsForCandidate(context.Background(), "dev@test.io", 2, "")
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "Strong match", matches[0].Job.Title)
	assert.Equal(t, "Middle match", matches[1].Job.Title)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)
}

func TestMatchingJobsForCandidate_SourceFilter(t *testing.T) {
	candidate := testCandidate("dev@test.io")
	hrJob := testJob("HR job", types.SourceHR)
	apiJob := testJob("API job", types.SourceAPI)

	engine, _ := newTestEngine(
		&fakeCandidateStore{candidates: []types.Candidate{candidate}},
		&fakeJobStore{jobs: []types.Job{hrJob, apiJob}},
		&fakeProvider{},
	)

	matches, err := engine.MatchingJobsForCandidate(context.Background(), "dev@test.io", 10, types.SourceAPI)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Equal(t, "API job", matches[0].Job.Title)
}

func TestMatchingJobsForCandidate_TiesKeepRetrievalOrder(t *testing.T) {
	candidate := testCandidate("dev@test.io")
	// Same skills and identical fake vectors: identical scores.
	first := testJob("First", types.SourceHR)
	second := testJob("Second", types.SourceHR)

	engine, _ := newTestEngine(
		&fakeCandidateStore{candidates: []types.Candidate{candidate}},
		&fakeJobStore{jobs: []types.Job{first, second}},
		&fakeProvider{},
	)

	matches, err := engine.MatchingJobsForCandidate(context.Background(), "dev@test.io", 10, "")
	require.NoError(t, err)

	require.Len(t, matches, 2)
	assert.Equal(t, "First", matches[0].Job.Title)
	assert.Equal(t, "Second", matches[1].Job.Title)
}

func TestMatchingJobsForCandidate_UnknownEmailIsEmpty(t *testing.T) {
	engine, _ := newTestEngine(&fakeCandidateStore{}, &fakeJobStore{}, &fakeProvider{})

	matches, err := engine.MatchingJobsForCandidate(context.Background(), "ghost@test.io", 10, "")
	require.NoError(t, err)

	assert.Empty(t, matches)
}

func TestMatchingJobsForCandidate_WarmsCandidateEmbedding(t *testing.T) {
	candidate := testCandidate("dev@test.io")
	provider := &fakeProvider{}
	candidates := &fakeCandidateStore{candidates: []types.Candidate{candidate}}
	engine, vectors := newTestEngine(candidates, &fakeJobStore{}, provider)

	_, err := engine.MatchingJobsForCandidate(context.Background(), "dev@test.io", 10, "")
	require.NoError(t, err)

	vec, err := vectors.Get(context.Background(), embedding.KindCandidate, candidate.ID)
	require.NoError(t, err)
	assert.NotNil(t, vec, "candidate embedding must be persisted before scoring")
}

func TestMatchingCandidatesForJob_StripsCredentials(t *testing.T) {
	job := testJob("Backend Engineer", types.SourceHR)
	candidate := testCandidate("dev@test.io")
	candidate.PasswordHash = "$2a$12$secret"

	engine, _ := newTestEngine(
		&fakeCandidateStore{candidates: []types.Candidate{candidate}},
		&fakeJobStore{jobs: []types.Job{job}},
		&fakeProvider{},
	)

	matches, err := engine.MatchingCandidatesForJob(context.Background(), job.ID, 10)
	require.NoError(t, err)

	require.Len(t, matches, 1)
	assert.Empty(t, matches[0].Candidate.PasswordHash)
}

func TestMatchingCandidatesForJob_LazyEmbedsCandidates(t *testing.T) {
	job := testJob("Backend Engineer", types.SourceHR)
	a := testCandidate("a@test.io")
	b := testCandidate("b@test.io")

	provider := &fakeProvider{}
	engine, vectors := newTestEngine(
		&fakeCandidateStore{candidates: []types.Candidate{a, b}},
		&fakeJobStore{jobs: []types.Job{job}},
		provider,
	)

	_, err := engine.MatchingCandidatesForJob(context.Background(), job.ID, 10)
	require.NoError(t, err)

	for _, id := range []uuid.UUID{a.ID, b.ID} {
		vec, err := vectors.Get(context.Background(), embedding.KindCandidate, id)
		require.NoError(t, err)
		assert.NotNil(t, vec)
	}
}

func TestMatchingCandidatesForJob_UnknownJobIsEmpty(t *testing.T) {
	engine, _ := newTestEngine(&fakeCandidateStore{}, &fakeJobStore{}, &fakeProvider{})

	matches, err := engine.MatchingCandidatesForJob(context.Background(), uuid.New(), 10)
	require.NoError(t, err)

	assert.Empty(t, matches)
}

func TestMatchingCandidatesForJob_Truncates(t *testing.T) {
	job := testJob("Backend Engineer", types.SourceHR)
	var cs []types.Candidate
	for i := 0; i < 5; i++ {
		cs = append(cs, testCandidate(fmt.Sprintf("c%d@test.io", i)))
	}

	engine, _ := newTestEngine(
		&fakeCandidateStore{candidates: cs},
		&fakeJobStore{jobs: []types.Job{job}},
		&fakeProvider{},
	)

	matches, err := engine.MatchingCandidatesForJob(context.Background(), job.ID, 3)
	require.NoError(t, err)

	assert.Len(t, matches, 3)
}

func TestScorePair_NotFound(t *testing.T) {
	engine, _ := newTestEngine(&fakeCandidateStore{}, &fakeJobStore{}, &fakeProvider{})

	_, _, err := engine.ScorePair(context.Background(), "ghost@test.io", uuid.New())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScorePair_ReturnsScoreAndJob(t *testing.T) {
	candidate := testCandidate("dev@test.io")
	job := testJob("Backend Engineer", types.SourceHR)

	engine, _ := newTestEngine(
		&fakeCandidateStore{candidates: []types.Candidate{candidate}},
		&fakeJobStore{jobs: []types.Job{job}},
		&fakeProvider{},
	)

	score, resolved, err := engine.ScorePair(context.Background(), "dev@test.io", job.ID)
	require.NoError(t, err)

	assert.Equal(t, job.ID, resolved.ID)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}
