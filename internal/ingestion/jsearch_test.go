package ingestion

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillforge/skillforge/internal/embedding"
	"github.com/skillforge/skillforge/internal/matching"
	"github.com/skillforge/skillforge/internal/types"
)

// memJobStore records created jobs and answers existence checks from them.
type memJobStore struct {
	jobs []*types.Job
}

func (m *memJobStore) JobExists(ctx context.Context, title, company, source string) (bool, error) {
	for _, j := range m.jobs {
		if j.Title == title && j.Company == company && j.Source == source {
			return true, nil
		}
	}
	return false, nil
}

func (m *memJobStore) CreateJob(ctx context.Context, input *types.JobCreateInput) (*types.Job, error) {
	job := &types.Job{
		ID:             uuid.New(),
		Title:          input.Title,
		Company:        input.Company,
		Location:       input.Location,
		Description:    input.Description,
		RequiredSkills: input.RequiredSkills,
		JobType:        input.JobType,
		Source:         input.Source,
		PostedBy:       input.PostedBy,
	}
	m.jobs = append(m.jobs, job)
	return job, nil
}

// emptyCandidateStore satisfies the engine's candidate access, which
// ingestion never exercises.
type emptyCandidateStore struct{}

func (emptyCandidateStore) GetCandidateByID(ctx context.Context, id uuid.UUID) (*types.Candidate, error) {
	return nil, nil
}

func (emptyCandidateStore) GetCandidateByEmail(ctx context.Context, email string) (*types.Candidate, error) {
	return nil, nil
}

func (emptyCandidateStore) ListCandidates(ctx context.Context) ([]types.Candidate, error) {
	return nil, nil
}

func (emptyCandidateStore) ListCandidatesMissingEmbedding(ctx context.Context) ([]types.Candidate, error) {
	return nil, nil
}

// emptyEngineJobStore satisfies the engine's job access for tests.
type emptyEngineJobStore struct{}

func (emptyEngineJobStore) GetJobByID(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	return nil, nil
}

func (emptyEngineJobStore) ListJobs(ctx context.Context, source string) ([]types.Job, error) {
	return nil, nil
}

func (emptyEngineJobStore) ListJobsMissingEmbedding(ctx context.Context, source string) ([]types.Job, error) {
	return nil, nil
}

func newTestClient(t *testing.T, apiURL string) (*Client, *memJobStore) {
	t.Helper()
	store := &memJobStore{}
	engine := matching.NewEngine(
		emptyCandidateStore{},
		emptyEngineJobStore{},
		embedding.NewMemoryStore(),
		embedding.NullProvider{},
		matching.EngineConfig{},
	)
	client, err := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: apiURL,
		Jobs:    store,
		Engine:  engine,
	})
	require.NoError(t, err)
	return client, store
}

const sampleResponse = `{
	"data": [
		{
			"job_title": "Backend Engineer",
			"employer_name": "Acme",
			"job_city": "Berlin",
			"job_country": "Germany",
			"job_description": "We use Python and Docker on AWS.",
			"job_required_skills": "",
			"job_employment_type": "FULLTIME"
		},
		{
			"job_title": "Data Engineer",
			"employer_name": "Globex",
			"job_city": "",
			"job_country": "France",
			"job_description": "Pipelines.",
			"job_required_skills": "Spark, Airflow",
			"job_employment_type": "CONTRACT"
		},
		{
			"job_title": "",
			"employer_name": "Nameless Inc"
		}
	]
}`

func TestIngest_StoresNewPostings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-RapidAPI-Key"))
		assert.Equal(t, "golang developer", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client, store := newTestClient(t, srv.URL)

	inserted, err := client.Ingest(context.Background(), "golang developer", "", 10)
	require.NoError(t, err)
	require.Len(t, inserted, 2)

	first := inserted[0]
	assert.Equal(t, "Backend Engineer", first.Title)
	assert.Equal(t, "Berlin", first.Location)
	assert.Equal(t, types.SourceAPI, first.Source)
	assert.Equal(t, types.SystemPostedBy, first.PostedBy)
	assert.Equal(t, []string{"aws", "docker", "python"}, first.RequiredSkills)

	second := inserted[1]
	assert.Equal(t, "France", second.Location)
	assert.Equal(t, []string{"Spark", "Airflow"}, second.RequiredSkills)

	assert.Len(t, store.jobs, 2)
}

func TestIngest_SkipsExistingPostings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client, store := newTestClient(t, srv.URL)
	_, err := store.CreateJob(context.Background(), &types.JobCreateInput{
		Title:   "Backend Engineer",
		Company: "Acme",
		Source:  types.SourceAPI,
	})
	require.NoError(t, err)

	inserted, err := client.Ingest(context.Background(), "golang developer", "", 10)
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, "Data Engineer", inserted[0].Title)
}

func TestIngest_RespectsLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleResponse))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)

	inserted, err := client.Ingest(context.Background(), "golang developer", "", 1)
	require.NoError(t, err)
	assert.Len(t, inserted, 1)
}

func TestIngest_UnauthorizedKeyFailsFast(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)

	_, err := client.Ingest(context.Background(), "golang developer", "", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
	assert.Equal(t, 1, calls)
}

func TestIngest_RetriesOnRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	client, _ := newTestClient(t, srv.URL)

	inserted, err := client.Ingest(context.Background(), "golang developer", "", 5)
	require.NoError(t, err)
	assert.Empty(t, inserted)
	assert.Equal(t, 2, calls)
}

func TestExtractSkills(t *testing.T) {
	skills := ExtractSkills("Looking for Python and Docker experience, plus PostgreSQL.")
	// "sql" matches as a substring of "postgresql", same as the keyword scan intends
	assert.Equal(t, []string{"docker", "postgresql", "python", "sql"}, skills)

	assert.Nil(t, ExtractSkills(""))
	assert.Empty(t, ExtractSkills("No technologies mentioned here."))
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{Jobs: &memJobStore{}})
	require.Error(t, err)
}
