// Package ingestion pulls job postings from the JSearch API on RapidAPI
// and stores them as source "api" jobs.
package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/skillforge/skillforge/internal/events"
	"github.com/skillforge/skillforge/internal/matching"
	"github.com/skillforge/skillforge/internal/types"
)

// DefaultHost is the default RapidAPI host for the JSearch endpoint.
const DefaultHost = "jsearch.p.rapidapi.com"

// DefaultTimeout is the HTTP request timeout for the external API.
const DefaultTimeout = 30 * time.Second

const (
	maxRetries = 3
	retryDelay = 2 * time.Second
)

// commonSkills is a fallback keyword list used when a posting does not
// declare its required skills.
var commonSkills = []string{
	"python", "java", "javascript", "typescript", "react", "angular", "vue",
	"node", "django", "flask", "fastapi", "sql", "mysql", "postgresql",
	"mongodb", "aws", "azure", "docker", "kubernetes", "git", "linux",
	"html", "css", "pandas", "numpy", "machine learning", "ai", "devops",
}

// JobStore is the subset of database operations ingestion needs.
// *db.DB satisfies it.
type JobStore interface {
	JobExists(ctx context.Context, title, company, source string) (bool, error)
	CreateJob(ctx context.Context, input *types.JobCreateInput) (*types.Job, error)
}

// Config holds the dependencies and credentials for the ingestion client.
type Config struct {
	APIKey  string
	Host    string
	BaseURL string // overridable for tests
	Timeout time.Duration
	Jobs    JobStore
	Engine  *matching.Engine
	Events  events.Publisher
	Logger  *zap.Logger
}

// Client fetches postings from the JSearch API and inserts the new ones.
type Client struct {
	http    *http.Client
	apiKey  string
	host    string
	baseURL string
	jobs    JobStore
	engine  *matching.Engine
	events  events.Publisher
	logger  *zap.Logger
}

// NewClient creates an ingestion client. APIKey, Jobs and Engine are required.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ingestion: API key is required")
	}
	if cfg.Jobs == nil || cfg.Engine == nil {
		return nil, fmt.Errorf("ingestion: job store and matching engine are required")
	}
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://" + host
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ev := cfg.Events
	if ev == nil {
		ev = events.Noop{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		apiKey:  cfg.APIKey,
		host:    host,
		baseURL: baseURL,
		jobs:    cfg.Jobs,
		engine:  cfg.Engine,
		events:  ev,
		logger:  logger,
	}, nil
}

// searchResponse mirrors the JSearch /search payload.
type searchResponse struct {
	Data []posting `json:"data"`
}

// posting is a single JSearch result.
type posting struct {
	Title          string `json:"job_title"`
	EmployerName   string `json:"employer_name"`
	City           string `json:"job_city"`
	Country        string `json:"job_country"`
	Description    string `json:"job_description"`
	RequiredSkills string `json:"job_required_skills"`
	EmploymentType string `json:"job_employment_type"`
}

// Ingest queries the external API and inserts postings that are not
// already stored. Embedding failures are logged and do not fail the
// ingest; the posting remains searchable through lazy embedding.
func (c *Client) Ingest(ctx context.Context, query, location string, limit int) ([]*types.Job, error) {
	postings, err := c.search(ctx, query, location)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(postings) > limit {
		postings = postings[:limit]
	}

	inserted := make([]*types.Job, 0, len(postings))
	for _, p := range postings {
		if p.Title == "" || p.EmployerName == "" {
			continue
		}

		exists, err := c.jobs.JobExists(ctx, p.Title, p.EmployerName, types.SourceAPI)
		if err != nil {
			return inserted, fmt.Errorf("failed to check for existing job: %w", err)
		}
		if exists {
			continue
		}

		input := &types.JobCreateInput{
			Title:          p.Title,
			Company:        p.EmployerName,
			Location:       p.location(),
			Description:    p.Description,
			RequiredSkills: p.skills(),
			JobType:        p.EmploymentType,
			Source:         types.SourceAPI,
			PostedBy:       types.SystemPostedBy,
		}

		job, err := c.jobs.CreateJob(ctx, input)
		if err != nil {
			return inserted, fmt.Errorf("failed to store ingested job: %w", err)
		}

		if _, err := c.engine.EmbedJob(ctx, job); err != nil {
			c.logger.Warn("failed to embed ingested job",
				zap.String("job_id", job.ID.String()),
				zap.Error(err))
		}
		c.events.JobIngested(job.ID, job.Title)

		inserted = append(inserted, job)
	}

	c.logger.Info("job ingestion complete",
		zap.String("query", query),
		zap.Int("fetched", len(postings)),
		zap.Int("inserted", len(inserted)))
	return inserted, nil
}

// search calls the JSearch /search endpoint with retries on rate limiting.
func (c *Client) search(ctx context.Context, query, location string) ([]posting, error) {
	params := url.Values{}
	params.Set("query", query)
	if location != "" {
		params.Set("location", location)
	}
	params.Set("num_pages", "1")
	params.Set("page", "1")
	reqURL := c.baseURL + "/search?" + params.Encode()

	var lastStatus int
	for attempt := 1; attempt <= maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("X-RapidAPI-Key", c.apiKey)
		req.Header.Set("X-RapidAPI-Host", c.host)

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("job API request failed: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			defer func() { _ = resp.Body.Close() }()
			var parsed searchResponse
			if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
				return nil, fmt.Errorf("failed to decode job API response: %w", err)
			}
			return parsed.Data, nil
		case resp.StatusCode == http.StatusUnauthorized:
			_ = resp.Body.Close()
			return nil, fmt.Errorf("job API rejected the API key")
		case resp.StatusCode == http.StatusTooManyRequests:
			_ = resp.Body.Close()
			lastStatus = resp.StatusCode
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay * time.Duration(attempt)):
			}
		default:
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			_ = resp.Body.Close()
			return nil, fmt.Errorf("job API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
	}
	return nil, fmt.Errorf("job API fetch failed after %d attempts (last status %d)", maxRetries, lastStatus)
}

// location prefers the city and falls back to the country.
func (p posting) location() string {
	if p.City != "" {
		return p.City
	}
	return p.Country
}

// skills parses the declared skill list, falling back to keyword
// extraction over the description.
func (p posting) skills() []string {
	var skills []string
	for _, s := range strings.Split(p.RequiredSkills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	if len(skills) > 0 {
		return skills
	}
	return ExtractSkills(p.Description)
}

// ExtractSkills finds known skill keywords in free job description text.
func ExtractSkills(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	var found []string
	for _, skill := range commonSkills {
		if strings.Contains(lower, skill) && !seen[skill] {
			seen[skill] = true
			found = append(found, skill)
		}
	}
	sort.Strings(found)
	return found
}
