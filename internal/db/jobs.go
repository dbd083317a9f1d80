package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillforge/skillforge/internal/types"
)

// -----------------------------------------------------------------------------
// Job Methods
// -----------------------------------------------------------------------------

const jobColumns = `id, title, company, description, required_skills, job_type, location, source, posted_by, created_at, updated_at`

func scanJob(row pgx.Row) (*types.Job, error) {
	var j types.Job
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Description, &j.RequiredSkills,
		&j.JobType, &j.Location, &j.Source, &j.PostedBy, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJob inserts a job posting and returns it with its ID
func (db *DB) CreateJob(ctx context.Context, input *types.JobCreateInput) (*types.Job, error) {
	source := input.Source
	if source == "" {
		source = types.SourceHR
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, company, description, required_skills, job_type, location, source, posted_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+jobColumns,
		input.Title, input.Company, input.Description, input.RequiredSkills,
		input.JobType, input.Location, source, input.PostedBy,
	)

	j, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return j, nil
}

// GetJobByID retrieves a job posting by its ID
func (db *DB) GetJobByID(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)

	j, err := scanJob(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return j, nil
}

// JobExists reports whether a posting with the same title, company and source
// already exists. Used by ingestion to avoid duplicate inserts.
func (db *DB) JobExists(ctx context.Context, title, company, source string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM jobs WHERE title = $1 AND company = $2 AND source = $3)`,
		title, company, source,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check job existence: %w", err)
	}
	return exists, nil
}

// ListJobs returns job postings in stable insertion order, optionally filtered
// by source ("hr" or "api"). An empty source returns all jobs.
func (db *DB) ListJobs(ctx context.Context, source string) ([]types.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs ORDER BY created_at, id`
	args := []any{}
	if source != "" {
		query = `SELECT ` + jobColumns + ` FROM jobs WHERE source = $1 ORDER BY created_at, id`
		args = append(args, source)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}

// ListJobsMissingEmbedding returns jobs with no stored embedding vector,
// optionally filtered by source, in stable insertion order.
func (db *DB) ListJobsMissingEmbedding(ctx context.Context, source string) ([]types.Job, error) {
	query := `SELECT ` + jobColumns + `
	 FROM jobs j
	 WHERE NOT EXISTS (
	   SELECT 1 FROM embeddings e WHERE e.kind = 'job' AND e.record_id = j.id
	 )`
	args := []any{}
	if source != "" {
		query += ` AND j.source = $1`
		args = append(args, source)
	}
	query += ` ORDER BY created_at, id`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs missing embedding: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}
	return jobs, nil
}
