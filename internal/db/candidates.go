package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillforge/skillforge/internal/types"
)

// -----------------------------------------------------------------------------
// Candidate Methods
// -----------------------------------------------------------------------------

const candidateColumns = `id, email, name, bio, password_hash, skills, experience, education, portfolio, created_at, updated_at`

func scanCandidate(row pgx.Row) (*types.Candidate, error) {
	var c types.Candidate
	var skillsJSON, experienceJSON, educationJSON, portfolioJSON []byte

	err := row.Scan(&c.ID, &c.Email, &c.Name, &c.Bio, &c.PasswordHash,
		&skillsJSON, &experienceJSON, &educationJSON, &portfolioJSON,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	// Parse JSONB fields
	if skillsJSON != nil {
		_ = json.Unmarshal(skillsJSON, &c.Skills)
	}
	if experienceJSON != nil {
		_ = json.Unmarshal(experienceJSON, &c.Experience)
	}
	if educationJSON != nil {
		_ = json.Unmarshal(educationJSON, &c.Education)
	}
	if portfolioJSON != nil {
		_ = json.Unmarshal(portfolioJSON, &c.Portfolio)
	}

	return &c, nil
}

// CreateCandidate inserts a candidate record and returns it with its ID
func (db *DB) CreateCandidate(ctx context.Context, input *types.CandidateCreateInput, passwordHash string) (*types.Candidate, error) {
	skillsJSON, err := json.Marshal(input.Skills)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal skills: %w", err)
	}
	experienceJSON, err := json.Marshal(input.Experience)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal experience: %w", err)
	}
	educationJSON, err := json.Marshal(input.Education)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal education: %w", err)
	}
	portfolioJSON, err := json.Marshal(input.Portfolio)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal portfolio: %w", err)
	}

	row := db.pool.QueryRow(ctx,
		`INSERT INTO candidates (email, name, bio, password_hash, skills, experience, education, portfolio)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+candidateColumns,
		input.Email, input.Name, input.Bio, passwordHash,
		skillsJSON, experienceJSON, educationJSON, portfolioJSON,
	)

	c, err := scanCandidate(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}
	return c, nil
}

// GetCandidateByID retrieves a candidate by its ID
func (db *DB) GetCandidateByID(ctx context.Context, id uuid.UUID) (*types.Candidate, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id)

	c, err := scanCandidate(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

// GetCandidateByEmail retrieves a candidate by its unique email
func (db *DB) GetCandidateByEmail(ctx context.Context, email string) (*types.Candidate, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE email = $1`, email)

	c, err := scanCandidate(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate by email: %w", err)
	}
	return c, nil
}

// ListCandidates returns all candidates in stable insertion order
func (db *DB) ListCandidates(ctx context.Context) ([]types.Candidate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+` FROM candidates ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []types.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return candidates, nil
}

// ListCandidatesMissingEmbedding returns candidates that have no stored
// embedding vector, in stable insertion order.
func (db *DB) ListCandidatesMissingEmbedding(ctx context.Context) ([]types.Candidate, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates c
		 WHERE NOT EXISTS (
		   SELECT 1 FROM embeddings e WHERE e.kind = 'candidate' AND e.record_id = c.id
		 )
		 ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates missing embedding: %w", err)
	}
	defer rows.Close()

	var candidates []types.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return candidates, nil
}
