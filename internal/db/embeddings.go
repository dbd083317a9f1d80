package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Embedding Methods
// -----------------------------------------------------------------------------
//
// Embedding vectors live in their own table keyed by (kind, record_id), not on
// the candidate/job rows. Writes are whole-vector replaces: concurrent callers
// that both compute the same missing vector race benignly, last write wins.
// Vectors are never invalidated when a profile is edited.

// GetEmbedding returns the stored vector for a record, or nil if absent
func (db *DB) GetEmbedding(ctx context.Context, kind string, recordID uuid.UUID) ([]float32, error) {
	var vector []float32
	err := db.pool.QueryRow(ctx,
		`SELECT vector FROM embeddings WHERE kind = $1 AND record_id = $2`,
		kind, recordID,
	).Scan(&vector)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get embedding: %w", err)
	}
	return vector, nil
}

// PutEmbedding stores the full vector for a record, replacing any previous one
func (db *DB) PutEmbedding(ctx context.Context, kind string, recordID uuid.UUID, vector []float32) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO embeddings (kind, record_id, vector)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (kind, record_id) DO UPDATE SET vector = $3, updated_at = NOW()`,
		kind, recordID, vector,
	)
	if err != nil {
		return fmt.Errorf("failed to put embedding: %w", err)
	}
	return nil
}
