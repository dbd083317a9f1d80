package embedding

import (
	"context"

	"github.com/google/uuid"

	"github.com/skillforge/skillforge/internal/db"
)

// PostgresStore keeps vectors in the embeddings table next to the records.
type PostgresStore struct {
	db *db.DB
}

// NewPostgresStore creates a Store backed by the record database
func NewPostgresStore(database *db.DB) *PostgresStore {
	return &PostgresStore{db: database}
}

// Get returns the stored vector for a record, or nil if absent
func (s *PostgresStore) Get(ctx context.Context, kind string, recordID uuid.UUID) ([]float32, error) {
	return s.db.GetEmbedding(ctx, kind, recordID)
}

// Put stores the full vector for a record, replacing any previous one
func (s *PostgresStore) Put(ctx context.Context, kind string, recordID uuid.UUID, vector []float32) error {
	return s.db.PutEmbedding(ctx, kind, recordID, vector)
}
