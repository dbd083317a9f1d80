package embedding

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Record kinds for stored vectors.
const (
	KindCandidate = "candidate"
	KindJob       = "job"
)

// Store is an identity-keyed vector cache. It deliberately carries no
// invalidation policy: a stored vector survives profile edits until a caller
// overwrites it. Put is a whole-vector replace with last-write-wins
// semantics, so the benign race of two callers computing the same missing
// vector needs no locking.
type Store interface {
	// Get returns the stored vector for a record, or nil if absent
	Get(ctx context.Context, kind string, recordID uuid.UUID) ([]float32, error)
	// Put stores the full vector for a record, replacing any previous one
	Put(ctx context.Context, kind string, recordID uuid.UUID, vector []float32) error
}

// MemoryStore is an in-process Store for tests and local development
type MemoryStore struct {
	mu      sync.RWMutex
	vectors map[string][]float32
}

// NewMemoryStore creates an empty in-memory vector store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vectors: make(map[string][]float32)}
}

func memoryKey(kind string, recordID uuid.UUID) string {
	return kind + "/" + recordID.String()
}

// Get returns the stored vector for a record, or nil if absent
func (s *MemoryStore) Get(_ context.Context, kind string, recordID uuid.UUID) ([]float32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vectors[memoryKey(kind, recordID)], nil
}

// Put stores the full vector for a record, replacing any previous one
func (s *MemoryStore) Put(_ context.Context, kind string, recordID uuid.UUID, vector []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors[memoryKey(kind, recordID)] = vector
	return nil
}

// Len returns the number of stored vectors
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}
