// Package embedding provides the text embedding capability and the
// identity-keyed vector cache used by the matching engine.
package embedding

import (
	"context"
	"fmt"
)

// Provider is an abstraction over embedding model backends. Encode maps text
// to a fixed-length vector; the model is treated as deterministic, so two
// encodings of the same text are interchangeable.
type Provider interface {
	// Encode returns the embedding vector for the given text
	Encode(ctx context.Context, text string) ([]float32, error)
	// ModelName returns the backing model identifier
	ModelName() string
}

// NullProvider is a no-op provider for when embedding is disabled
type NullProvider struct{}

// Encode always fails; callers treat records as unscorable.
func (NullProvider) Encode(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("embedding disabled")
}

// ModelName returns empty string for NullProvider
func (NullProvider) ModelName() string { return "" }
