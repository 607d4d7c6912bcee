package core

import (
	"context"
)

// Normalizer reduces a raw message to its canonical bag-of-stems form
type Normalizer interface {
	// Normalize never fails; an input without alphanumeric content yields ""
	Normalize(raw string) string
}

// Vectorizer maps a normalized message to a feature vector
type Vectorizer interface {
	// Transform encodes a normalized message
	Transform(ctx context.Context, normalized string) (FeatureVector, error)

	// Dim returns the dimensionality of produced vectors
	Dim() int
}

// Classifier predicts a raw binary label from a feature vector
type Classifier interface {
	// Predict returns the raw class label, 1 meaning spam
	Predict(fv FeatureVector) (int, error)

	// Dim returns the number of features the model expects
	Dim() int
}

// CacheRepository defines the interface for caching verdicts
type CacheRepository interface {
	// Get retrieves a cached entry by key
	Get(ctx context.Context, key string) (*CacheEntry, error)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, key string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
