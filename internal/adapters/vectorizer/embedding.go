package vectorizer

import (
	"fmt"

	"github.com/mikey/spam-classifier/internal/artifact"
	"github.com/mikey/spam-classifier/internal/core"
)

// FromEmbedding converts a dense embedding returned by a remote model into
// a feature vector, rejecting vectors of the wrong size
func FromEmbedding(values []float32, dim int) (core.FeatureVector, error) {
	if len(values) != dim {
		return core.FeatureVector{}, fmt.Errorf("embedding has %d values, expected %d: %w",
			len(values), dim, artifact.ErrDimensionMismatch)
	}
	dense := make([]float64, len(values))
	for i, v := range values {
		dense[i] = float64(v)
	}
	return core.DenseVector(dense), nil
}

// Zero returns the all-zero vector of the given dimension
func Zero(dim int) core.FeatureVector {
	return core.FeatureVector{Dim: dim}
}
