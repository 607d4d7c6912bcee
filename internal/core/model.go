package core

import (
	"time"
)

// Label is the binary verdict assigned to a non-empty message
type Label string

const (
	// LabelSpam marks a message the classifier predicted as class 1
	LabelSpam Label = "spam"
	// LabelNotSpam marks every other prediction
	LabelNotSpam Label = "not-spam"
)

// LabelFromRaw maps a raw classifier output to a Label
func LabelFromRaw(raw int) Label {
	if raw == 1 {
		return LabelSpam
	}
	return LabelNotSpam
}

// State is one of the three mutually exclusive response states
type State string

const (
	StateEmpty   State = "empty"
	StateSpam    State = "spam"
	StateNotSpam State = "not-spam"
)

// FeatureVector is a sparse numeric encoding of a normalized message.
// Indices are strictly increasing and every index is below Dim.
type FeatureVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// DenseVector builds a FeatureVector from dense values, skipping zeros
func DenseVector(values []float64) FeatureVector {
	fv := FeatureVector{Dim: len(values)}
	for i, v := range values {
		if v != 0 {
			fv.Indices = append(fv.Indices, i)
			fv.Values = append(fv.Values, v)
		}
	}
	return fv
}

// Dot returns the inner product of the vector with a dense weight row
func (fv FeatureVector) Dot(weights []float64) float64 {
	var sum float64
	for k, idx := range fv.Indices {
		if idx < len(weights) {
			sum += fv.Values[k] * weights[idx]
		}
	}
	return sum
}

// NNZ returns the number of stored entries
func (fv FeatureVector) NNZ() int {
	return len(fv.Indices)
}

// Verdict represents the result of classifying one raw message
type Verdict struct {
	EmptyInput   bool
	Label        Label
	RawLabel     int
	Normalized   string
	Cached       bool
	ModelUsed    string
	AnalyzedAt   time.Time
	ProcessingID string
}

// IsSpam reports whether the verdict carries the spam label
func (v *Verdict) IsSpam() bool {
	return !v.EmptyInput && v.Label == LabelSpam
}

// State returns the response state the verdict should be rendered as
func (v *Verdict) State() State {
	switch {
	case v.EmptyInput:
		return StateEmpty
	case v.Label == LabelSpam:
		return StateSpam
	default:
		return StateNotSpam
	}
}

// CacheEntry is a stored verdict keyed by model and normalized message
type CacheEntry struct {
	Key       string
	Label     Label
	RawLabel  int
	LastSeen  time.Time
	ExpiresAt time.Time
}
