package classifier

import (
	"fmt"

	"github.com/mikey/spam-classifier/internal/artifact"
	"github.com/mikey/spam-classifier/internal/core"
)

type linearArtifact struct {
	Type      string      `json:"type"`
	Classes   []int       `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
}

// Linear is a binary linear decision function, covering exported
// LogisticRegression, LinearSVC and SGDClassifier models
type Linear struct {
	classes   []int
	coef      []float64
	intercept float64
}

// NewLinear builds a linear classifier from an artifact
func NewLinear(a *artifact.Artifact) (*Linear, error) {
	var spec linearArtifact
	if err := a.Decode(&spec); err != nil {
		return nil, err
	}

	if len(spec.Classes) != 2 {
		return nil, fmt.Errorf("linear artifact must have exactly two classes, got %d", len(spec.Classes))
	}
	if len(spec.Coef) != 1 || len(spec.Coef[0]) == 0 {
		return nil, fmt.Errorf("linear artifact must have a single non-empty coefficient row")
	}

	var intercept float64
	switch len(spec.Intercept) {
	case 0:
	case 1:
		intercept = spec.Intercept[0]
	default:
		return nil, fmt.Errorf("linear artifact has %d intercepts, expected 1", len(spec.Intercept))
	}

	return &Linear{
		classes:   spec.Classes,
		coef:      spec.Coef[0],
		intercept: intercept,
	}, nil
}

// Dim returns the number of features the model expects
func (m *Linear) Dim() int {
	return len(m.coef)
}

// DecisionFunction returns the signed distance to the separating hyperplane
func (m *Linear) DecisionFunction(fv core.FeatureVector) float64 {
	return fv.Dot(m.coef) + m.intercept
}

// Predict returns classes[1] when the decision function is positive
func (m *Linear) Predict(fv core.FeatureVector) (int, error) {
	if err := checkDim(fv, len(m.coef)); err != nil {
		return 0, err
	}
	if m.DecisionFunction(fv) > 0 {
		return m.classes[1], nil
	}
	return m.classes[0], nil
}
