package classifier

import (
	"fmt"
	"math"

	"github.com/mikey/spam-classifier/internal/artifact"
	"github.com/mikey/spam-classifier/internal/core"
)

type naiveBayesArtifact struct {
	Type           string      `json:"type"`
	Classes        []int       `json:"classes"`
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
	Binarize       *float64    `json:"binarize"`
}

// MultinomialNB reproduces scikit-learn's MultinomialNB.predict
type MultinomialNB struct {
	classes        []int
	classLogPrior  []float64
	featureLogProb [][]float64
	dim            int
}

// BernoulliNB reproduces scikit-learn's BernoulliNB.predict
type BernoulliNB struct {
	classes   []int
	binarize  *float64
	dim       int
	weights   [][]float64 // feature_log_prob - log(1 - exp(feature_log_prob))
	intercept []float64   // class_log_prior + sum(log(1 - exp(feature_log_prob)))
}

func decodeNaiveBayes(a *artifact.Artifact) (*naiveBayesArtifact, int, error) {
	var spec naiveBayesArtifact
	if err := a.Decode(&spec); err != nil {
		return nil, 0, err
	}

	n := len(spec.Classes)
	if n < 2 {
		return nil, 0, fmt.Errorf("naive bayes artifact needs at least two classes, got %d", n)
	}
	if len(spec.ClassLogPrior) != n || len(spec.FeatureLogProb) != n {
		return nil, 0, fmt.Errorf("naive bayes artifact has %d classes but %d priors and %d probability rows",
			n, len(spec.ClassLogPrior), len(spec.FeatureLogProb))
	}

	dim := len(spec.FeatureLogProb[0])
	for i, row := range spec.FeatureLogProb {
		if len(row) != dim {
			return nil, 0, fmt.Errorf("feature_log_prob row %d has %d features, expected %d: %w",
				i, len(row), dim, artifact.ErrDimensionMismatch)
		}
	}
	if dim == 0 {
		return nil, 0, fmt.Errorf("naive bayes artifact has no features")
	}
	return &spec, dim, nil
}

// NewMultinomialNB builds a multinomial naive Bayes model from an artifact
func NewMultinomialNB(a *artifact.Artifact) (*MultinomialNB, error) {
	spec, dim, err := decodeNaiveBayes(a)
	if err != nil {
		return nil, err
	}
	return &MultinomialNB{
		classes:        spec.Classes,
		classLogPrior:  spec.ClassLogPrior,
		featureLogProb: spec.FeatureLogProb,
		dim:            dim,
	}, nil
}

// Dim returns the number of features the model expects
func (m *MultinomialNB) Dim() int {
	return m.dim
}

// Predict returns the class with the highest joint log likelihood
func (m *MultinomialNB) Predict(fv core.FeatureVector) (int, error) {
	if err := checkDim(fv, m.dim); err != nil {
		return 0, err
	}
	scores := make([]float64, len(m.classes))
	for c := range m.classes {
		scores[c] = m.classLogPrior[c] + fv.Dot(m.featureLogProb[c])
	}
	return m.classes[argmax(scores)], nil
}

// NewBernoulliNB builds a Bernoulli naive Bayes model from an artifact. A
// missing binarize key means the scikit-learn default of 0.0; an explicit
// null means inputs are already binary.
func NewBernoulliNB(a *artifact.Artifact) (*BernoulliNB, error) {
	spec, dim, err := decodeNaiveBayes(a)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := a.Decode(&raw); err != nil {
		return nil, err
	}
	binarize := spec.Binarize
	if _, present := raw["binarize"]; !present {
		zero := 0.0
		binarize = &zero
	}

	m := &BernoulliNB{
		classes:   spec.Classes,
		binarize:  binarize,
		dim:       dim,
		weights:   make([][]float64, len(spec.Classes)),
		intercept: make([]float64, len(spec.Classes)),
	}
	for c, row := range spec.FeatureLogProb {
		w := make([]float64, dim)
		var negSum float64
		for j, lp := range row {
			neg := math.Log(1 - math.Exp(lp))
			w[j] = lp - neg
			negSum += neg
		}
		m.weights[c] = w
		m.intercept[c] = spec.ClassLogPrior[c] + negSum
	}
	return m, nil
}

// Dim returns the number of features the model expects
func (m *BernoulliNB) Dim() int {
	return m.dim
}

// Predict returns the class with the highest joint log likelihood
func (m *BernoulliNB) Predict(fv core.FeatureVector) (int, error) {
	if err := checkDim(fv, m.dim); err != nil {
		return 0, err
	}

	x := fv
	if m.binarize != nil {
		x = core.FeatureVector{Dim: fv.Dim}
		for k, idx := range fv.Indices {
			if fv.Values[k] > *m.binarize {
				x.Indices = append(x.Indices, idx)
				x.Values = append(x.Values, 1)
			}
		}
	}

	scores := make([]float64, len(m.classes))
	for c := range m.classes {
		scores[c] = m.intercept[c] + x.Dot(m.weights[c])
	}
	return m.classes[argmax(scores)], nil
}

// argmax returns the first index holding the maximum value
func argmax(values []float64) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}

func checkDim(fv core.FeatureVector, dim int) error {
	if fv.Dim != dim {
		return fmt.Errorf("vector has %d features, model expects %d: %w",
			fv.Dim, dim, artifact.ErrDimensionMismatch)
	}
	return nil
}
