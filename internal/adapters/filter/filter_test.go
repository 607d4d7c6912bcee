package filter

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/text"
	"go.uber.org/zap/zaptest"
)

// keywordVectorizer sets its single feature when the message mentions "free"
type keywordVectorizer struct {
	err error
}

func (v *keywordVectorizer) Dim() int { return 1 }

func (v *keywordVectorizer) Transform(_ context.Context, normalized string) (core.FeatureVector, error) {
	if v.err != nil {
		return core.FeatureVector{}, v.err
	}
	if strings.Contains(normalized, "free") {
		return core.DenseVector([]float64{1}), nil
	}
	return core.DenseVector([]float64{0}), nil
}

type thresholdClassifier struct{}

func (thresholdClassifier) Dim() int { return 1 }

func (thresholdClassifier) Predict(fv core.FeatureVector) (int, error) {
	if fv.NNZ() > 0 {
		return 1, nil
	}
	return 0, nil
}

func newTestService(t *testing.T) *core.ClassifierService {
	return newTestServiceWithVectorizer(t, &keywordVectorizer{})
}

func newTestServiceWithVectorizer(t *testing.T, v core.Vectorizer) *core.ClassifierService {
	logger := zaptest.NewLogger(t)
	return core.NewClassifierService(
		text.NewNormalizer(nil, nil, nil, logger),
		v,
		thresholdClassifier{},
		nil,
		logger,
		core.ServiceOptions{ModelID: "test-model"},
	)
}

var errVectorizer = errors.New("vectorizer unavailable")
