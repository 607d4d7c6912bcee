package classifier

import (
	"fmt"

	"github.com/mikey/spam-classifier/internal/artifact"
	"github.com/mikey/spam-classifier/internal/core"
)

// Load builds the classifier matching the artifact type
func Load(a *artifact.Artifact) (core.Classifier, error) {
	switch a.Type {
	case artifact.TypeMultinomialNB:
		return NewMultinomialNB(a)
	case artifact.TypeBernoulliNB:
		return NewBernoulliNB(a)
	case artifact.TypeLinear:
		return NewLinear(a)
	default:
		return nil, fmt.Errorf("classifier artifact type %q: %w", a.Type, artifact.ErrUnsupportedType)
	}
}
