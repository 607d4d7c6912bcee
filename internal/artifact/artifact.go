package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Artifact types understood by the loaders
const (
	TypeTfidf         = "tfidf"
	TypeMultinomialNB = "multinomial_nb"
	TypeBernoulliNB   = "bernoulli_nb"
	TypeLinear        = "linear"
)

var (
	// ErrUnsupportedType is returned when an artifact declares a type no loader handles
	ErrUnsupportedType = errors.New("unsupported artifact type")

	// ErrDimensionMismatch is returned when vectorizer and classifier disagree on feature count
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
)

// Artifact is a trained model file exported from the training environment
type Artifact struct {
	Path        string
	Type        string
	Fingerprint string
	raw         []byte
}

type header struct {
	Type string `json:"type"`
}

// Load reads an artifact file and decodes its type header
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse decodes an artifact already held in memory. path is only used in
// error messages.
func Parse(path string, data []byte) (*Artifact, error) {
	var h header
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	if h.Type == "" {
		return nil, fmt.Errorf("artifact %s has no type: %w", path, ErrUnsupportedType)
	}

	sum := sha256.Sum256(data)
	return &Artifact{
		Path:        path,
		Type:        h.Type,
		Fingerprint: hex.EncodeToString(sum[:]),
		raw:         data,
	}, nil
}

// Decode unmarshals the artifact body into v
func (a *Artifact) Decode(v any) error {
	if err := json.Unmarshal(a.raw, v); err != nil {
		return fmt.Errorf("failed to decode %s artifact %s: %w", a.Type, a.Path, err)
	}
	return nil
}

// ModelID combines artifact fingerprints into a short identifier that
// changes whenever any of them does
func ModelID(fingerprints ...string) string {
	h := sha256.New()
	for _, fp := range fingerprints {
		h.Write([]byte(fp))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// CheckDimensions fails when the vectorizer output size differs from the
// classifier input size
func CheckDimensions(vectorizerDim, classifierDim int) error {
	if vectorizerDim != classifierDim {
		return fmt.Errorf("vectorizer produces %d features, classifier expects %d: %w",
			vectorizerDim, classifierDim, ErrDimensionMismatch)
	}
	return nil
}
