package vectorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"unicode"

	"github.com/mikey/spam-classifier/internal/artifact"
	"github.com/mikey/spam-classifier/internal/core"
	"go.uber.org/zap"
)

// tfidfArtifact mirrors the attributes of a fitted scikit-learn
// TfidfVectorizer exported to JSON
type tfidfArtifact struct {
	Type        string         `json:"type"`
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	Lowercase   *bool          `json:"lowercase"`
	NgramRange  []int          `json:"ngram_range"`
	SublinearTF bool           `json:"sublinear_tf"`

	// Norm is "l2", "l1" or null; a missing key means "l2"
	Norm json.RawMessage `json:"norm"`
}

// TfidfVectorizer reproduces scikit-learn's TfidfVectorizer.transform for
// the default word analyzer
type TfidfVectorizer struct {
	vocabulary  map[string]int
	idf         []float64
	dim         int
	lowercase   bool
	minN, maxN  int
	sublinearTF bool
	norm        string
	logger      *zap.Logger
}

// NewTfidfVectorizer builds a vectorizer from a loaded artifact
func NewTfidfVectorizer(a *artifact.Artifact, logger *zap.Logger) (*TfidfVectorizer, error) {
	if a.Type != artifact.TypeTfidf {
		return nil, fmt.Errorf("vectorizer artifact type %q: %w", a.Type, artifact.ErrUnsupportedType)
	}

	var spec tfidfArtifact
	if err := a.Decode(&spec); err != nil {
		return nil, err
	}
	return newTfidf(spec, logger)
}

func newTfidf(spec tfidfArtifact, logger *zap.Logger) (*TfidfVectorizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(spec.Vocabulary) == 0 {
		return nil, fmt.Errorf("tfidf artifact has an empty vocabulary")
	}

	dim := 0
	for term, idx := range spec.Vocabulary {
		if idx < 0 {
			return nil, fmt.Errorf("tfidf term %q has negative index %d", term, idx)
		}
		if idx+1 > dim {
			dim = idx + 1
		}
	}
	if len(spec.IDF) > 0 && len(spec.IDF) != dim {
		return nil, fmt.Errorf("tfidf idf has %d weights for %d features: %w",
			len(spec.IDF), dim, artifact.ErrDimensionMismatch)
	}

	minN, maxN := 1, 1
	if len(spec.NgramRange) == 2 {
		minN, maxN = spec.NgramRange[0], spec.NgramRange[1]
	}
	if minN < 1 || maxN < minN {
		return nil, fmt.Errorf("invalid ngram_range %v", spec.NgramRange)
	}

	norm := "l2"
	if len(spec.Norm) > 0 && string(spec.Norm) != "null" {
		if err := json.Unmarshal(spec.Norm, &norm); err != nil {
			return nil, fmt.Errorf("invalid tfidf norm: %w", err)
		}
	} else if len(spec.Norm) > 0 {
		norm = ""
	}
	switch norm {
	case "l1", "l2", "":
	default:
		return nil, fmt.Errorf("unsupported tfidf norm %q", norm)
	}

	lowercase := true
	if spec.Lowercase != nil {
		lowercase = *spec.Lowercase
	}

	return &TfidfVectorizer{
		vocabulary:  spec.Vocabulary,
		idf:         spec.IDF,
		dim:         dim,
		lowercase:   lowercase,
		minN:        minN,
		maxN:        maxN,
		sublinearTF: spec.SublinearTF,
		norm:        norm,
		logger:      logger,
	}, nil
}

// Dim returns the number of features
func (v *TfidfVectorizer) Dim() int {
	return v.dim
}

// Transform converts a normalized message into a sparse tf-idf vector
func (v *TfidfVectorizer) Transform(ctx context.Context, normalized string) (core.FeatureVector, error) {
	if err := ctx.Err(); err != nil {
		return core.FeatureVector{}, err
	}

	if v.lowercase {
		normalized = strings.ToLower(normalized)
	}

	counts := make(map[int]float64)
	for _, term := range v.ngrams(wordTokens(normalized)) {
		if idx, ok := v.vocabulary[term]; ok {
			counts[idx]++
		}
	}

	fv := core.FeatureVector{
		Dim:     v.dim,
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		fv.Indices = append(fv.Indices, idx)
	}
	sort.Ints(fv.Indices)

	for _, idx := range fv.Indices {
		tf := counts[idx]
		if v.sublinearTF {
			tf = 1 + math.Log(tf)
		}
		if len(v.idf) > 0 {
			tf *= v.idf[idx]
		}
		fv.Values = append(fv.Values, tf)
	}

	v.normalize(fv.Values)

	v.logger.Debug("Message vectorized",
		zap.Int("dimension", v.dim),
		zap.Int("nonzero", fv.NNZ()))

	return fv, nil
}

func (v *TfidfVectorizer) normalize(values []float64) {
	var total float64
	switch v.norm {
	case "l2":
		for _, x := range values {
			total += x * x
		}
		total = math.Sqrt(total)
	case "l1":
		for _, x := range values {
			total += math.Abs(x)
		}
	default:
		return
	}
	if total == 0 {
		return
	}
	for i := range values {
		values[i] /= total
	}
}

func (v *TfidfVectorizer) ngrams(tokens []string) []string {
	if v.maxN == 1 {
		return tokens
	}

	var terms []string
	if v.minN == 1 {
		terms = append(terms, tokens...)
	}
	start := v.minN
	if start == 1 {
		start = 2
	}
	for n := start; n <= v.maxN; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// wordTokens matches the (?u)\b\w\w+\b token pattern: maximal runs of
// word characters at least two runes long
func wordTokens(s string) []string {
	var tokens []string
	var b strings.Builder
	runes := 0
	flush := func() {
		if runes >= 2 {
			tokens = append(tokens, b.String())
		}
		b.Reset()
		runes = 0
	}
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Mn, r) {
			b.WriteRune(r)
			runes++
			continue
		}
		flush()
	}
	flush()
	return tokens
}
