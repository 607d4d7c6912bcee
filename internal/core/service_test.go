package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

type fakeNormalizer struct {
	calls int
}

func (n *fakeNormalizer) Normalize(raw string) string {
	n.calls++
	return strings.ToLower(strings.TrimSpace(raw))
}

type fakeVectorizer struct {
	calls int
	err   error
}

func (v *fakeVectorizer) Dim() int { return 2 }

func (v *fakeVectorizer) Transform(_ context.Context, normalized string) (FeatureVector, error) {
	v.calls++
	if v.err != nil {
		return FeatureVector{}, v.err
	}
	if strings.Contains(normalized, "prize") {
		return DenseVector([]float64{0, 1}), nil
	}
	return DenseVector([]float64{1, 0}), nil
}

type fakeClassifier struct {
	calls int
	err   error
	// label overrides the prediction when non-nil
	label *int
}

func (c *fakeClassifier) Dim() int { return 2 }

func (c *fakeClassifier) Predict(fv FeatureVector) (int, error) {
	c.calls++
	if c.err != nil {
		return 0, c.err
	}
	if c.label != nil {
		return *c.label, nil
	}
	if fv.NNZ() == 1 && fv.Indices[0] == 1 {
		return 1, nil
	}
	return 0, nil
}

type fakeCache struct {
	entries map[string]*CacheEntry
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*CacheEntry)}
}

func (c *fakeCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	if e, ok := c.entries[key]; ok {
		return e, nil
	}
	return nil, errors.New("not found")
}

func (c *fakeCache) Set(_ context.Context, entry *CacheEntry) error {
	c.sets++
	c.entries[entry.Key] = entry
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func (c *fakeCache) Cleanup(context.Context) error { return nil }

type fixture struct {
	norm  *fakeNormalizer
	vec   *fakeVectorizer
	clf   *fakeClassifier
	cache *fakeCache
}

func newFixture(t *testing.T, opts ServiceOptions) (*ClassifierService, *fixture) {
	fx := &fixture{
		norm:  &fakeNormalizer{},
		vec:   &fakeVectorizer{},
		clf:   &fakeClassifier{},
		cache: newFakeCache(),
	}
	svc := NewClassifierService(fx.norm, fx.vec, fx.clf, fx.cache, zaptest.NewLogger(t), opts)
	return svc, fx
}

func TestClassify_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", " ", "\n\t  \r\n"} {
		svc, fx := newFixture(t, ServiceOptions{CacheEnabled: true, ModelID: "m"})

		v, err := svc.Classify(context.Background(), raw)
		if err != nil {
			t.Fatalf("Classify(%q) error: %v", raw, err)
		}
		if !v.EmptyInput || v.State() != StateEmpty || v.IsSpam() {
			t.Errorf("Classify(%q) = %+v, want empty verdict", raw, v)
		}
		if fx.norm.calls+fx.vec.calls+fx.clf.calls != 0 || fx.cache.sets != 0 {
			t.Errorf("Classify(%q) touched a collaborator", raw)
		}
	}
}

func TestClassify_Labels(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		label *int
		want  State
	}{
		{name: "spam", raw: "You won a PRIZE", want: StateSpam},
		{name: "ham", raw: "meeting at 3", want: StateNotSpam},
		{name: "other raw label", raw: "whatever", label: intPtr(2), want: StateNotSpam},
		{name: "raw zero", raw: "prize", label: intPtr(0), want: StateNotSpam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, fx := newFixture(t, ServiceOptions{ModelID: "abc"})
			fx.clf.label = tt.label

			v, err := svc.Classify(context.Background(), tt.raw)
			if err != nil {
				t.Fatalf("Classify error: %v", err)
			}
			if v.State() != tt.want {
				t.Errorf("state = %s, want %s", v.State(), tt.want)
			}
			if v.ModelUsed != "abc" || v.ProcessingID == "" || v.AnalyzedAt.IsZero() {
				t.Errorf("verdict metadata missing: %+v", v)
			}
			if fx.norm.calls != 1 || fx.vec.calls != 1 || fx.clf.calls != 1 {
				t.Errorf("expected one call per stage, got %d/%d/%d", fx.norm.calls, fx.vec.calls, fx.clf.calls)
			}
		})
	}
}

func TestClassify_CacheHit(t *testing.T) {
	svc, fx := newFixture(t, ServiceOptions{CacheEnabled: true, CacheTTL: time.Hour, ModelID: "m1"})
	ctx := context.Background()

	first, err := svc.Classify(ctx, "Claim your prize")
	if err != nil {
		t.Fatal(err)
	}
	if first.Cached || fx.cache.sets != 1 {
		t.Fatalf("first call should populate the cache, got %+v", first)
	}

	second, err := svc.Classify(ctx, "  claim your PRIZE ")
	if err != nil {
		t.Fatal(err)
	}
	if !second.Cached || second.Label != LabelSpam {
		t.Errorf("expected cached spam verdict, got %+v", second)
	}
	if fx.vec.calls != 1 || fx.clf.calls != 1 {
		t.Errorf("cache hit should skip vectorizer and classifier, got %d/%d", fx.vec.calls, fx.clf.calls)
	}

	entry := fx.cache.entries[CacheKey("m1", "claim your prize")]
	if entry == nil || entry.ExpiresAt.Sub(entry.LastSeen) != time.Hour {
		t.Errorf("unexpected cache entry %+v", entry)
	}
}

func TestClassify_CacheDisabled(t *testing.T) {
	svc, fx := newFixture(t, ServiceOptions{ModelID: "m1"})
	for i := 0; i < 2; i++ {
		if _, err := svc.Classify(context.Background(), "hello"); err != nil {
			t.Fatal(err)
		}
	}
	if fx.cache.sets != 0 || fx.vec.calls != 2 {
		t.Errorf("disabled cache was used: sets=%d vectorizer calls=%d", fx.cache.sets, fx.vec.calls)
	}
}

func TestClassify_Errors(t *testing.T) {
	boom := errors.New("boom")

	svc, fx := newFixture(t, ServiceOptions{})
	fx.vec.err = boom
	if _, err := svc.Classify(context.Background(), "hello"); !errors.Is(err, boom) || !strings.Contains(err.Error(), "vectorize") {
		t.Errorf("expected wrapped vectorizer error, got %v", err)
	}

	svc, fx = newFixture(t, ServiceOptions{})
	fx.clf.err = boom
	if _, err := svc.Classify(context.Background(), "hello"); !errors.Is(err, boom) || !strings.Contains(err.Error(), "classify") {
		t.Errorf("expected wrapped classifier error, got %v", err)
	}
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("m1", "free prize")
	if len(a) != 64 {
		t.Errorf("key length = %d, want 64", len(a))
	}
	if a != CacheKey("m1", "free prize") {
		t.Error("CacheKey is not deterministic")
	}
	if a == CacheKey("m2", "free prize") {
		t.Error("CacheKey must depend on the model")
	}
	if CacheKey("m1a", "b") == CacheKey("m1", "ab") {
		t.Error("CacheKey must separate model and message")
	}
}

func TestDenseVector(t *testing.T) {
	fv := DenseVector([]float64{0, 2, 0, 3})
	if fv.Dim != 4 || fv.NNZ() != 2 || fv.Indices[0] != 1 || fv.Indices[1] != 3 {
		t.Errorf("unexpected vector %+v", fv)
	}
	if got := fv.Dot([]float64{1, 1, 1, 2}); got != 8 {
		t.Errorf("Dot = %v, want 8", got)
	}
}

func TestLabelFromRaw(t *testing.T) {
	if LabelFromRaw(1) != LabelSpam || LabelFromRaw(0) != LabelNotSpam || LabelFromRaw(-1) != LabelNotSpam {
		t.Error("unexpected label mapping")
	}
}

func intPtr(v int) *int { return &v }
