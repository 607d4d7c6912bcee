package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ServiceOptions carries the tunables of the classifier service
type ServiceOptions struct {
	CacheEnabled bool
	CacheTTL     time.Duration
	// ModelID identifies the loaded artifacts; it is reported on verdicts
	// and scopes cache keys so a retrained model never reads stale entries.
	ModelID string
}

// ClassifierService is the inference pipeline: normalize, vectorize, predict
type ClassifierService struct {
	normalizer Normalizer
	vectorizer Vectorizer
	classifier Classifier
	cache      CacheRepository
	logger     *zap.Logger
	opts       ServiceOptions
	now        func() time.Time
}

// NewClassifierService creates a new classifier service
func NewClassifierService(
	normalizer Normalizer,
	vectorizer Vectorizer,
	classifier Classifier,
	cache CacheRepository,
	logger *zap.Logger,
	opts ServiceOptions,
) *ClassifierService {
	if cache == nil {
		opts.CacheEnabled = false
	}
	return &ClassifierService{
		normalizer: normalizer,
		vectorizer: vectorizer,
		classifier: classifier,
		cache:      cache,
		logger:     logger,
		opts:       opts,
		now:        time.Now,
	}
}

// Normalize exposes the text normalizer used by the pipeline
func (s *ClassifierService) Normalize(raw string) string {
	return s.normalizer.Normalize(raw)
}

// ModelID returns the identifier of the loaded artifacts
func (s *ClassifierService) ModelID() string {
	return s.opts.ModelID
}

// Classify turns a raw message into a verdict. Blank input short-circuits
// to an empty verdict without touching any collaborator.
func (s *ClassifierService) Classify(ctx context.Context, raw string) (*Verdict, error) {
	if strings.TrimSpace(raw) == "" {
		return &Verdict{EmptyInput: true, AnalyzedAt: s.now()}, nil
	}

	normalized := s.normalizer.Normalize(raw)

	var key string
	if s.opts.CacheEnabled {
		key = CacheKey(s.opts.ModelID, normalized)
		if entry, err := s.cache.Get(ctx, key); err == nil {
			s.logger.Debug("Cache hit for message", zap.String("key", key))
			return &Verdict{
				Label:        entry.Label,
				RawLabel:     entry.RawLabel,
				Normalized:   normalized,
				Cached:       true,
				ModelUsed:    s.opts.ModelID,
				AnalyzedAt:   s.now(),
				ProcessingID: uuid.NewString(),
			}, nil
		}
	}

	fv, err := s.vectorizer.Transform(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize message: %w", err)
	}

	rawLabel, err := s.classifier.Predict(fv)
	if err != nil {
		return nil, fmt.Errorf("failed to classify message: %w", err)
	}

	verdict := &Verdict{
		Label:        LabelFromRaw(rawLabel),
		RawLabel:     rawLabel,
		Normalized:   normalized,
		ModelUsed:    s.opts.ModelID,
		AnalyzedAt:   s.now(),
		ProcessingID: uuid.NewString(),
	}

	s.logger.Debug("Classified message",
		zap.String("processing_id", verdict.ProcessingID),
		zap.String("label", string(verdict.Label)),
		zap.Int("features", fv.NNZ()))

	if s.opts.CacheEnabled {
		entry := &CacheEntry{
			Key:       key,
			Label:     verdict.Label,
			RawLabel:  rawLabel,
			LastSeen:  verdict.AnalyzedAt,
			ExpiresAt: verdict.AnalyzedAt.Add(s.opts.CacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return verdict, nil
}

// CacheKey derives the cache key for a normalized message under a model
func CacheKey(modelID, normalized string) string {
	h := sha256.New()
	h.Write([]byte(modelID))
	h.Write([]byte{0})
	h.Write([]byte(normalized))
	return hex.EncodeToString(h.Sum(nil))
}
