package factory

import (
	"fmt"

	"github.com/mikey/spam-classifier/internal/adapters/bedrock"
	"github.com/mikey/spam-classifier/internal/adapters/classifier"
	"github.com/mikey/spam-classifier/internal/adapters/gemini"
	"github.com/mikey/spam-classifier/internal/adapters/openai"
	"github.com/mikey/spam-classifier/internal/adapters/vectorizer"
	"github.com/mikey/spam-classifier/internal/artifact"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/text"
	"go.uber.org/zap"
)

// Models bundles the loaded vectorizer and classifier
type Models struct {
	Vectorizer core.Vectorizer
	Classifier core.Classifier
	// ID fingerprints both models together
	ID string
}

// ModelFactory loads the vectorizer and classifier at startup
type ModelFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *text.TextProcessor
}

// NewModelFactory creates a new model factory
func NewModelFactory(cfg *config.Config, logger *zap.Logger, textProcessor *text.TextProcessor) *ModelFactory {
	return &ModelFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateModels loads both models and checks that their dimensions agree
func (f *ModelFactory) CreateModels() (*Models, error) {
	v, vectorizerFP, err := f.CreateVectorizer()
	if err != nil {
		return nil, err
	}

	clfPath := f.cfg.GetClassifier().Artifact
	clfArtifact, err := artifact.Load(clfPath)
	if err != nil {
		return nil, err
	}
	clf, err := classifier.Load(clfArtifact)
	if err != nil {
		return nil, err
	}

	if err := artifact.CheckDimensions(v.Dim(), clf.Dim()); err != nil {
		return nil, err
	}

	id := artifact.ModelID(vectorizerFP, clfArtifact.Fingerprint)
	f.logger.Info("Loaded models",
		zap.String("model_id", id),
		zap.String("vectorizer", f.cfg.GetVectorizer().Provider),
		zap.String("classifier", clfArtifact.Type),
		zap.Int("features", v.Dim()))

	return &Models{Vectorizer: v, Classifier: clf, ID: id}, nil
}

// CreateVectorizer creates the configured vectorizer along with a
// fingerprint identifying it
func (f *ModelFactory) CreateVectorizer() (core.Vectorizer, string, error) {
	provider := f.cfg.GetVectorizer().Provider

	switch provider {
	case "", "tfidf":
		a, err := artifact.Load(f.cfg.GetVectorizer().Artifact)
		if err != nil {
			return nil, "", err
		}
		v, err := vectorizer.NewTfidfVectorizer(a, f.logger)
		if err != nil {
			return nil, "", err
		}
		return v, a.Fingerprint, nil
	case "openai":
		v, err := openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateVectorizer()
		if err != nil {
			return nil, "", err
		}
		openaiCfg := f.cfg.GetOpenAI()
		return v, embeddingFingerprint(provider, openaiCfg.ModelName, openaiCfg.Dimension), nil
	case "gemini":
		v, err := gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateVectorizer()
		if err != nil {
			return nil, "", err
		}
		geminiCfg := f.cfg.GetGemini()
		return v, embeddingFingerprint(provider, geminiCfg.ModelName, geminiCfg.Dimension), nil
	case "bedrock":
		v, err := bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateVectorizer()
		if err != nil {
			return nil, "", err
		}
		bedrockCfg := f.cfg.GetBedrock()
		return v, embeddingFingerprint(provider, bedrockCfg.ModelID, bedrockCfg.Dimension), nil
	default:
		return nil, "", fmt.Errorf("unsupported vectorizer provider: %s", provider)
	}
}

func embeddingFingerprint(provider, model string, dim int) string {
	return fmt.Sprintf("%s:%s:%d", provider, model, dim)
}
