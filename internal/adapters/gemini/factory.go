package gemini

import (
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/text"
	"go.uber.org/zap"
)

// Factory creates new instances of EmbeddingClient
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *text.TextProcessor
}

// NewFactory creates a new factory for EmbeddingClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *text.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateVectorizer creates a new EmbeddingClient
func (f *Factory) CreateVectorizer() (*EmbeddingClient, error) {
	geminiCfg := f.cfg.GetGemini()

	return NewEmbeddingClient(
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		geminiCfg.Dimension,
		f.cfg.GetVectorizer().MaxInputSize,
		f.logger,
		f.textProcessor,
	)
}
