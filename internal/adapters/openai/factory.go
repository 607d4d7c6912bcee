package openai

import (
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/text"
	"github.com/sashabaranov/go-openai"
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
	openaiCfg := f.cfg.GetOpenAI()

	clientCfg := openai.DefaultConfig(openaiCfg.APIKey)
	if openaiCfg.BaseURL != "" {
		clientCfg.BaseURL = openaiCfg.BaseURL
	}

	return NewEmbeddingClient(
		openai.NewClientWithConfig(clientCfg),
		openaiCfg.ModelName,
		openaiCfg.Dimension,
		f.cfg.GetVectorizer().MaxInputSize,
		f.logger,
		f.textProcessor,
	), nil
}
