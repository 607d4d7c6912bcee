package bedrock

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/spam-classifier/internal/config"
	"github.com/mikey/spam-classifier/internal/text"
	"go.uber.org/zap"
)

// Factory creates Bedrock embedding clients
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *text.TextProcessor
}

// NewFactory creates a new Bedrock factory
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *text.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateVectorizer creates a new Bedrock embedding client
func (f *Factory) CreateVectorizer() (*EmbeddingClient, error) {
	bedrockCfg := f.cfg.GetBedrock()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(bedrockCfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg)

	return NewEmbeddingClient(
		client,
		bedrockCfg.ModelID,
		bedrockCfg.Dimension,
		f.cfg.GetVectorizer().MaxInputSize,
		f.logger,
		f.textProcessor,
	), nil
}
