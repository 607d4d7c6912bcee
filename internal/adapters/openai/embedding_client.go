package openai

import (
	"context"
	"fmt"

	"github.com/mikey/spam-classifier/internal/adapters/vectorizer"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/text"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// embeddingsAPI is the subset of the OpenAI client used here
type embeddingsAPI interface {
	CreateEmbeddings(ctx context.Context, conv openai.EmbeddingRequestConverter) (openai.EmbeddingResponse, error)
}

// EmbeddingClient is an implementation of the Vectorizer interface using
// OpenAI embeddings
type EmbeddingClient struct {
	client        embeddingsAPI
	modelName     string
	dimension     int
	maxInputSize  int
	logger        *zap.Logger
	textProcessor *text.TextProcessor
}

// NewEmbeddingClient creates a new OpenAI embedding client
func NewEmbeddingClient(
	client embeddingsAPI,
	modelName string,
	dimension int,
	maxInputSize int,
	logger *zap.Logger,
	textProcessor *text.TextProcessor,
) *EmbeddingClient {
	return &EmbeddingClient{
		client:        client,
		modelName:     modelName,
		dimension:     dimension,
		maxInputSize:  maxInputSize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Dim returns the embedding dimension
func (c *EmbeddingClient) Dim() int {
	return c.dimension
}

// Transform embeds a normalized message
func (c *EmbeddingClient) Transform(ctx context.Context, normalized string) (core.FeatureVector, error) {
	if normalized == "" {
		return vectorizer.Zero(c.dimension), nil
	}

	input := c.textProcessor.ProcessText(normalized, c.maxInputSize)

	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{input},
		Model: openai.EmbeddingModel(c.modelName),
	})
	if err != nil {
		return core.FeatureVector{}, fmt.Errorf("failed to create embedding with OpenAI: %w", err)
	}

	if len(resp.Data) == 0 {
		return core.FeatureVector{}, fmt.Errorf("empty response from OpenAI")
	}

	c.logger.Debug("Embedding created",
		zap.String("model", c.modelName),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens))

	return vectorizer.FromEmbedding(resp.Data[0].Embedding, c.dimension)
}
