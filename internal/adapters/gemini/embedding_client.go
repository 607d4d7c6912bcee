package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/spam-classifier/internal/adapters/vectorizer"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/text"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// contentEmbedder is the subset of genai.EmbeddingModel used here
type contentEmbedder interface {
	EmbedContent(ctx context.Context, parts ...genai.Part) (*genai.EmbedContentResponse, error)
}

// EmbeddingClient is an implementation of the Vectorizer interface using
// Google Gemini embeddings
type EmbeddingClient struct {
	client        *genai.Client
	model         contentEmbedder
	modelName     string
	dimension     int
	maxInputSize  int
	logger        *zap.Logger
	textProcessor *text.TextProcessor
}

// NewEmbeddingClient creates a new Gemini embedding client
func NewEmbeddingClient(
	apiKey string,
	modelName string,
	dimension int,
	maxInputSize int,
	logger *zap.Logger,
	textProcessor *text.TextProcessor,
) (*EmbeddingClient, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.EmbeddingModel(modelName)
	model.TaskType = genai.TaskTypeClassification

	c := newEmbeddingClient(model, modelName, dimension, maxInputSize, logger, textProcessor)
	c.client = client
	return c, nil
}

func newEmbeddingClient(
	model contentEmbedder,
	modelName string,
	dimension int,
	maxInputSize int,
	logger *zap.Logger,
	textProcessor *text.TextProcessor,
) *EmbeddingClient {
	return &EmbeddingClient{
		model:         model,
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

	resp, err := c.model.EmbedContent(ctx, genai.Text(input))
	if err != nil {
		return core.FeatureVector{}, fmt.Errorf("failed to embed content with Gemini: %w", err)
	}

	if resp == nil || resp.Embedding == nil {
		return core.FeatureVector{}, fmt.Errorf("empty response from Gemini")
	}

	c.logger.Debug("Embedding created", zap.String("model", c.modelName))

	return vectorizer.FromEmbedding(resp.Embedding.Values, c.dimension)
}

// Close closes the Gemini client
func (c *EmbeddingClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
