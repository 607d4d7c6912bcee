package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/spam-classifier/internal/adapters/vectorizer"
	"github.com/mikey/spam-classifier/internal/core"
	"github.com/mikey/spam-classifier/internal/text"
	"go.uber.org/zap"
)

// invoker is the subset of the Bedrock runtime client used here
type invoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// EmbeddingClient is an implementation of the Vectorizer interface using
// Amazon Bedrock embedding models
type EmbeddingClient struct {
	client        invoker
	modelID       string
	dimension     int
	maxInputSize  int
	logger        *zap.Logger
	textProcessor *text.TextProcessor
}

// NewEmbeddingClient creates a new Bedrock embedding client
func NewEmbeddingClient(
	client invoker,
	modelID string,
	dimension int,
	maxInputSize int,
	logger *zap.Logger,
	textProcessor *text.TextProcessor,
) *EmbeddingClient {
	return &EmbeddingClient{
		client:        client,
		modelID:       modelID,
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

	var payload []byte
	var err error

	if c.isCohereModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"texts":      []string{input},
			"input_type": "classification",
		})
	} else {
		// Amazon Titan and compatible models
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": input,
		})
	}
	if err != nil {
		return core.FeatureVector{}, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return core.FeatureVector{}, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	var values []float32
	if c.isCohereModel() {
		var cohereResp struct {
			Embeddings [][]float32 `json:"embeddings"`
		}
		if err := json.Unmarshal(resp.Body, &cohereResp); err != nil {
			return core.FeatureVector{}, fmt.Errorf("failed to unmarshal Cohere response: %w", err)
		}
		if len(cohereResp.Embeddings) == 0 {
			return core.FeatureVector{}, fmt.Errorf("empty response from Cohere model")
		}
		values = cohereResp.Embeddings[0]
	} else {
		var titanResp struct {
			Embedding           []float32 `json:"embedding"`
			InputTextTokenCount int       `json:"inputTextTokenCount"`
		}
		if err := json.Unmarshal(resp.Body, &titanResp); err != nil {
			return core.FeatureVector{}, fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		values = titanResp.Embedding
	}

	c.logger.Debug("Embedding created",
		zap.String("model", c.modelID),
		zap.Int("dimension", len(values)))

	return vectorizer.FromEmbedding(values, c.dimension)
}

// isCohereModel checks if the model is a Cohere embedding model
func (c *EmbeddingClient) isCohereModel() bool {
	return strings.HasPrefix(c.modelID, "cohere.")
}
