package embedding

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "text-embedding-3-small"

// OpenAI embeds text with the OpenAI embeddings API.
type OpenAI struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

// NewOpenAI creates an OpenAI model; baseURL overrides the API endpoint for
// compatible servers. The text-embedding-3 models are asked to shorten their
// output to dimensions.
func NewOpenAI(apiKey, baseURL, model string, dimensions int) (*OpenAI, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAI{
		client:     openai.NewClientWithConfig(cfg),
		model:      openai.EmbeddingModel(model),
		dimensions: dimensions,
	}, nil
}

// Dimensions returns the configured vector length.
func (o *OpenAI) Dimensions() int { return o.dimensions }

// Embed creates a vector embedding for text.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	req := openai.EmbeddingRequest{
		Input: []string{text},
		Model: o.model,
	}
	if o.model != openai.AdaEmbeddingV2 {
		req.Dimensions = o.dimensions
	}
	resp, err := o.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai: empty embedding response")
	}
	return checkLength("openai", resp.Data[0].Embedding, o.dimensions)
}
