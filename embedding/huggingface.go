package embedding

import (
	"context"
	"fmt"

	"github.com/hupe1980/go-huggingface"
)

// DefaultHuggingFaceModel produces 384-dimensional sentence embeddings.
const DefaultHuggingFaceModel = "sentence-transformers/all-MiniLM-L6-v2"

// HuggingFace embeds text with the Hugging Face inference API feature
// extraction task.
type HuggingFace struct {
	client     *huggingface.InferenceClient
	model      string
	dimensions int
}

// NewHuggingFace creates a client; token may be empty for public models.
func NewHuggingFace(token, model string, dimensions int) *HuggingFace {
	if model == "" {
		model = DefaultHuggingFaceModel
	}
	client := huggingface.NewInferenceClient(token)
	client.SetModel(model)
	return &HuggingFace{client: client, model: model, dimensions: dimensions}
}

// Dimensions returns the configured vector length.
func (h *HuggingFace) Dimensions() int { return h.dimensions }

// Embed creates a vector embedding for text.
func (h *HuggingFace) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	req := &huggingface.FeatureExtractionRequest{
		Inputs: []string{text},
		Options: huggingface.Options{
			WaitForModel: huggingface.PTR(true),
			UseCache:     huggingface.PTR(true),
		},
	}
	resp, err := h.client.FeatureExtractionWithAutomaticReduction(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("huggingface %s: %w", h.model, err)
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("huggingface: empty embedding response")
	}
	return checkLength("huggingface", resp[0], h.dimensions)
}
