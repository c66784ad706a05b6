package embedding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultOllamaURL   = "http://localhost:11434"
	DefaultOllamaModel = "all-minilm"
)

// Ollama calls the Ollama /api/embeddings endpoint.
type Ollama struct {
	client     *resty.Client
	model      string
	dimensions int
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaResponse struct {
	Embedding []float64 `json:"embedding"`
	Error     string    `json:"error"`
}

// NewOllama creates an Ollama model client.
func NewOllama(baseURL, model string, dimensions int, timeout time.Duration) *Ollama {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if timeout <= 0 {
		timeout = time.Minute
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	return &Ollama{client: c, model: model, dimensions: dimensions}
}

// Dimensions returns the configured vector length.
func (o *Ollama) Dimensions() int { return o.dimensions }

// Embed generates a dense vector for text.
func (o *Ollama) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(&ollamaRequest{Model: o.model, Prompt: text}).
		Post("/api/embeddings")
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	var out ollamaResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil && resp.StatusCode() == http.StatusOK {
		return nil, fmt.Errorf("ollama decode response: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		if out.Error != "" {
			return nil, fmt.Errorf("ollama status %d: %s", resp.StatusCode(), out.Error)
		}
		return nil, fmt.Errorf("ollama status %d: %s", resp.StatusCode(), resp.String())
	}
	if len(out.Embedding) == 0 {
		return nil, fmt.Errorf("ollama: empty embedding for model %s", o.model)
	}
	return checkLength("ollama", toFloat32(out.Embedding), o.dimensions)
}
