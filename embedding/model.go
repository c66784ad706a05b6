package embedding

import (
	"context"
	"errors"
	"fmt"
)

// Model embeds text into a vector of Dimensions() components.
type Model interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}

var (
	// ErrEmptyText is returned for text without any embeddable content.
	ErrEmptyText = errors.New("embedding: empty text")
	// ErrDimensionMismatch is returned when a provider answers with a vector
	// of unexpected length.
	ErrDimensionMismatch = errors.New("embedding: dimension mismatch")
)

// EmbedAll embeds every text in order, stopping at the first failure.
func EmbedAll(ctx context.Context, model Model, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := model.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding: text %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func checkLength(provider string, v []float32, dimensions int) ([]float32, error) {
	if dimensions > 0 && len(v) != dimensions {
		return nil, fmt.Errorf("%w: %s returned %d, want %d", ErrDimensionMismatch, provider, len(v), dimensions)
	}
	return v, nil
}

func toFloat32(in []float64) []float32 {
	out := make([]float32, len(in))
	for i, v := range in {
		out[i] = float32(v)
	}
	return out
}
