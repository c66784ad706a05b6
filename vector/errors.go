package vector

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidTable       = errors.New("vector: invalid table name")
	ErrInvalidDimensions  = errors.New("vector: dimensions must be positive")
	ErrDimensionMismatch  = errors.New("vector: dimension mismatch")
	ErrZeroVector         = errors.New("vector: zero-magnitude vector")
	ErrNonFiniteVector    = errors.New("vector: vector component is NaN or infinite")
	ErrMissingQueryVector = errors.New("vector: search request has no query vector")
	ErrInvalidMaxResults  = errors.New("vector: max results must be at least 1")
	ErrInvalidMinScore    = errors.New("vector: min score must be within [0, 1]")
	ErrDuplicateID        = errors.New("vector: duplicate embedding id")
	ErrNotFound           = errors.New("vector: embedding not found")
)

func checkVector(v []float32, dimensions int) error {
	if len(v) != dimensions {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), dimensions)
	}
	for i, x := range v {
		if f := float64(x); math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: component %d", ErrNonFiniteVector, i)
		}
	}
	if Magnitude(v) == 0 {
		return ErrZeroVector
	}
	return nil
}

// ValidateEmbeddings checks that every embedding has the expected dimensions,
// a non-zero vector and an id unique within the batch.
func ValidateEmbeddings(embeddings []Embedding, dimensions int) error {
	seen := make(map[string]struct{}, len(embeddings))
	for i, e := range embeddings {
		if err := checkVector(e.Vector, dimensions); err != nil {
			return fmt.Errorf("embedding %d: %w", i, err)
		}
		if e.ID == "" {
			continue
		}
		if _, ok := seen[e.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateID, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}
