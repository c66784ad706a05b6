package vector

import (
	"context"
)

// Embedding is a fixed-length vector paired with the text it was computed from.
type Embedding struct {
	// ID is the logical identifier of the row. When empty on insert, the
	// store generates one.
	ID string

	// Vector holds the embedding components; its length must equal the
	// store dimensions.
	Vector []float32

	// Content is the source text.
	Content string
}

// SearchRequest describes a similarity query.
type SearchRequest struct {
	// Text is the query text. Stores ignore it; text-level helpers embed it
	// when Vector is empty.
	Text string

	// Vector is the query embedding.
	Vector []float32

	// MaxResults caps the number of matches; it must be at least 1.
	MaxResults int

	// MinScore drops matches scoring below it; it must lie in [0, 1].
	MinScore float64
}

// Match is a single similarity search hit.
type Match struct {
	Embedding
	// Score is the relevance score in [0, 1], see Score.
	Score float64
}

// Store defines the application-level vector store API.
type Store interface {
	// CreateTableIfNotExists creates the backing table (and any index
	// structures) unless they already exist.
	CreateTableIfNotExists(ctx context.Context) error

	// AddAll inserts embeddings in a single transaction and returns their ids.
	AddAll(ctx context.Context, embeddings []Embedding) ([]string, error)

	// Search returns up to MaxResults embeddings ordered by decreasing score,
	// skipping those scoring below MinScore.
	Search(ctx context.Context, request SearchRequest) ([]Match, error)

	// Remove deletes the embedding with the given id.
	Remove(ctx context.Context, id string) error

	// Count returns the number of stored embeddings.
	Count(ctx context.Context) (int, error)
}

// Validate checks the request against the store dimensions.
func (r *SearchRequest) Validate(dimensions int) error {
	if r.MaxResults < 1 {
		return ErrInvalidMaxResults
	}
	if r.MinScore < 0 || r.MinScore > 1 {
		return ErrInvalidMinScore
	}
	if len(r.Vector) == 0 {
		return ErrMissingQueryVector
	}
	return checkVector(r.Vector, dimensions)
}
