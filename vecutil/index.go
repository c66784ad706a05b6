package vecutil

import (
	"context"
	"fmt"
	"io"

	"github.com/viant/vecstore/embedding"
	"github.com/viant/vecstore/vector"
)

// Index embeds texts with Model and keeps them in Store.
type Index struct {
	Store vector.Store
	Model embedding.Model
}

// NewIndex pairs a store with a model.
func NewIndex(store vector.Store, model embedding.Model) (*Index, error) {
	if store == nil {
		return nil, fmt.Errorf("vecutil: store is nil")
	}
	if model == nil {
		return nil, fmt.Errorf("vecutil: model is nil")
	}
	return &Index{Store: store, Model: model}, nil
}

// NewFuncIndex pairs a store with an EmbedFunc producing dimensions-long vectors.
func NewFuncIndex(store vector.Store, dimensions int, embed EmbedFunc) (*Index, error) {
	if embed == nil {
		return nil, fmt.Errorf("vecutil: EmbedFunc is nil")
	}
	return NewIndex(store, funcModel{fn: embed, dimensions: dimensions})
}

// AddTexts embeds each text and inserts all of them in one AddAll call.
func (ix *Index) AddTexts(ctx context.Context, texts []string) ([]string, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := embedding.EmbedAll(ctx, ix.Model, texts)
	if err != nil {
		return nil, err
	}
	embeddings := make([]vector.Embedding, len(texts))
	for i, text := range texts {
		embeddings[i] = vector.Embedding{Vector: vectors[i], Content: text}
	}
	return ix.Store.AddAll(ctx, embeddings)
}

// AddLines adds one embedding per non-blank line of r.
func (ix *Index) AddLines(ctx context.Context, r io.Reader) ([]string, error) {
	lines, err := ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("vecutil: read lines: %w", err)
	}
	return ix.AddTexts(ctx, lines)
}

// Search embeds request.Text when request.Vector is empty and runs the
// search.
func (ix *Index) Search(ctx context.Context, request vector.SearchRequest) ([]vector.Match, error) {
	if len(request.Vector) == 0 {
		if request.Text == "" {
			return nil, vector.ErrMissingQueryVector
		}
		v, err := ix.Model.Embed(ctx, request.Text)
		if err != nil {
			return nil, err
		}
		request.Vector = v
	}
	return ix.Store.Search(ctx, request)
}

// QueryText returns up to maxResults matches for text scoring at least minScore.
func (ix *Index) QueryText(ctx context.Context, text string, maxResults int, minScore float64) ([]vector.Match, error) {
	return ix.Search(ctx, vector.SearchRequest{Text: text, MaxResults: maxResults, MinScore: minScore})
}

// Remove deletes embeddings by id.
func (ix *Index) Remove(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if err := ix.Store.Remove(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
