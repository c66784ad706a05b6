package embedding

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Cached memoizes a Model in memory. Vectors are copied on the way in and
// out so callers cannot mutate cached state.
type Cached struct {
	model      Model
	maxEntries int

	mu    sync.RWMutex
	store map[uint64][]float32
}

// NewCached wraps model; maxEntries <= 0 means unbounded. When full the
// cache is reset.
func NewCached(model Model, maxEntries int) *Cached {
	return &Cached{model: model, maxEntries: maxEntries, store: make(map[uint64][]float32)}
}

// Dimensions returns the wrapped model dimensions.
func (c *Cached) Dimensions() int { return c.model.Dimensions() }

// Len returns the number of cached vectors.
func (c *Cached) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Embed returns the cached vector for text, embedding it on a miss.
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	key := xxhash.Sum64String(text)
	c.mu.RLock()
	v, ok := c.store[key]
	c.mu.RUnlock()
	if ok {
		return append([]float32(nil), v...), nil
	}

	v, err := c.model.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	if c.maxEntries > 0 && len(c.store) >= c.maxEntries {
		c.store = make(map[uint64][]float32)
	}
	c.store[key] = append([]float32(nil), v...)
	c.mu.Unlock()
	return v, nil
}
