// Package sample wires configuration, a database pool, a vector store and an
// embedding model into the country facts similarity search walkthrough.
package sample

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/viant/vecstore/config"
	"github.com/viant/vecstore/embedding"
	"github.com/viant/vecstore/engine"
	"github.com/viant/vecstore/vector"
	"github.com/viant/vecstore/vector/pgvector"
	"github.com/viant/vecstore/vecutil"
)

// CountryFacts holds one fact per line.
//
//go:embed country_facts.txt
var CountryFacts string

const (
	// SearchText is the walkthrough query.
	SearchText = "german castles"
	// ExpectedContent is the fact the walkthrough query should find.
	ExpectedContent = "Germany has over 20,000 castles."
)

// Reindexer is implemented by stores that can rebuild their vector index.
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

// Sample owns the pool, the store and the text index.
type Sample struct {
	cfg    *config.Config
	logger zerolog.Logger
	db     *sql.DB
	store  vector.Store
	index  *vecutil.Index
}

// New opens the configured pool and builds the store and model.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Sample, error) {
	db, err := engine.OpenPool(ctx, cfg.EnginePool(), logger)
	if err != nil {
		return nil, err
	}
	store, err := NewStore(db, cfg, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	model, err := embedding.New(cfg.EmbeddingModel())
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	idx, err := vecutil.NewIndex(store, model)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Sample{cfg: cfg, logger: logger, db: db, store: store, index: idx}, nil
}

// NewStore builds the store matching the pool driver.
func NewStore(db *sql.DB, cfg *config.Config, logger zerolog.Logger) (vector.Store, error) {
	opts := cfg.StoreOptions(logger)
	switch cfg.Pool.Driver {
	case engine.DriverSQLite:
		return vector.NewSQLiteStore(db, cfg.Store.Table, cfg.Store.Dimensions, opts...)
	case engine.DriverPgx:
		return pgvector.New(db, cfg.Store.Table, cfg.Store.Dimensions, opts...)
	default:
		return nil, fmt.Errorf("sample: unsupported driver %q", cfg.Pool.Driver)
	}
}

// Store returns the underlying vector store.
func (s *Sample) Store() vector.Store { return s.store }

// Init creates the vector table.
func (s *Sample) Init(ctx context.Context) error {
	if err := s.store.CreateTableIfNotExists(ctx); err != nil {
		return err
	}
	s.logger.Info().
		Str("pool", s.cfg.Pool.Name).
		Str("table", s.cfg.Store.Table).
		Int("dimensions", s.cfg.Store.Dimensions).
		Msg("Initialized Vector Store")
	return nil
}

// Populate embeds every non-blank line of r and stores it.
func (s *Sample) Populate(ctx context.Context, r io.Reader) ([]string, error) {
	started := time.Now()
	ids, err := s.index.AddLines(ctx, r)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Int("count", len(ids)).
		Dur("elapsed", time.Since(started)).
		Msg("Populated vector store embeddings")
	return ids, nil
}

// PopulateFacts loads the embedded country facts.
func (s *Sample) PopulateFacts(ctx context.Context) ([]string, error) {
	return s.Populate(ctx, strings.NewReader(CountryFacts))
}

// Search embeds text and returns up to maxResults matches scoring at least
// minScore.
func (s *Sample) Search(ctx context.Context, text string, maxResults int, minScore float64) ([]vector.Match, error) {
	matches, err := s.index.QueryText(ctx, text, maxResults, minScore)
	if err != nil {
		return nil, err
	}
	event := s.logger.Info().Str("text", text).Int("results", len(matches))
	if len(matches) > 0 {
		event = event.Str("top", matches[0].Content).Float64("score", matches[0].Score)
	}
	event.Msg("Executed similarity search")
	return matches, nil
}

// Count returns the number of stored embeddings.
func (s *Sample) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Reindex rebuilds the store index when the backend supports it.
func (s *Sample) Reindex(ctx context.Context) (int, error) {
	r, ok := s.store.(Reindexer)
	if !ok {
		return 0, fmt.Errorf("sample: store %T cannot reindex", s.store)
	}
	n, err := r.Reindex(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info().Int("count", n).Msg("Reindexed vector store")
	return n, nil
}

// Run initializes the table, loads the country facts and searches for text
// with a single result and no score floor.
func (s *Sample) Run(ctx context.Context, text string) ([]vector.Match, error) {
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	if _, err := s.PopulateFacts(ctx); err != nil {
		return nil, err
	}
	return s.Search(ctx, text, 1, 0)
}

// Close releases the pool.
func (s *Sample) Close() error {
	return s.db.Close()
}
