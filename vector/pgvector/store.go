package pgvector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/viant/vecstore/vector"
)

// Index kinds accepted by New.
const (
	IndexHNSW    = "hnsw"
	IndexIVFFlat = "ivfflat"
	IndexNone    = "none"
)

const uniqueViolation = "23505"

// insertColumns is the number of bound values per row: id, content, embedding.
const insertColumns = 3

// Store is a pgvector-backed vector.Store.
type Store struct {
	db         *sql.DB
	table      string
	dimensions int
	opts       vector.Options
	index      string
}

// New creates a store for table with fixed dimensions. db must use the pgx
// driver (engine.OpenPool with driver "pgx").
func New(db *sql.DB, table string, dimensions int, opts ...vector.Option) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("pgvector: db is nil")
	}
	if err := vector.ValidateTable(table); err != nil {
		return nil, err
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: %d", vector.ErrInvalidDimensions, dimensions)
	}
	s := &Store{db: db, table: table, dimensions: dimensions, opts: vector.NewOptions(opts...)}
	s.opts.BatchSize = vector.MaxBatchRows(s.opts.BatchSize, insertColumns, vector.PostgresMaxParams)
	switch s.opts.Index {
	case vector.IndexAuto, IndexHNSW:
		s.index = IndexHNSW
	case IndexIVFFlat:
		s.index = IndexIVFFlat
	case IndexNone, vector.IndexSQL:
		s.index = IndexNone
	default:
		return nil, fmt.Errorf("pgvector: unsupported index kind %q", s.opts.Index)
	}
	return s, nil
}

func (s *Store) indexName() string { return s.table + "_embedding_idx" }

// CreateTableIfNotExists enables the extension and creates the table and its
// vector index.
func (s *Store) CreateTableIfNotExists(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
    id         TEXT PRIMARY KEY,
    content    TEXT NOT NULL,
    embedding  vector(%d) NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, s.table, s.dimensions),
	}
	switch s.index {
	case IndexHNSW:
		stmts = append(stmts, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s USING hnsw (embedding vector_cosine_ops)`, s.indexName(), s.table))
	case IndexIVFFlat:
		stmts = append(stmts, fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)`, s.indexName(), s.table))
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("pgvector: create table %s: %w", s.table, err)
		}
	}
	s.opts.Logger.Debug().Str("table", s.table).Str("index", s.index).Int("dimensions", s.dimensions).Msg("vector table ready")
	return nil
}

// AddAll inserts embeddings in one transaction, BatchSize rows per INSERT.
func (s *Store) AddAll(ctx context.Context, embeddings []vector.Embedding) ([]string, error) {
	if len(embeddings) == 0 {
		return nil, nil
	}
	if err := vector.ValidateEmbeddings(embeddings, s.dimensions); err != nil {
		return nil, err
	}
	ids := make([]string, len(embeddings))
	for i, e := range embeddings {
		ids[i] = e.ID
		if ids[i] == "" {
			ids[i] = uuid.NewString()
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	for _, batch := range vector.Batches(len(embeddings), s.opts.BatchSize) {
		rows := batch[1] - batch[0]
		query := fmt.Sprintf("INSERT INTO %s(id, content, embedding) VALUES %s", s.table, vector.Placeholders(rows, insertColumns, 0, vector.Dollar))
		args := make([]interface{}, 0, rows*insertColumns)
		for i := batch[0]; i < batch[1]; i++ {
			args = append(args, ids[i], embeddings[i].Content, pgv.NewVector(embeddings[i].Vector))
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return nil, fmt.Errorf("%w: %s", vector.ErrDuplicateID, pgErr.Detail)
			}
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	s.opts.Logger.Debug().Str("table", s.table).Int("count", len(ids)).Msg("embeddings added")
	return ids, nil
}

// Search orders rows by cosine distance to the query and keeps those whose
// score (1 + cosine) / 2 reaches MinScore.
func (s *Store) Search(ctx context.Context, request vector.SearchRequest) ([]vector.Match, error) {
	if err := request.Validate(s.dimensions); err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`SELECT id, content, embedding, 1 - (embedding <=> $1::vector) AS similarity
FROM %s
WHERE (2 - (embedding <=> $1::vector)) / 2 >= $2
ORDER BY embedding <=> $1::vector, id
LIMIT $3`, s.table)
	rows, err := s.db.QueryContext(ctx, query, pgv.NewVector(request.Vector), request.MinScore, request.MaxResults)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []vector.Match
	for rows.Next() {
		var m vector.Match
		var embedding pgv.Vector
		var similarity float64
		if err := rows.Scan(&m.ID, &m.Content, &embedding, &similarity); err != nil {
			return nil, err
		}
		m.Vector = embedding.Slice()
		m.Score = vector.Score(similarity)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Remove deletes the embedding with id.
func (s *Store) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("pgvector: Remove called with empty id")
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", s.table), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", vector.ErrNotFound, id)
	}
	return nil
}

// Count returns the number of rows in the table.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&n)
	return n, err
}

// Reindex rebuilds the vector index and returns the row count.
func (s *Store) Reindex(ctx context.Context) (int, error) {
	if s.index != IndexNone {
		if _, err := s.db.ExecContext(ctx, "REINDEX INDEX "+s.indexName()); err != nil {
			return 0, fmt.Errorf("pgvector: reindex %s: %w", s.indexName(), err)
		}
	}
	return s.Count(ctx)
}

var _ vector.Store = (*Store)(nil)
