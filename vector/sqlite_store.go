package vector

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/viant/vecstore/engine"
	"github.com/viant/vecstore/index"
)

// insertColumns is the number of bound values per row: id, content, embedding.
const insertColumns = 3

// SQLiteStore stores embeddings as float32 BLOBs in a SQLite table. Search
// either scans with the vec_score SQL function or queries an in-memory kNN
// index persisted in vector_storage.
type SQLiteStore struct {
	db         *sql.DB
	table      string
	dimensions int
	opts       Options
	kind       index.Kind // empty for IndexSQL

	mu            sync.Mutex
	cached        index.Index
	cachedVersion string
}

// NewSQLiteStore creates a store for table with fixed dimensions. The handle
// should come from engine.Open so the vector functions are registered.
func NewSQLiteStore(db *sql.DB, table string, dimensions int, opts ...Option) (*SQLiteStore, error) {
	if db == nil {
		return nil, fmt.Errorf("vector: db is nil")
	}
	if err := ValidateTable(table); err != nil {
		return nil, err
	}
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDimensions, dimensions)
	}
	if err := engine.RegisterVectorFunctions(); err != nil {
		return nil, err
	}
	s := &SQLiteStore{db: db, table: table, dimensions: dimensions, opts: NewOptions(opts...)}
	s.opts.BatchSize = MaxBatchRows(s.opts.BatchSize, insertColumns, SQLiteMaxParams)
	if s.opts.Index != IndexSQL {
		kind, err := index.ParseKind(s.opts.Index)
		if err != nil {
			return nil, err
		}
		s.kind = kind
	}
	return s, nil
}

// Table returns the backing table name.
func (s *SQLiteStore) Table() string { return s.table }

// Dimensions returns the vector length enforced by the store.
func (s *SQLiteStore) Dimensions() int { return s.dimensions }

// CreateTableIfNotExists creates the table, vector_storage and the
// invalidation triggers.
func (s *SQLiteStore) CreateTableIfNotExists(ctx context.Context) error {
	stmts := append([]string{sqliteTableSchema(s.table, s.dimensions), storageSchema}, sqliteTriggers(s.table)...)
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("vector: create table %s: %w", s.table, err)
		}
	}
	s.opts.Logger.Debug().Str("table", s.table).Int("dimensions", s.dimensions).Msg("vector table ready")
	return nil
}

// AddAll inserts embeddings in one transaction using multi-row INSERTs of
// BatchSize rows. Empty ids are replaced with UUIDs.
func (s *SQLiteStore) AddAll(ctx context.Context, embeddings []Embedding) ([]string, error) {
	if len(embeddings) == 0 {
		return nil, nil
	}
	if err := ValidateEmbeddings(embeddings, s.dimensions); err != nil {
		return nil, err
	}
	ids := assignIDs(embeddings)
	blobs := make([][]byte, len(embeddings))
	for i, e := range embeddings {
		blob, err := EncodeEmbedding(e.Vector)
		if err != nil {
			return nil, fmt.Errorf("embedding %d: %w", i, err)
		}
		blobs[i] = blob
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	stmts := map[int]*sql.Stmt{}
	defer func() {
		for _, stmt := range stmts {
			_ = stmt.Close()
		}
	}()
	for _, batch := range Batches(len(embeddings), s.opts.BatchSize) {
		rows := batch[1] - batch[0]
		stmt, ok := stmts[rows]
		if !ok {
			query := fmt.Sprintf("INSERT INTO %s(id, content, embedding) VALUES %s", s.table, Placeholders(rows, insertColumns, 0, QuestionMark))
			if stmt, err = tx.PrepareContext(ctx, query); err != nil {
				return nil, err
			}
			stmts[rows] = stmt
		}
		args := make([]interface{}, 0, rows*insertColumns)
		for i := batch[0]; i < batch[1]; i++ {
			args = append(args, ids[i], embeddings[i].Content, blobs[i])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			if strings.Contains(err.Error(), "UNIQUE constraint failed") {
				return nil, fmt.Errorf("%w: %v", ErrDuplicateID, err)
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

// Search returns the best matches for request.Vector.
func (s *SQLiteStore) Search(ctx context.Context, request SearchRequest) ([]Match, error) {
	if err := request.Validate(s.dimensions); err != nil {
		return nil, err
	}
	if s.kind == "" {
		return s.searchSQL(ctx, request)
	}
	return s.searchIndex(ctx, request)
}

func (s *SQLiteStore) searchSQL(ctx context.Context, request SearchRequest) ([]Match, error) {
	query, err := EncodeEmbedding(request.Vector)
	if err != nil {
		return nil, err
	}
	stmt := fmt.Sprintf(`SELECT id, content, embedding, vec_score(embedding, ?) AS score
FROM %s
WHERE vec_score(embedding, ?) >= ?
ORDER BY score DESC, id ASC
LIMIT ?`, s.table)
	rows, err := s.db.QueryContext(ctx, stmt, query, query, request.MinScore, request.MaxResults)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Match
	for rows.Next() {
		var m Match
		var blob []byte
		if err := rows.Scan(&m.ID, &m.Content, &blob, &m.Score); err != nil {
			return nil, err
		}
		if m.Vector, err = DecodeEmbedding(blob); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) searchIndex(ctx context.Context, request SearchRequest) ([]Match, error) {
	s.mu.Lock()
	idx, err := s.ensureIndex(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	ids, _, err := idx.Query(request.Vector, request.MaxResults)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return nil, nil
	}
	byID, err := s.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	// Index scores come from float32 unit vectors; rescore in float64 so the
	// MinScore cut agrees with the vec_score SQL path.
	out := make([]Match, 0, len(ids))
	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			continue
		}
		cos, err := CosineSimilarity(request.Vector, e.Vector)
		if err != nil {
			return nil, err
		}
		if score := Score(cos); score >= request.MinScore {
			out = append(out, Match{Embedding: e, Score: score})
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Score != out[b].Score {
			return out[a].Score > out[b].Score
		}
		return out[a].ID < out[b].ID
	})
	return out, nil
}

func (s *SQLiteStore) load(ctx context.Context, ids []string) (map[string]Embedding, error) {
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := fmt.Sprintf("SELECT id, content, embedding FROM %s WHERE id IN %s", s.table, Placeholders(1, len(ids), 0, QuestionMark))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]Embedding, len(ids))
	for rows.Next() {
		var e Embedding
		var blob []byte
		if err := rows.Scan(&e.ID, &e.Content, &blob); err != nil {
			return nil, err
		}
		if e.Vector, err = DecodeEmbedding(blob); err != nil {
			return nil, err
		}
		out[e.ID] = e
	}
	return out, rows.Err()
}

// ensureIndex returns the cached index while the persisted version matches,
// otherwise it decodes the persisted blob or rebuilds. Caller holds s.mu.
func (s *SQLiteStore) ensureIndex(ctx context.Context) (index.Index, error) {
	var kind, version string
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT kind, version, "index" FROM vector_storage WHERE table_name = ?`, s.table).Scan(&kind, &version, &blob)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		idx, _, err := s.rebuild(ctx)
		return idx, err
	case err != nil:
		return nil, err
	}
	if s.kind != index.KindAuto && index.Kind(kind) != s.kind {
		idx, _, err := s.rebuild(ctx)
		return idx, err
	}
	if s.cached != nil && version == s.cachedVersion {
		return s.cached, nil
	}
	idx, err := index.Decode(blob)
	if err != nil {
		s.opts.Logger.Warn().Err(err).Str("table", s.table).Msg("persisted index unreadable, rebuilding")
		idx, _, err = s.rebuild(ctx)
		return idx, err
	}
	s.cached, s.cachedVersion = idx, version
	return idx, nil
}

// rebuild loads every row, builds the configured index and persists it.
// Caller holds s.mu.
func (s *SQLiteStore) rebuild(ctx context.Context) (index.Index, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, fmt.Sprintf("SELECT id, embedding FROM %s ORDER BY id", s.table))
	if err != nil {
		return nil, 0, err
	}
	var ids []string
	var vecs [][]float32
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			rows.Close()
			return nil, 0, err
		}
		v, err := DecodeEmbedding(blob)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		ids = append(ids, id)
		vecs = append(vecs, v)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, err
	}
	rows.Close()

	idx, kind, err := index.Build(s.kind, ids, vecs)
	if err != nil {
		return nil, 0, err
	}
	data, err := idx.MarshalBinary()
	if err != nil {
		return nil, 0, err
	}
	version := uuid.NewString()
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO vector_storage(table_name, kind, version, "index") VALUES(?, ?, ?, ?)`, s.table, string(kind), version, data); err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(); err != nil {
		return nil, 0, err
	}
	s.cached, s.cachedVersion = idx, version
	s.opts.Logger.Debug().Str("table", s.table).Str("kind", string(kind)).Int("count", len(ids)).Msg("vector index rebuilt")
	return idx, len(ids), nil
}

// Reindex rebuilds and persists the kNN index and returns the number of
// indexed embeddings. It is a no-op for IndexSQL.
func (s *SQLiteStore) Reindex(ctx context.Context) (int, error) {
	if s.kind == "" {
		return s.Count(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, n, err := s.rebuild(ctx)
	return n, err
}

// Remove deletes the embedding with id.
func (s *SQLiteStore) Remove(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("vector: Remove called with empty id")
	}
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = ?", s.table), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

// Count returns the number of rows in the table.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.table)).Scan(&n)
	return n, err
}

func assignIDs(embeddings []Embedding) []string {
	ids := make([]string, len(embeddings))
	for i, e := range embeddings {
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		ids[i] = e.ID
	}
	return ids
}

var _ Store = (*SQLiteStore)(nil)
