package vector

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

const (
	// DefaultBatchSize is the number of rows sent per INSERT statement.
	DefaultBatchSize = 100

	// SQLiteMaxParams is SQLite's default SQLITE_MAX_VARIABLE_NUMBER.
	SQLiteMaxParams = 32766
	// PostgresMaxParams is the bind parameter limit of the PostgreSQL protocol.
	PostgresMaxParams = 65535

	// IndexSQL selects an exact scan evaluated by the database.
	IndexSQL = "sql"
	// IndexAuto lets the backend pick its preferred index.
	IndexAuto = "auto"
)

// Options configures a store.
type Options struct {
	BatchSize int
	Index     string
	Logger    zerolog.Logger
}

// Option mutates Options.
type Option func(*Options)

// WithBatchSize sets the number of rows per INSERT statement.
func WithBatchSize(n int) Option {
	return func(o *Options) { o.BatchSize = n }
}

// WithIndex selects the index kind; accepted values depend on the backend.
func WithIndex(kind string) Option {
	return func(o *Options) { o.Index = strings.ToLower(strings.TrimSpace(kind)) }
}

// WithLogger sets the store logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// NewOptions applies opts over the defaults.
func NewOptions(opts ...Option) Options {
	o := Options{BatchSize: DefaultBatchSize, Index: IndexAuto, Logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.Index == "" {
		o.Index = IndexAuto
	}
	return o
}

// MaxBatchRows caps size so a multi-row INSERT of cols columns binds at most
// maxParams parameters.
func MaxBatchRows(size, cols, maxParams int) int {
	if size <= 0 {
		size = DefaultBatchSize
	}
	if limit := maxParams / cols; size > limit {
		return limit
	}
	return size
}

// Placeholder renders the bind marker for the 1-based parameter position.
type Placeholder func(position int) string

// QuestionMark renders SQLite style markers.
func QuestionMark(int) string { return "?" }

// Dollar renders PostgreSQL style markers.
func Dollar(position int) string { return "$" + strconv.Itoa(position) }

// Placeholders renders "(p,p,p),(p,p,p)" for a multi-row VALUES clause,
// numbering positions from offset+1.
func Placeholders(rows, cols, offset int, ph Placeholder) string {
	var b strings.Builder
	pos := offset
	for r := 0; r < rows; r++ {
		if r > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('(')
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteByte(',')
			}
			pos++
			b.WriteString(ph(pos))
		}
		b.WriteByte(')')
	}
	return b.String()
}

// Batches splits n items into [start, end) ranges of at most size.
func Batches(n, size int) [][2]int {
	if size <= 0 {
		size = DefaultBatchSize
	}
	var out [][2]int
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}
