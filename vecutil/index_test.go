package vecutil

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/vecstore/embedding"
	"github.com/viant/vecstore/engine"
	"github.com/viant/vecstore/vector"
)

func newIndex(t *testing.T) *Index {
	t.Helper()
	db, err := engine.Open(filepath.Join(t.TempDir(), "vecutil.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	store, err := vector.NewSQLiteStore(db, "notes", embedding.DefaultDimensions)
	require.NoError(t, err)
	require.NoError(t, store.CreateTableIfNotExists(context.Background()))
	ix, err := NewIndex(store, embedding.NewHashing(embedding.DefaultDimensions))
	require.NoError(t, err)
	return ix
}

func TestIndexAddLinesAndQueryText(t *testing.T) {
	ix := newIndex(t)
	ctx := context.Background()

	text := "Paris is the capital of France.\n\n  Tokyo is the capital of Japan.  \nPenguins live in Antarctica.\n"
	ids, err := ix.AddLines(ctx, strings.NewReader(text))
	require.NoError(t, err)
	assert.Len(t, ids, 3)

	matches, err := ix.QueryText(ctx, "capital of japan", 1, 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Tokyo is the capital of Japan.", matches[0].Content)

	_, err = ix.QueryText(ctx, "", 1, 0)
	assert.ErrorIs(t, err, vector.ErrMissingQueryVector)

	require.NoError(t, ix.Remove(ctx, ids[1]))
	matches, err = ix.QueryText(ctx, "capital of japan", 3, 0)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestNewFuncIndex(t *testing.T) {
	ix := newIndex(t)
	_, err := NewFuncIndex(ix.Store, 3, nil)
	assert.Error(t, err)

	calls := 0
	fix, err := NewFuncIndex(ix.Store, 3, func(ctx context.Context, text string) ([]float32, error) {
		calls++
		return []float32{1, 0, 0}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, fix.Model.Dimensions())

	// The store enforces its own dimensions.
	_, err = fix.AddTexts(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
	assert.Equal(t, 1, calls)
}

func TestReadLines(t *testing.T) {
	lines, err := ReadLines(strings.NewReader("a\n\n b \r\nc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}
