package sample

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/vecstore/config"
	"github.com/viant/vecstore/vecutil"
)

func newSample(t *testing.T, index string) *Sample {
	t.Helper()
	cfg := config.NewForTesting(t.TempDir())
	cfg.Store.Index = index
	require.NoError(t, cfg.ResolveDefaults())
	s, err := New(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCountryFactsFixture(t *testing.T) {
	lines, err := vecutil.ReadLines(strings.NewReader(CountryFacts))
	require.NoError(t, err)
	assert.Contains(t, lines, ExpectedContent)
	for _, line := range lines {
		if line == ExpectedContent {
			continue
		}
		lower := strings.ToLower(line)
		assert.NotContains(t, lower, "castle", line)
		assert.NotContains(t, lower, "german", line)
	}
}

func TestRunFindsGermanCastles(t *testing.T) {
	for _, index := range []string{"sql", "auto", "cover"} {
		t.Run(index, func(t *testing.T) {
			s := newSample(t, index)
			ctx := context.Background()
			matches, err := s.Run(ctx, SearchText)
			require.NoError(t, err)
			require.Len(t, matches, 1)
			assert.Equal(t, ExpectedContent, matches[0].Content)
			assert.Len(t, matches[0].Vector, 384)

			n, err := s.Count(ctx)
			require.NoError(t, err)
			lines, _ := vecutil.ReadLines(strings.NewReader(CountryFacts))
			assert.Equal(t, len(lines), n)
		})
	}
}

func TestSearchRespectsLimits(t *testing.T) {
	s := newSample(t, "brute")
	ctx := context.Background()
	require.NoError(t, s.Init(ctx))
	require.NoError(t, s.Init(ctx))
	_, err := s.PopulateFacts(ctx)
	require.NoError(t, err)

	matches, err := s.Search(ctx, "islands", 3, 0)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].Score, matches[i].Score)
	}

	matches, err = s.Search(ctx, SearchText, 10, 0.99)
	require.NoError(t, err)
	assert.Empty(t, matches)

	n, err := s.Reindex(ctx)
	require.NoError(t, err)
	assert.Greater(t, n, 0)
}
