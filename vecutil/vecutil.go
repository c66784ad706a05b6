// Package vecutil layers a text-in, text-out API over vector.Store and an
// embedding.Model.
package vecutil

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// EmbedFunc converts free-form text into an embedding. It lets callers plug
// any provider without implementing embedding.Model.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// funcModel adapts an EmbedFunc to embedding.Model.
type funcModel struct {
	fn         EmbedFunc
	dimensions int
}

func (m funcModel) Embed(ctx context.Context, text string) ([]float32, error) {
	return m.fn(ctx, text)
}

func (m funcModel) Dimensions() int { return m.dimensions }

// ReadLines returns the trimmed, non-blank lines of r.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, scanner.Err()
}
