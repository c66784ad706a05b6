package embedding

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

// DefaultDimensions matches all-MiniLM-L6-v2 style sentence embeddings.
const DefaultDimensions = 384

const (
	wordWeight    = 1.0
	trigramWeight = 0.5
)

// Hashing is a deterministic local model. Each lower-cased word and each
// character trigram of "#word#" is hashed into one of the dimensions with a
// hash-derived sign; the sum is L2-normalized. Texts sharing words or word
// stems land close together.
type Hashing struct {
	dimensions int
}

// NewHashing returns a hashing model; dimensions <= 0 selects DefaultDimensions.
func NewHashing(dimensions int) *Hashing {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Hashing{dimensions: dimensions}
}

// Dimensions returns the vector length.
func (h *Hashing) Dimensions() int { return h.dimensions }

// Embed returns the unit-length feature vector of text.
func (h *Hashing) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	words := Tokenize(text)
	if len(words) == 0 {
		return nil, ErrEmptyText
	}
	acc := make([]float64, h.dimensions)
	for _, word := range words {
		h.add(acc, "w:"+word, wordWeight)
		runes := []rune("#" + word + "#")
		for i := 0; i+3 <= len(runes); i++ {
			h.add(acc, "t:"+string(runes[i:i+3]), trigramWeight)
		}
	}
	var norm float64
	for _, x := range acc {
		norm += x * x
	}
	if norm == 0 {
		return nil, ErrEmptyText
	}
	norm = math.Sqrt(norm)
	out := make([]float32, h.dimensions)
	for i, x := range acc {
		out[i] = float32(x / norm)
	}
	return out, nil
}

func (h *Hashing) add(acc []float64, feature string, weight float64) {
	sum := xxhash.Sum64String(feature)
	if sum>>63 == 1 {
		weight = -weight
	}
	acc[sum%uint64(len(acc))] += weight
}

// Tokenize lower-cases text and splits it on anything that is not a letter
// or a digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
