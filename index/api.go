package index

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/viant/vecstore/index/bruteforce"
	"github.com/viant/vecstore/index/cover"
	"github.com/viant/vecstore/index/vptree"
)

// Index defines a generic vector index with basic lifecycle methods.
// It enables building from (id, embedding) pairs, kNN queries, and
// binary serialization for persistence.
type Index interface {
	// Build constructs the index from the given ids and vectors.
	// ids and vectors must have the same length; vectors must be non-nil.
	Build(ids []string, vectors [][]float32) error

	// Query runs a kNN search against the index with the provided query vector
	// and returns up to k matches as parallel slices of ids and scores, where
	// score is the cosine similarity. k <= 0 returns every indexed vector.
	Query(query []float32, k int) (ids []string, scores []float64, err error)

	// MarshalBinary serializes the index into a byte slice.
	MarshalBinary() ([]byte, error)

	// UnmarshalBinary reconstructs the index from a serialized byte slice.
	UnmarshalBinary(data []byte) error
}

// Kind names an index implementation.
type Kind string

const (
	KindAuto   Kind = "auto"
	KindBrute  Kind = "brute"
	KindVPTree Kind = "vptree"
	KindCover  Kind = "cover"
)

const (
	autoCoverMinDocs            = 4000
	autoCoverMinDim             = 64
	autoCoverMinDensity float64 = 16
)

var (
	_ Index = (*bruteforce.Index)(nil)
	_ Index = (*vptree.Index)(nil)
	_ Index = (*cover.Index)(nil)
)

// ParseKind converts a configuration value into a Kind. Empty means auto.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return KindAuto, nil
	case KindAuto, KindBrute, KindVPTree, KindCover:
		return k, nil
	default:
		return "", fmt.Errorf("index: unknown kind %q", s)
	}
}

// Resolve picks a concrete kind. Auto selects the cover tree only for large,
// dense collections where pruning pays for the build cost.
func Resolve(kind Kind, docCount, dim int) Kind {
	if kind != KindAuto && kind != "" {
		return kind
	}
	if docCount >= autoCoverMinDocs && dim >= autoCoverMinDim {
		if float64(docCount)/float64(dim) >= autoCoverMinDensity {
			return KindCover
		}
	}
	return KindBrute
}

// New returns an empty index of the given kind; auto resolves to brute.
func New(kind Kind) (Index, error) {
	switch kind {
	case KindAuto, "", KindBrute:
		return &bruteforce.Index{}, nil
	case KindVPTree:
		return &vptree.Index{}, nil
	case KindCover:
		return cover.New(), nil
	default:
		return nil, fmt.Errorf("index: unknown kind %q", kind)
	}
}

// Build resolves kind for the data set and returns a built index.
func Build(kind Kind, ids []string, vectors [][]float32) (Index, Kind, error) {
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	resolved := Resolve(kind, len(ids), dim)
	idx, err := New(resolved)
	if err != nil {
		return nil, "", err
	}
	if err := idx.Build(ids, vectors); err != nil {
		return nil, "", err
	}
	return idx, resolved, nil
}

// Decode restores a persisted index, selecting the implementation by the
// blob's magic prefix.
func Decode(blob []byte) (Index, error) {
	var idx Index
	switch {
	case bytes.HasPrefix(blob, []byte(cover.Magic)):
		idx = cover.New()
	case bytes.HasPrefix(blob, []byte(vptree.Magic)):
		idx = &vptree.Index{}
	default:
		idx = &bruteforce.Index{}
	}
	if err := idx.UnmarshalBinary(blob); err != nil {
		return nil, err
	}
	return idx, nil
}
