package cover

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/viant/vecstore/index/bruteforce"
	"github.com/viant/vecstore/internal/cover/tree"
)

// Magic prefixes the persisted form of a cover index.
const Magic = "COV1"

const defaultBase = 1.3

// Index wraps a cover tree. Vectors are normalized on insert so Euclidean
// distance orders neighbours exactly like cosine similarity.
type Index struct {
	base float32
	tree *tree.Tree[string]
	ids  []string
	vecs [][]float32
	dim  int
}

// New creates an empty cover index.
func New() *Index {
	return &Index{base: defaultBase}
}

// Build inserts all vectors into a fresh tree. Zero vectors are skipped.
func (i *Index) Build(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("cover: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	if i.base <= 1 {
		i.base = defaultBase
	}
	i.tree = tree.NewTree[string](i.base, tree.DistanceFunctionEuclidean)
	i.ids, i.vecs, i.dim = nil, nil, 0
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	for j, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("cover: inconsistent vector dims %d vs %d", len(v), dim)
		}
		n := normalize(v)
		if n == nil {
			continue
		}
		i.ids = append(i.ids, ids[j])
		i.vecs = append(i.vecs, n)
		i.tree.Insert(ids[j], tree.NewPoint(n...))
	}
	i.dim = dim
	return nil
}

// Query returns up to k ids by decreasing cosine similarity.
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	if i.tree == nil || i.dim == 0 || len(i.ids) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("cover: query dim %d != index dim %d", len(query), i.dim)
	}
	q := normalize(query)
	if q == nil {
		return nil, nil, nil
	}
	if k <= 0 || k > len(i.ids) {
		k = len(i.ids)
	}
	neighbors := i.tree.KNearestNeighbors(tree.NewPoint(q...), k)
	type hit struct {
		id   string
		dist float64
	}
	hits := make([]hit, 0, len(neighbors))
	for _, n := range neighbors {
		hits = append(hits, hit{id: i.tree.Value(n.Point), dist: float64(n.Distance)})
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].dist != hits[b].dist {
			return hits[a].dist < hits[b].dist
		}
		return hits[a].id < hits[b].id
	})
	ids := make([]string, len(hits))
	scores := make([]float64, len(hits))
	for n, h := range hits {
		ids[n] = h.id
		scores[n] = 1 - h.dist*h.dist/2
	}
	return ids, scores, nil
}

// MarshalBinary writes Magic followed by the normalized vectors.
func (i *Index) MarshalBinary() ([]byte, error) {
	return append([]byte(Magic), bruteforce.Encode(i.ids, i.vecs)...), nil
}

// UnmarshalBinary rebuilds the tree from persisted vectors.
func (i *Index) UnmarshalBinary(data []byte) error {
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return errors.New("cover: missing magic")
	}
	ids, vecs, err := bruteforce.Decode(data[len(Magic):])
	if err != nil {
		return err
	}
	return i.Build(ids, vecs)
}

func normalize(v []float32) []float32 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	if s == 0 {
		return nil
	}
	m := math.Sqrt(s)
	out := make([]float32, len(v))
	for n, x := range v {
		out[n] = float32(float64(x) / m)
	}
	return out
}
