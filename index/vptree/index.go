package vptree

import (
	"container/heap"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/viant/vecstore/index/bruteforce"
)

// Magic prefixes the persisted form of a VP-tree index.
const Magic = "VPT1"

// Index implements a cosine kNN index using a VP-tree to prune search.
type Index struct {
	ids  []string
	vecs [][]float32 // unit length
	dim  int
	root *node
}

type node struct {
	idx   int
	thr   float64
	left  *node
	right *node
}

// Build normalizes vectors and constructs the tree.
func (i *Index) Build(ids []string, vectors [][]float32) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("vptree: ids and vectors length mismatch: %d != %d", len(ids), len(vectors))
	}
	i.ids, i.vecs, i.root, i.dim = nil, nil, nil, 0
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	for j, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("vptree: inconsistent vector dims %d vs %d", len(v), dim)
		}
		n := normalize(v)
		if n == nil {
			continue
		}
		i.ids = append(i.ids, ids[j])
		i.vecs = append(i.vecs, n)
	}
	i.dim = dim
	idxs := make([]int, len(i.vecs))
	for k := range idxs {
		idxs[k] = k
	}
	i.root = i.build(idxs)
	return nil
}

func (i *Index) build(idxs []int) *node {
	if len(idxs) == 0 {
		return nil
	}
	// last element is the vantage point; deterministic, no sampling
	vp := idxs[len(idxs)-1]
	rest := idxs[:len(idxs)-1]
	if len(rest) == 0 {
		return &node{idx: vp}
	}
	dists := make(map[int]float64, len(rest))
	for _, j := range rest {
		dists[j] = euclidean(i.vecs[vp], i.vecs[j])
	}
	sorted := append([]int(nil), rest...)
	sort.Slice(sorted, func(a, b int) bool { return dists[sorted[a]] < dists[sorted[b]] })
	mid := len(sorted) / 2
	return &node{
		idx:   vp,
		thr:   dists[sorted[mid]],
		left:  i.build(sorted[:mid+1]),
		right: i.build(sorted[mid+1:]),
	}
}

type candidate struct {
	idx  int
	dist float64
}

// candidates is a max-heap on distance.
type candidates []candidate

func (h candidates) Len() int            { return len(h) }
func (h candidates) Less(a, b int) bool  { return h[a].dist > h[b].dist }
func (h candidates) Swap(a, b int)       { h[a], h[b] = h[b], h[a] }
func (h *candidates) Push(x interface{}) { *h = append(*h, x.(candidate)) }
func (h *candidates) Pop() interface{} {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}

// Query returns up to k ids ordered by decreasing cosine similarity.
func (i *Index) Query(query []float32, k int) ([]string, []float64, error) {
	if i.dim == 0 || len(i.vecs) == 0 {
		return nil, nil, nil
	}
	if len(query) != i.dim {
		return nil, nil, fmt.Errorf("vptree: query dim %d != index dim %d", len(query), i.dim)
	}
	q := normalize(query)
	if q == nil {
		return nil, nil, nil
	}
	if k <= 0 || k > len(i.vecs) {
		k = len(i.vecs)
	}
	h := &candidates{}
	bound := math.Inf(1)
	var search func(n *node)
	search = func(n *node) {
		if n == nil {
			return
		}
		d := euclidean(q, i.vecs[n.idx])
		if h.Len() < k {
			heap.Push(h, candidate{idx: n.idx, dist: d})
		} else if d < (*h)[0].dist {
			heap.Pop(h)
			heap.Push(h, candidate{idx: n.idx, dist: d})
		}
		if h.Len() == k {
			bound = (*h)[0].dist
		}
		if d < n.thr {
			if d-bound <= n.thr {
				search(n.left)
			}
			if d+bound >= n.thr {
				search(n.right)
			}
			return
		}
		if d+bound >= n.thr {
			search(n.right)
		}
		if d-bound <= n.thr {
			search(n.left)
		}
	}
	search(i.root)

	out := []candidate(*h)
	sort.Slice(out, func(a, b int) bool {
		if out[a].dist != out[b].dist {
			return out[a].dist < out[b].dist
		}
		return i.ids[out[a].idx] < i.ids[out[b].idx]
	})
	ids := make([]string, len(out))
	scores := make([]float64, len(out))
	for n, c := range out {
		ids[n] = i.ids[c.idx]
		// |a-b|^2 = 2 - 2cos for unit vectors
		scores[n] = 1 - c.dist*c.dist/2
	}
	return ids, scores, nil
}

// MarshalBinary writes Magic followed by the brute-force layout.
func (i *Index) MarshalBinary() ([]byte, error) {
	return append([]byte(Magic), bruteforce.Encode(i.ids, i.vecs)...), nil
}

// UnmarshalBinary loads the persisted vectors and rebuilds the tree.
func (i *Index) UnmarshalBinary(data []byte) error {
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return errors.New("vptree: missing magic")
	}
	ids, vecs, err := bruteforce.Decode(data[len(Magic):])
	if err != nil {
		return err
	}
	return i.Build(ids, vecs)
}

func euclidean(a, b []float32) float64 {
	var s float64
	for n := range a {
		d := float64(a[n]) - float64(b[n])
		s += d * d
	}
	return math.Sqrt(s)
}

func magnitude(v []float32) float64 {
	var s float64
	for _, x := range v {
		s += float64(x) * float64(x)
	}
	return math.Sqrt(s)
}

func normalize(v []float32) []float32 {
	m := magnitude(v)
	if m == 0 {
		return nil
	}
	out := make([]float32, len(v))
	for n, x := range v {
		out[n] = float32(float64(x) / m)
	}
	return out
}
