package tree

// Adapted from github.com/viant/gds/tree/cover.

import (
	"container/heap"
	"math"
	"sort"
	"sync"

	"github.com/viant/vec/search"
)

// Tree is a cover tree answering kNN queries. Every child of a node at level
// L lies within base^L of it; per-node radii bound whole subtrees so search
// is exact whenever the distance function is a metric.
type Tree[T any] struct {
	root         *Node
	base         float32
	distanceFunc DistanceFunc
	values       values[T]
	size         int
	version      uint64
	mu           sync.RWMutex
}

// NewTree constructs a cover tree with the provided base and distance metric.
func NewTree[T any](base float32, distanceFn DistanceFunction) *Tree[T] {
	if base <= 1 {
		base = 1.3
	}
	fn := distanceFn.Function()
	if fn == nil {
		fn = DistanceFunctionEuclidean.Function()
	}
	return &Tree[T]{base: base, distanceFunc: fn}
}

// Len returns the number of inserted points.
func (t *Tree[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.size
}

// Insert adds a value/vector pair to the tree and returns its index.
func (t *Tree[T]) Insert(value T, point *Point) int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	point.index = t.values.put(value)
	if point.Magnitude == 0 && len(point.Vector) > 0 {
		point.Magnitude = search.Float32s(point.Vector).Magnitude()
	}
	t.size++
	t.version++
	if t.root == nil {
		root := newNode(point, 0)
		t.root = &root
		return point.index
	}
	t.insert(point)
	return point.index
}

func (t *Tree[T]) coverDistance(level int32) float32 {
	return float32(math.Pow(float64(t.base), float64(level)))
}

func (t *Tree[T]) insert(point *Point) {
	d := t.distanceFunc(point, t.root.point)
	for d > t.coverDistance(t.root.level) {
		t.root.level++
	}
	node := t.root
	for {
		next := -1
		cover := t.coverDistance(node.level - 1)
		for i := range node.children {
			if t.distanceFunc(point, node.children[i].point) <= cover {
				next = i
				break
			}
		}
		if next < 0 {
			node.children = append(node.children, newNode(point, node.level-1))
			return
		}
		node = &node.children[next]
	}
}

// Value returns the stored value for the given point.
func (t *Tree[T]) Value(point *Point) T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var zero T
	if !point.HasValue() {
		return zero
	}
	return t.values.value(point.index)
}

// KNearestNeighbors runs a depth-first kNN search and returns neighbours by
// ascending distance.
func (t *Tree[T]) KNearestNeighbors(point *Point, k int) []*Neighbor {
	// radius caching mutates nodes
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.root == nil || k <= 0 {
		return nil
	}
	h := &Neighbors{}
	t.kNearestNeighbors(t.root, point, k, h)
	result := make([]*Neighbor, h.Len())
	for i := len(result) - 1; i >= 0; i-- {
		n := heap.Pop(h).(Neighbor)
		result[i] = &n
	}
	return result
}

func (t *Tree[T]) kNearestNeighbors(node *Node, point *Point, k int, h *Neighbors) {
	dc := t.distanceFunc(point, node.point)
	if h.Len() < k {
		heap.Push(h, Neighbor{Point: node.point, Distance: dc})
	} else if dc < (*h)[0].Distance {
		heap.Pop(h)
		heap.Push(h, Neighbor{Point: node.point, Distance: dc})
	}
	if len(node.children) == 0 {
		return
	}
	type childDist struct {
		child *Node
		dist  float32
	}
	cds := make([]childDist, 0, len(node.children))
	for i := range node.children {
		child := &node.children[i]
		cds = append(cds, childDist{child: child, dist: t.distanceFunc(point, child.point)})
	}
	sort.Slice(cds, func(i, j int) bool { return cds[i].dist < cds[j].dist })
	for _, cd := range cds {
		if h.Len() == k && cd.dist-t.ensureRadius(cd.child) > (*h)[0].Distance {
			continue
		}
		t.kNearestNeighbors(cd.child, point, k, h)
	}
}

func (t *Tree[T]) ensureRadius(n *Node) float32 {
	if n.radiusComputed == t.version {
		return n.radius
	}
	var maxR float32
	for i := range n.children {
		child := &n.children[i]
		if d := t.distanceFunc(n.point, child.point) + t.ensureRadius(child); d > maxR {
			maxR = d
		}
	}
	n.radius = maxR
	n.radiusComputed = t.version
	return maxR
}
