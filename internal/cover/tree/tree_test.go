package tree

import (
	"math/rand"
	"sort"
	"testing"
)

func TestTreeKNearestNeighborsMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tr := NewTree[int](1.3, DistanceFunctionEuclidean)
	var points []*Point
	for i := 0; i < 300; i++ {
		v := make([]float32, 8)
		for j := range v {
			v[j] = rng.Float32()*2 - 1
		}
		p := NewPoint(v...)
		tr.Insert(i, p)
		points = append(points, p)
	}
	if tr.Len() != 300 {
		t.Fatalf("Len = %d, want 300", tr.Len())
	}

	for q := 0; q < 20; q++ {
		qv := make([]float32, 8)
		for j := range qv {
			qv[j] = rng.Float32()*2 - 1
		}
		query := NewPoint(qv...)
		got := tr.KNearestNeighbors(query, 5)
		if len(got) != 5 {
			t.Fatalf("KNearestNeighbors returned %d, want 5", len(got))
		}

		dists := make([]float32, len(points))
		for i, p := range points {
			dists[i] = EuclideanDistance(query, p)
		}
		sort.Slice(dists, func(a, b int) bool { return dists[a] < dists[b] })
		for i, n := range got {
			if diff := n.Distance - dists[i]; diff > 1e-5 || diff < -1e-5 {
				t.Fatalf("query %d neighbor %d distance = %v, want %v", q, i, n.Distance, dists[i])
			}
		}
	}
}

func TestTreeValue(t *testing.T) {
	tr := NewTree[string](0, "")
	p := NewPoint(1, 0)
	tr.Insert("a", p)
	tr.Insert("b", NewPoint(0, 1))
	if got := tr.Value(p); got != "a" {
		t.Fatalf("Value = %q, want a", got)
	}
	if got := tr.Value(NewPoint(1, 1)); got != "" {
		t.Fatalf("Value of detached point = %q, want empty", got)
	}
	nn := tr.KNearestNeighbors(NewPoint(0.1, 0.9), 1)
	if len(nn) != 1 || tr.Value(nn[0].Point) != "b" {
		t.Fatalf("nearest = %v, want b", nn)
	}
}
