package bruteforce

import (
	"math"
	"testing"
)

func TestIndexQueryOrder(t *testing.T) {
	idx := &Index{}
	ids := []string{"x", "y", "diag"}
	vecs := [][]float32{{1, 0}, {0, 1}, {1, 1}}
	if err := idx.Build(ids, vecs); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got, scores, err := idx.Query([]float32{1, 0.1}, 0)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(got) != 3 || got[0] != "x" || got[1] != "diag" || got[2] != "y" {
		t.Fatalf("Query order = %v, want [x diag y]", got)
	}
	for n := 1; n < len(scores); n++ {
		if scores[n] > scores[n-1] {
			t.Fatalf("scores not descending: %v", scores)
		}
	}

	got, _, err = idx.Query([]float32{1, 0.1}, 1)
	if err != nil || len(got) != 1 || got[0] != "x" {
		t.Fatalf("Query k=1 = %v, %v; want [x]", got, err)
	}

	if _, _, err := idx.Query([]float32{1}, 1); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}

func TestIndexTiesOrderedByID(t *testing.T) {
	idx := &Index{}
	if err := idx.Build([]string{"b", "a"}, [][]float32{{1, 0}, {2, 0}}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	got, _, err := idx.Query([]float32{1, 0}, 0)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if got[0] != "a" || got[1] != "b" {
		t.Fatalf("tie order = %v, want [a b]", got)
	}
}

func TestIndexMarshalRoundTrip(t *testing.T) {
	idx := &Index{}
	if err := idx.Build([]string{"d1", "d2"}, [][]float32{{1, 0, 0}, {0, 0.5, -1}}); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	data, err := idx.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}

	restored := &Index{}
	if err := restored.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary failed: %v", err)
	}
	if restored.Len() != 2 {
		t.Fatalf("restored Len = %d, want 2", restored.Len())
	}
	ids, scores, err := restored.Query([]float32{0, 0.5, -1}, 1)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if ids[0] != "d2" || math.Abs(scores[0]-1) > 1e-6 {
		t.Fatalf("restored Query = %v %v, want d2 with score 1", ids, scores)
	}

	if err := restored.UnmarshalBinary(data[:len(data)-2]); err == nil {
		t.Fatalf("expected error for truncated data")
	}
}

func TestIndexEmpty(t *testing.T) {
	idx := &Index{}
	if err := idx.Build(nil, nil); err != nil {
		t.Fatalf("Build(nil) failed: %v", err)
	}
	ids, _, err := idx.Query([]float32{1}, 3)
	if err != nil || len(ids) != 0 {
		t.Fatalf("Query on empty index = %v, %v", ids, err)
	}
	data, _ := idx.MarshalBinary()
	if err := (&Index{}).UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary(empty) failed: %v", err)
	}
}
