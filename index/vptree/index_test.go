package vptree

import (
	"fmt"
	"math"
	"math/rand"
	"testing"

	"github.com/viant/vecstore/index/bruteforce"
)

func TestIndexMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	const n, dim = 150, 12
	ids := make([]string, n)
	vecs := make([][]float32, n)
	for i := range vecs {
		ids[i] = fmt.Sprintf("v%03d", i)
		vecs[i] = make([]float32, dim)
		for j := range vecs[i] {
			vecs[i][j] = rng.Float32()*2 - 1
		}
	}
	idx := &Index{}
	if err := idx.Build(ids, vecs); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	brute := &bruteforce.Index{}
	if err := brute.Build(ids, vecs); err != nil {
		t.Fatalf("brute Build failed: %v", err)
	}

	query := make([]float32, dim)
	for q := 0; q < 10; q++ {
		for j := range query {
			query[j] = rng.Float32()*2 - 1
		}
		_, got, err := idx.Query(query, 7)
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		_, want, _ := brute.Query(query, 7)
		if len(got) != len(want) {
			t.Fatalf("Query returned %d scores, want %d", len(got), len(want))
		}
		for r := range want {
			if math.Abs(got[r]-want[r]) > 1e-5 {
				t.Fatalf("query %d rank %d score = %v, want %v", q, r, got[r], want[r])
			}
		}
	}
}

func TestIndexRoundTrip(t *testing.T) {
	idx := &Index{}
	if err := idx.Build([]string{"a", "b", "c"}, [][]float32{{1, 0}, {0, 1}, {1, 1}}); err != nil {
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
	ids, _, err := restored.Query([]float32{1, 0.2}, 1)
	if err != nil || len(ids) != 1 || ids[0] != "a" {
		t.Fatalf("Query = %v, %v; want [a]", ids, err)
	}
	if _, _, err := restored.Query([]float32{1}, 1); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}
