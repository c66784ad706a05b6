package vector

import (
	"errors"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	c := []float32{1, 0}

	// Orthogonal vectors -> similarity 0
	if sim, err := CosineSimilarity(a, b); err != nil || sim != 0 {
		t.Fatalf("CosineSimilarity(a,b) = %v, %v; want 0, nil", sim, err)
	}

	// Identical vectors -> similarity 1
	if sim, err := CosineSimilarity(a, c); err != nil || sim != 1 {
		t.Fatalf("CosineSimilarity(a,c) = %v, %v; want 1, nil", sim, err)
	}

	if _, err := CosineSimilarity(a, []float32{1, 0, 0}); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("CosineSimilarity dim mismatch err = %v, want ErrDimensionMismatch", err)
	}
	if _, err := CosineSimilarity(a, []float32{0, 0}); !errors.Is(err, ErrZeroVector) {
		t.Fatalf("CosineSimilarity zero vector err = %v, want ErrZeroVector", err)
	}
}

func TestL2Distance(t *testing.T) {
	a := []float32{0, 0}
	b := []float32{3, 4}

	d, err := L2Distance(a, b)
	if err != nil {
		t.Fatalf("L2Distance failed: %v", err)
	}
	if d != 5 {
		t.Fatalf("L2Distance(0,0)-(3,4) = %v, want 5", d)
	}
}

func TestScore(t *testing.T) {
	cases := map[float64]float64{-1: 0, 0: 0.5, 1: 1, 1.0000001: 1}
	for cos, want := range cases {
		if got := Score(cos); got != want {
			t.Errorf("Score(%v) = %v, want %v", cos, got, want)
		}
	}
}

func TestNormalize(t *testing.T) {
	n := Normalize([]float32{3, 4})
	if math.Abs(Magnitude(n)-1) > 1e-6 {
		t.Fatalf("Normalize magnitude = %v, want 1", Magnitude(n))
	}
	if Normalize([]float32{0, 0}) != nil {
		t.Fatalf("Normalize(zero) should be nil")
	}
}
