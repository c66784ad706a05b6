package engine

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"
)

func encode(v ...float32) []byte {
	b := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(x))
	}
	return b
}

func TestVectorFunctions(t *testing.T) {
	if err := RegisterVectorFunctions(); err != nil {
		t.Fatalf("RegisterVectorFunctions failed: %v", err)
	}
	db, err := Open(filepath.Join(t.TempDir(), "functions.sqlite"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	var sim float64
	if err := db.QueryRow(`SELECT vec_cosine(?, ?)`, encode(1, 0), encode(0, 1)).Scan(&sim); err != nil {
		t.Fatalf("vec_cosine query failed: %v", err)
	}
	if sim != 0 {
		t.Fatalf("vec_cosine orthogonal = %v, want 0", sim)
	}
	if err := db.QueryRow(`SELECT vec_cosine(?, ?)`, encode(1, 0), encode(2, 0)).Scan(&sim); err != nil {
		t.Fatalf("vec_cosine query failed: %v", err)
	}
	if math.Abs(sim-1) > 1e-9 {
		t.Fatalf("vec_cosine parallel = %v, want 1", sim)
	}

	var score float64
	if err := db.QueryRow(`SELECT vec_score(?, ?)`, encode(1, 0), encode(-1, 0)).Scan(&score); err != nil {
		t.Fatalf("vec_score query failed: %v", err)
	}
	if score != 0 {
		t.Fatalf("vec_score opposite = %v, want 0", score)
	}
	if err := db.QueryRow(`SELECT vec_score(?, ?)`, encode(1, 0), encode(0, 3)).Scan(&score); err != nil {
		t.Fatalf("vec_score query failed: %v", err)
	}
	if math.Abs(score-0.5) > 1e-9 {
		t.Fatalf("vec_score orthogonal = %v, want 0.5", score)
	}

	var dist float64
	if err := db.QueryRow(`SELECT vec_l2(?, ?)`, encode(0, 0), encode(3, 4)).Scan(&dist); err != nil {
		t.Fatalf("vec_l2 query failed: %v", err)
	}
	if math.Abs(dist-5) > 1e-9 {
		t.Fatalf("vec_l2 = %v, want 5", dist)
	}

	if err := db.QueryRow(`SELECT vec_cosine(?, ?)`, encode(1, 0), encode(1, 0, 0)).Scan(&sim); err == nil {
		t.Fatalf("expected dimension mismatch error")
	}
}
