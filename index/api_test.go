package index

import (
	"reflect"
	"testing"
)

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{"": KindAuto, "AUTO": KindAuto, " cover ": KindCover, "vptree": KindVPTree, "brute": KindBrute} {
		got, err := ParseKind(in)
		if err != nil {
			t.Fatalf("ParseKind(%q) failed: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q) = %q, want %q", in, got, want)
		}
	}
	if _, err := ParseKind("hnsw"); err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
}

func TestResolve(t *testing.T) {
	cases := []struct {
		kind   Kind
		n, dim int
		want   Kind
	}{
		{KindAuto, 10, 384, KindBrute},
		{KindAuto, 5000, 384, KindBrute},
		{KindAuto, 10000, 64, KindCover},
		{KindVPTree, 10, 2, KindVPTree},
	}
	for _, c := range cases {
		if got := Resolve(c.kind, c.n, c.dim); got != c.want {
			t.Fatalf("Resolve(%q, %d, %d) = %q, want %q", c.kind, c.n, c.dim, got, c.want)
		}
	}
}

func TestDecodeSelectsImplementation(t *testing.T) {
	ids := []string{"a", "b"}
	vecs := [][]float32{{1, 0}, {0, 1}}
	for _, kind := range []Kind{KindBrute, KindVPTree, KindCover} {
		idx, resolved, err := Build(kind, ids, vecs)
		if err != nil {
			t.Fatalf("%s: Build failed: %v", kind, err)
		}
		if resolved != kind {
			t.Fatalf("Build resolved %q, want %q", resolved, kind)
		}

		blob, err := idx.MarshalBinary()
		if err != nil {
			t.Fatalf("%s: MarshalBinary failed: %v", kind, err)
		}
		decoded, err := Decode(blob)
		if err != nil {
			t.Fatalf("%s: Decode failed: %v", kind, err)
		}
		if reflect.TypeOf(decoded) != reflect.TypeOf(idx) {
			t.Fatalf("%s: Decode returned %T, want %T", kind, decoded, idx)
		}

		got, _, err := decoded.Query([]float32{0.1, 1}, 1)
		if err != nil {
			t.Fatalf("%s: Query failed: %v", kind, err)
		}
		if len(got) != 1 || got[0] != "b" {
			t.Fatalf("%s: Query = %v, want [b]", kind, got)
		}
	}
}
