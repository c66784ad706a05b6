package vector

import "testing"

func TestNewOptionsDefaults(t *testing.T) {
	o := NewOptions(WithBatchSize(0), WithIndex(" COVER "))
	if o.BatchSize != DefaultBatchSize {
		t.Fatalf("BatchSize = %d, want %d", o.BatchSize, DefaultBatchSize)
	}
	if o.Index != "cover" {
		t.Fatalf("Index = %q, want cover", o.Index)
	}
	if NewOptions().Index != IndexAuto {
		t.Fatalf("default index should be auto")
	}
}

func TestPlaceholders(t *testing.T) {
	if got := Placeholders(2, 3, 0, QuestionMark); got != "(?,?,?),(?,?,?)" {
		t.Fatalf("Placeholders = %q", got)
	}
	if got := Placeholders(2, 2, 1, Dollar); got != "($2,$3),($4,$5)" {
		t.Fatalf("Placeholders = %q", got)
	}
}

func TestBatches(t *testing.T) {
	got := Batches(250, 100)
	want := [][2]int{{0, 100}, {100, 200}, {200, 250}}
	if len(got) != len(want) {
		t.Fatalf("Batches = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Batches = %v, want %v", got, want)
		}
	}
	if len(Batches(0, 10)) != 0 {
		t.Fatalf("Batches(0) should be empty")
	}
}

func TestMaxBatchRows(t *testing.T) {
	cases := []struct{ size, want int }{
		{0, DefaultBatchSize},
		{100, 100},
		{10922, 10922},
		{20000, SQLiteMaxParams / 3},
	}
	for _, c := range cases {
		if got := MaxBatchRows(c.size, 3, SQLiteMaxParams); got != c.want {
			t.Fatalf("MaxBatchRows(%d) = %d, want %d", c.size, got, c.want)
		}
	}
	if got := MaxBatchRows(30000, 3, PostgresMaxParams); got != PostgresMaxParams/3 {
		t.Fatalf("MaxBatchRows(30000, postgres) = %d, want %d", got, PostgresMaxParams/3)
	}
}
