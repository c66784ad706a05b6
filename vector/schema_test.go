package vector

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/viant/vecstore/engine"
)

func TestValidateTable(t *testing.T) {
	for _, name := range []string{"vector_store", "_t", "Docs2"} {
		if err := ValidateTable(name); err != nil {
			t.Fatalf("ValidateTable(%q) = %v, want nil", name, err)
		}
	}
	for _, name := range []string{"", "1docs", "docs;drop", "main.docs", "a-b"} {
		if err := ValidateTable(name); !errors.Is(err, ErrInvalidTable) {
			t.Fatalf("ValidateTable(%q) = %v, want ErrInvalidTable", name, err)
		}
	}
}

func TestCreateTableIfNotExistsIsIdempotent(t *testing.T) {
	db, err := engine.Open(filepath.Join(t.TempDir(), "schema.sqlite"))
	if err != nil {
		t.Fatalf("engine.Open failed: %v", err)
	}
	defer db.Close()

	store, err := NewSQLiteStore(db, "vector_store", 3)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if err := store.CreateTableIfNotExists(ctx); err != nil {
			t.Fatalf("CreateTableIfNotExists #%d failed: %v", i+1, err)
		}
	}

	// The CHECK constraint rejects blobs of the wrong size.
	blob, _ := EncodeEmbedding([]float32{1, 2})
	if _, err := db.Exec(`INSERT INTO vector_store(id, content, embedding) VALUES('x', 'short', ?)`, blob); err == nil {
		t.Fatalf("expected CHECK constraint failure for 2-dim blob")
	}

	var triggers int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'trigger' AND tbl_name = 'vector_store'`).Scan(&triggers); err != nil {
		t.Fatalf("trigger count failed: %v", err)
	}
	if triggers != 3 {
		t.Fatalf("triggers = %d, want 3", triggers)
	}
}
