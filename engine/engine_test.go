package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestOpen(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "engine.sqlite"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("CREATE TABLE t(x INTEGER)"); err != nil {
		t.Fatalf("CREATE TABLE failed: %v", err)
	}
	if _, err := db.Exec("INSERT INTO t(x) VALUES (1),(2),(3)"); err != nil {
		t.Fatalf("INSERT failed: %v", err)
	}
}

func TestDriverName(t *testing.T) {
	cases := map[string]string{"": DriverSQLite, "SQLite": DriverSQLite, "postgres": DriverPgx, "pgvector": DriverPgx}
	for in, want := range cases {
		got, err := DriverName(in)
		if err != nil || got != want {
			t.Fatalf("DriverName(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := DriverName("oracle"); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}

func TestOpenPool(t *testing.T) {
	cfg := PoolConfig{
		Name:           "VECTOR_SAMPLE",
		Driver:         "sqlite",
		DSN:            filepath.Join(t.TempDir(), "pool.sqlite"),
		MaxOpenConns:   4,
		ConnectTimeout: 5 * time.Second,
	}
	db, err := OpenPool(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenPool failed: %v", err)
	}
	defer db.Close()
	if got := db.Stats().MaxOpenConnections; got != 4 {
		t.Fatalf("MaxOpenConnections = %d, want 4", got)
	}

	cfg.DSN = ""
	if _, err := OpenPool(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for empty DSN")
	}
}
