package vector

import (
	"fmt"
	"regexp"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// ValidateTable checks that table is a plain SQL identifier. Identifiers
// cannot be bound as parameters, so they are interpolated into DDL and must
// not need quoting.
func ValidateTable(table string) error {
	if !tableNamePattern.MatchString(table) {
		return fmt.Errorf("%w: %q", ErrInvalidTable, table)
	}
	return nil
}

// StorageTable holds persisted kNN indexes, one row per vector table.
const StorageTable = "vector_storage"

const storageSchema = `
CREATE TABLE IF NOT EXISTS vector_storage (
    table_name TEXT PRIMARY KEY,
    kind       TEXT NOT NULL,
    version    TEXT NOT NULL,
    "index"    BLOB
)`

func sqliteTableSchema(table string, dimensions int) string {
	return fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id         TEXT PRIMARY KEY,
    content    TEXT NOT NULL,
    embedding  BLOB NOT NULL CHECK(length(embedding) = %d),
    created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, table, 4*dimensions)
}

// sqliteTriggers drop the persisted index whenever table rows change so the
// next search rebuilds it.
func sqliteTriggers(table string) []string {
	invalidate := fmt.Sprintf(`DELETE FROM vector_storage WHERE table_name = '%s';`, table)
	return []string{
		fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS trg_vec_%s_ins AFTER INSERT ON %s BEGIN %s END`, table, table, invalidate),
		fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS trg_vec_%s_upd AFTER UPDATE ON %s BEGIN %s END`, table, table, invalidate),
		fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS trg_vec_%s_del AFTER DELETE ON %s BEGIN %s END`, table, table, invalidate),
	}
}
