package engine

import (
	"database/sql"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// DriverSQLite is the database/sql driver name of modernc.org/sqlite.
const DriverSQLite = "sqlite"

// Open opens a SQLite database using the modernc.org/sqlite driver with the
// vector functions registered.
//
// For file-based databases, pass a path like "./db.sqlite". Note that every
// pooled connection to ":memory:" sees its own empty database.
func Open(dsn string) (*sql.DB, error) {
	if err := RegisterVectorFunctions(); err != nil {
		return nil, err
	}
	return sql.Open(DriverSQLite, dsn)
}
