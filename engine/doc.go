// Package engine opens database handles for the vector stores. It registers
// the SQLite vector scalar functions with modernc.org/sqlite and builds
// connection pools for the SQLite and PostgreSQL (pgx) drivers.
package engine
