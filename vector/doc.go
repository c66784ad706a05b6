// Package vector defines the vector-store API shared by every backend in this
// module and the SQLite-backed implementation. It includes:
//   - Embedding, SearchRequest and Match models and the Store interface
//   - SQLiteStore: durable storage with SQL-function or in-memory kNN search
//   - Schema helpers, table-name validation and index persistence DDL
//   - Embedding encoding (BLOB), distance and score functions
package vector
