// Package pgvector implements vector.Store on PostgreSQL with the pgvector
// extension. Embeddings live in a native vector(N) column and similarity is
// computed by the <=> cosine distance operator, optionally backed by an HNSW
// or IVFFlat index.
package pgvector
