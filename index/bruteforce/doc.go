// Package bruteforce provides a simple vector index that answers kNN queries
// by scanning all vectors and scoring via cosine similarity. Its compact
// binary layout is shared by the other indexes for persistence in the
// vector_storage table.
package bruteforce
