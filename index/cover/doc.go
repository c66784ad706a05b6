// Package cover provides a cosine kNN index backed by a cover tree over
// unit-normalized vectors.
package cover
