// Package vptree provides a vantage-point tree kNN index. Vectors are
// normalized on build so Euclidean distance orders neighbours exactly as
// cosine similarity does while keeping the triangle inequality valid for
// pruning.
package vptree
