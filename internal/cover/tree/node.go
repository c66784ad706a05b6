package tree

// Node is a cover-tree node. radius bounds the distance from point to any
// descendant and is recomputed lazily after inserts.
type Node struct {
	level          int32
	point          *Point
	children       []Node
	radius         float32
	radiusComputed uint64
}

func newNode(point *Point, level int32) Node {
	return Node{level: level, point: point}
}
