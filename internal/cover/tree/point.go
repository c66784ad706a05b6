package tree

// Point is a vector stored in the tree. index links it to its value.
type Point struct {
	index     int32
	Magnitude float32
	Vector    []float32
}

// HasValue reports whether the point was inserted and carries a value.
func (p *Point) HasValue() bool {
	return p != nil && p.index >= 0
}

// NewPoint constructs a detached point, typically a query.
func NewPoint(vector ...float32) *Point {
	return &Point{index: -1, Vector: vector}
}
