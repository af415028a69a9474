// Package geom holds the small value types shared by the stitchgrid core
// packages: points, segments and the random source the generators draw from.
package geom

import "math"

// Point is a position in picture coordinates (origin top-left, y down).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Equal reports whether p and q have bit-identical coordinates.
func (p Point) Equal(q Point) bool {
	return p.X == q.X && p.Y == q.Y
}

// Near reports whether p and q are within eps of each other on both axes.
// A zero eps is the same as [Point.Equal].
func (p Point) Near(q Point, eps float64) bool {
	if eps <= 0 {
		return p.Equal(q)
	}
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Segment is a straight line between two points; the atomic drawable unit.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Source produces uniformly distributed numbers in [0, 1).
// *math/rand/v2.Rand satisfies it.
type Source interface {
	Float64() float64
}
