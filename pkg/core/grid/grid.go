// Package grid maps integer grid positions of a warped grid to picture
// coordinates.
package grid

import (
	"github.com/matzehuels/stitchgrid/pkg/core/geom"
	"github.com/matzehuels/stitchgrid/pkg/core/partition"
)

// Mapper maps a (column, row) grid position to a point.
// Implementations must be deterministic: the same arguments always produce
// bit-identical points, which the polyline merger relies on.
type Mapper interface {
	At(col, row int) geom.Point
}

// Mapping intersects the column lines of one partition with the row lines of
// another inside a square of side Size.
//
// Column line c runs from (Columns.Top[c], 0) to (Columns.Bottom[c], Size);
// row line r runs from (0, Rows.Top[r]) to (Size, Rows.Bottom[r]).
type Mapping struct {
	Columns partition.Partition
	Rows    partition.Partition
	Size    float64
}

// New returns the mapping for the given column and row partitions.
func New(columns, rows partition.Partition, size float64) Mapping {
	return Mapping{Columns: columns, Rows: rows, Size: size}
}

// At returns the intersection of column line col and row line row.
//
// The column line is x = b1*y + c1 and the row line y = a2*x + c2; both are
// rewritten as a*x + b*y + c = 0 and solved with Cramer's rule. Parallel lines
// are not guarded against and yield infinite or NaN coordinates.
func (m Mapping) At(col, row int) geom.Point {
	a1 := -1.0
	b1 := (m.Columns.Bottom[col] - m.Columns.Top[col]) / m.Size
	c1 := m.Columns.Top[col]

	a2 := (m.Rows.Bottom[row] - m.Rows.Top[row]) / m.Size
	b2 := -1.0
	c2 := m.Rows.Top[row]

	det := a1*b2 - a2*b1
	return geom.Point{
		X: (b1*c2 - b2*c1) / det,
		Y: (c1*a2 - c2*a1) / det,
	}
}

// ColumnCount returns the number of grid columns of m.
func (m Mapping) ColumnCount() int { return m.Columns.Len() - 1 }

// RowCount returns the number of grid rows of m.
func (m Mapping) RowCount() int { return m.Rows.Len() - 1 }

var _ Mapper = Mapping{}
