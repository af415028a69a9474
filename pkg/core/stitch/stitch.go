// Package stitch selects the stitched edges of a warped grid.
//
// Every interior column line and every interior row line carries one bit of a
// [Pattern]. Along an interior line, the edge between two neighbouring
// intersections is stitched when the line's bit plus the index of the edge is
// odd, so each line alternates stitched and open edges and the bit decides
// whether it starts open or stitched. Adjoining edges share endpoints computed
// by identical [grid.Mapper] calls, which lets the polyline merger join them by
// exact comparison.
package stitch

import (
	"github.com/matzehuels/stitchgrid/pkg/core/geom"
	"github.com/matzehuels/stitchgrid/pkg/core/grid"
)

// Pattern holds one 0/1 bit per column or per row.
type Pattern []int

// RandomPattern draws a pattern of n uniformly random bits from src.
func RandomPattern(n int, src geom.Source) Pattern {
	p := make(Pattern, n)
	for i := range p {
		p[i] = int(src.Float64() * 2)
	}
	return p
}

// HasStitch reports whether the edge at position transverse along the line
// with the given index is stitched.
func HasStitch(p Pattern, index, transverse int) bool {
	return (p[index]+transverse)%2 == 1
}

// Build returns the stitched segments of the grid described by m.
//
// The column pattern must have at least len(cols)-1 bits and the row pattern
// at least len(rows)-1; m must cover len(cols) columns and len(rows) rows.
// Vertical segments come first, ordered by column line then row; horizontal
// segments follow, ordered by row line then column.
func Build(cols, rows Pattern, m grid.Mapper) []geom.Segment {
	numCols, numRows := len(cols), len(rows)
	var segs []geom.Segment

	for i := 0; i < numCols-1; i++ {
		for j := 0; j < numRows; j++ {
			if HasStitch(cols, i, j) {
				segs = append(segs, geom.Segment{A: m.At(i+1, j), B: m.At(i+1, j+1)})
			}
		}
	}
	for j := 0; j < numRows-1; j++ {
		for i := 0; i < numCols; i++ {
			if HasStitch(rows, j, i) {
				segs = append(segs, geom.Segment{A: m.At(i, j+1), B: m.At(i+1, j+1)})
			}
		}
	}
	return segs
}

// Grid returns every interior edge of a numCols by numRows grid, in the same
// order as [Build]. Drawn together they show the bare warped grid.
func Grid(numCols, numRows int, m grid.Mapper) []geom.Segment {
	segs := make([]geom.Segment, 0, (numCols-1)*numRows+(numRows-1)*numCols)
	for i := 0; i < numCols-1; i++ {
		for j := 0; j < numRows; j++ {
			segs = append(segs, geom.Segment{A: m.At(i+1, j), B: m.At(i+1, j+1)})
		}
	}
	for j := 0; j < numRows-1; j++ {
		for i := 0; i < numCols; i++ {
			segs = append(segs, geom.Segment{A: m.At(i, j+1), B: m.At(i+1, j+1)})
		}
	}
	return segs
}
