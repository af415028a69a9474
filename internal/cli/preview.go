package cli

import (
	"math"
	"strings"

	"github.com/matzehuels/stitchgrid/pkg/core/geom"
	"github.com/matzehuels/stitchgrid/pkg/core/layout"
)

// Preview cell bits.
const (
	cellVertical = 1 << iota
	cellHorizontal
)

var previewRunes = [...]rune{' ', '|', '-', '+'}

// preview draws the segments of l onto a width x height character grid.
// Mostly vertical segments become '|', mostly horizontal ones '-', and cells
// crossed by both '+'. Terminal cells are about twice as tall as wide, so a
// square picture previews best with width = 2*height.
func preview(l layout.Layout, width, height int) string {
	if width < 2 || height < 2 || !(l.Size > 0) {
		return ""
	}
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}

	sx := float64(width-1) / l.Size
	sy := float64(height-1) / l.Size
	for _, s := range l.Segments {
		plotSegment(cells, s, sx, sy)
	}

	var b strings.Builder
	b.Grow((width + 1) * height)
	for y, row := range cells {
		for _, c := range row {
			b.WriteRune(previewRunes[c])
		}
		if y < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// plotSegment marks every cell s passes through.
func plotSegment(cells [][]uint8, s geom.Segment, sx, sy float64) {
	x0, y0 := s.A.X*sx, s.A.Y*sy
	x1, y1 := s.B.X*sx, s.B.Y*sy
	dx, dy := x1-x0, y1-y0

	bit := uint8(cellHorizontal)
	// Screen rows are twice as tall, so compare in picture proportions.
	if math.Abs(dy)*2 > math.Abs(dx) {
		bit = cellVertical
	}

	steps := int(math.Ceil(max(math.Abs(dx), math.Abs(dy)) * 2))
	for k := 0; k <= steps; k++ {
		t := 0.0
		if steps > 0 {
			t = float64(k) / float64(steps)
		}
		x := int(math.Round(x0 + t*dx))
		y := int(math.Round(y0 + t*dy))
		if y < 0 || y >= len(cells) || x < 0 || x >= len(cells[y]) {
			continue
		}
		cells[y][x] |= bit
	}
}
