package stitch

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/matzehuels/stitchgrid/pkg/core/geom"
	"github.com/matzehuels/stitchgrid/pkg/core/grid"
	"github.com/matzehuels/stitchgrid/pkg/core/partition"
)

// lattice maps grid positions to integer coordinates.
type lattice struct{}

func (lattice) At(col, row int) geom.Point {
	return geom.Point{X: float64(col), Y: float64(row)}
}

func seg(x1, y1, x2, y2 float64) geom.Segment {
	return geom.Segment{A: geom.Point{X: x1, Y: y1}, B: geom.Point{X: x2, Y: y2}}
}

func TestHasStitch(t *testing.T) {
	p := Pattern{0, 1}
	tests := []struct {
		index, transverse int
		want              bool
	}{
		{0, 0, false},
		{0, 1, true},
		{0, 2, false},
		{1, 0, true},
		{1, 1, false},
	}
	for _, tt := range tests {
		if got := HasStitch(p, tt.index, tt.transverse); got != tt.want {
			t.Errorf("HasStitch(%v, %d, %d) = %v, want %v", p, tt.index, tt.transverse, got, tt.want)
		}
	}
}

func TestBuildSelection(t *testing.T) {
	// Column line 0 has bit 0: the edge at row 0 is open, the one at row 1 stitched.
	cols := Pattern{0, 1}
	rows := Pattern{1, 1}
	got := Build(cols, rows, lattice{})

	want := []geom.Segment{
		seg(1, 1, 1, 2), // column line 1, row 1
		seg(0, 1, 1, 1), // row line 1, column 0
	}
	if len(got) != len(want) {
		t.Fatalf("Build() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestBuildCounts(t *testing.T) {
	tests := []struct {
		name       string
		cols, rows Pattern
		want       int
	}{
		{"all zero 2x2", Pattern{0, 0}, Pattern{0, 0}, 2},
		{"all one 2x2", Pattern{1, 1}, Pattern{1, 1}, 2},
		{"all one 3x3", Pattern{1, 1, 1}, Pattern{1, 1, 1}, 8},
		{"all zero 3x3", Pattern{0, 0, 0}, Pattern{0, 0, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(Build(tt.cols, tt.rows, lattice{})); got != tt.want {
				t.Errorf("len(Build()) = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBuildIsSubsetOfGrid(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 5))
	cols, rows := RandomPattern(8, rng), RandomPattern(6, rng)
	m := grid.New(partition.Even(400, 8), partition.Even(400, 6), 400)

	all := make(map[geom.Segment]bool)
	for _, s := range Grid(8, 6, m) {
		all[s] = true
	}
	for _, s := range Build(cols, rows, m) {
		if !all[s] {
			t.Errorf("stitch %v is not a grid edge", s)
		}
	}
}

func TestGridCount(t *testing.T) {
	if got, want := len(Grid(4, 3, lattice{})), 3*3+2*4; got != want {
		t.Errorf("len(Grid(4, 3)) = %d, want %d", got, want)
	}
}

func TestRandomPattern(t *testing.T) {
	p := RandomPattern(64, rand.New(rand.NewPCG(1, 1)))
	if len(p) != 64 {
		t.Fatalf("len = %d, want 64", len(p))
	}
	ones := 0
	for _, b := range p {
		if b != 0 && b != 1 {
			t.Fatalf("bit %d out of range", b)
		}
		ones += b
	}
	if ones == 0 || ones == 64 {
		t.Errorf("pattern %v is constant", p)
	}

	q := RandomPattern(64, rand.New(rand.NewPCG(1, 1)))
	for i := range p {
		if p[i] != q[i] {
			t.Fatal("same seed produced different patterns")
		}
	}
}

func ExampleBuild() {
	segs := Build(Pattern{0, 1}, Pattern{1, 1}, lattice{})
	for _, s := range segs {
		fmt.Println(s.A, s.B)
	}
	// Output:
	// {1 1} {1 2}
	// {0 1} {1 1}
}
