package polyline

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/matzehuels/stitchgrid/pkg/core/geom"
	"github.com/matzehuels/stitchgrid/pkg/core/grid"
	"github.com/matzehuels/stitchgrid/pkg/core/partition"
	"github.com/matzehuels/stitchgrid/pkg/core/stitch"
)

var (
	a = geom.Point{X: 0, Y: 0}
	b = geom.Point{X: 1, Y: 0}
	c = geom.Point{X: 1, Y: 1}
	d = geom.Point{X: 2, Y: 1}
)

func equalUpToReversal(got, want []geom.Point) bool {
	if slices.Equal(got, want) {
		return true
	}
	r := slices.Clone(want)
	slices.Reverse(r)
	return slices.Equal(got, r)
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name        string
		this, other []geom.Point
		want        []geom.Point
	}{
		{"end to start", []geom.Point{a, b}, []geom.Point{b, c, d}, []geom.Point{a, b, c, d}},
		{"end to end", []geom.Point{a, b}, []geom.Point{d, c, b}, []geom.Point{a, b, c, d}},
		{"start to end", []geom.Point{c, d}, []geom.Point{a, b, c}, []geom.Point{a, b, c, d}},
		{"start to start", []geom.Point{c, d}, []geom.Point{c, b, a}, []geom.Point{a, b, c, d}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Polyline{Points: slices.Clone(tt.this)}
			other := &Polyline{Points: slices.Clone(tt.other)}
			if !p.Join(other) {
				t.Fatal("Join() = false, want true")
			}
			if !slices.Equal(p.Points, tt.want) {
				t.Errorf("Points = %v, want %v", p.Points, tt.want)
			}
			if !slices.Equal(other.Points, tt.other) {
				t.Errorf("other modified: %v", other.Points)
			}
		})
	}
}

func TestJoinDisjoint(t *testing.T) {
	p := FromSegment(geom.Segment{A: a, B: b})
	if p.Join(FromSegment(geom.Segment{A: c, B: d})) {
		t.Error("Join() of disjoint segments = true")
	}
	if len(p.Points) != 2 {
		t.Errorf("Points = %v, want unchanged", p.Points)
	}
}

func TestMergePath(t *testing.T) {
	orders := [][]geom.Segment{
		{{A: a, B: b}, {A: b, B: c}, {A: c, B: d}},
		{{A: c, B: d}, {A: a, B: b}, {A: b, B: c}},
		{{A: b, B: a}, {A: d, B: c}, {A: c, B: b}},
	}
	for i, segs := range orders {
		got := Merge(segs)
		if len(got) != 1 {
			t.Fatalf("order %d: %d polylines, want 1: %v", i, len(got), got)
		}
		if !equalUpToReversal(got[0].Points, []geom.Point{a, b, c, d}) {
			t.Errorf("order %d: Points = %v, want [A B C D] up to reversal", i, got[0].Points)
		}
	}
}

func TestMergeDisjoint(t *testing.T) {
	got := Merge([]geom.Segment{{A: a, B: b}, {A: c, B: d}})
	if len(got) != 2 {
		t.Fatalf("%d polylines, want 2", len(got))
	}
}

func TestMergeEmpty(t *testing.T) {
	if got := Merge(nil); len(got) != 0 {
		t.Errorf("Merge(nil) = %v", got)
	}
}

func TestMergeTolerance(t *testing.T) {
	bNear := geom.Point{X: 1 + 1e-12, Y: 0}
	segs := []geom.Segment{{A: a, B: b}, {A: bNear, B: c}}

	if got := Merge(segs); len(got) != 2 {
		t.Errorf("exact merge: %d polylines, want 2", len(got))
	}
	if got := Merge(segs, WithTolerance(1e-9)); len(got) != 1 {
		t.Errorf("tolerant merge: %d polylines, want 1", len(got))
	}
}

func gridSegments(seed uint64) []geom.Segment {
	return sizedGridSegments(seed, 500, 12)
}

func sizedGridSegments(seed uint64, size float64, n int) []geom.Segment {
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	cols := partition.New(size, n, partition.Options{CentreVariation: 0.5, MinDeviation: 0.2, MaxDeviation: 0.4, Mutations: 300, MinDistance: 10, Step: 1}, rng)
	rows := partition.New(size, n, partition.Options{Mutations: 300, MinDistance: 10, Step: 1}, rng)
	m := grid.New(cols, rows, size)
	return stitch.Build(stitch.RandomPattern(n, rng), stitch.RandomPattern(n, rng), m)
}

func polylinesOf(segs []geom.Segment) []*Polyline {
	lines := make([]*Polyline, len(segs))
	for i, s := range segs {
		lines[i] = FromSegment(s)
	}
	return lines
}

func TestMergeIndexedMatchesPairwise(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		segs := gridSegments(seed)
		rng := rand.New(rand.NewPCG(seed, 1))
		if seed%2 == 0 {
			rng.Shuffle(len(segs), func(i, j int) { segs[i], segs[j] = segs[j], segs[i] })
		}

		want := mergePairwise(polylinesOf(segs), 0)
		got := mergeIndexed(polylinesOf(segs))
		if len(got) != len(want) {
			t.Fatalf("seed %d: %d polylines, want %d", seed, len(got), len(want))
		}
		for i := range want {
			if !slices.Equal(got[i].Points, want[i].Points) {
				t.Errorf("seed %d: polyline %d = %v, want %v", seed, i, got[i].Points, want[i].Points)
			}
		}
	}
}

func TestMergeIndexedClosedLoop(t *testing.T) {
	segs := []geom.Segment{{A: a, B: b}, {A: b, B: c}, {A: c, B: a}, {A: c, B: d}}

	want := mergePairwise(polylinesOf(segs), 0)
	got := mergeIndexed(polylinesOf(segs))
	if len(got) != len(want) {
		t.Fatalf("%d polylines, want %d", len(got), len(want))
	}
	for i := range want {
		if !slices.Equal(got[i].Points, want[i].Points) {
			t.Errorf("polyline %d = %v, want %v", i, got[i].Points, want[i].Points)
		}
	}
}

func TestMergeLargeGrid(t *testing.T) {
	segs := sizedGridSegments(3, 5000, 128)
	lines := Merge(segs)

	points := 0
	for _, l := range lines {
		points += len(l.Points) - 1
	}
	if points != len(segs) {
		t.Errorf("polylines cover %d segments, want %d", points, len(segs))
	}
}

func TestMergeKeepsEverySegment(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		segs := gridSegments(seed)
		lines := Merge(segs)

		points := 0
		for _, l := range lines {
			points += len(l.Points) - 1
		}
		if points != len(segs) {
			t.Errorf("seed %d: polylines cover %d segments, want %d", seed, points, len(segs))
		}
		if len(lines) >= len(segs) {
			t.Errorf("seed %d: no segments merged (%d polylines)", seed, len(lines))
		}
	}
}

func TestMergeIdempotent(t *testing.T) {
	first := Merge(gridSegments(7))
	second := MergePolylines(first)

	if len(first) != len(second) {
		t.Fatalf("second pass: %d polylines, want %d", len(second), len(first))
	}
	for i := range first {
		if !slices.Equal(first[i].Points, second[i].Points) {
			t.Errorf("polyline %d changed on second pass", i)
		}
	}
}

func ExampleMerge() {
	segs := []geom.Segment{
		{A: geom.Point{X: 0, Y: 0}, B: geom.Point{X: 1, Y: 0}},
		{A: geom.Point{X: 1, Y: 0}, B: geom.Point{X: 1, Y: 1}},
		{A: geom.Point{X: 5, Y: 5}, B: geom.Point{X: 6, Y: 5}},
	}
	for _, p := range Merge(segs) {
		fmt.Println(p.Points)
	}
	// Output:
	// [{0 0} {1 0} {1 1}]
	// [{5 5} {6 5}]
}
