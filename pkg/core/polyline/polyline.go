// Package polyline merges segments that share endpoints into maximal
// connected polylines.
package polyline

import (
	"slices"

	"github.com/matzehuels/stitchgrid/pkg/core/geom"
)

// Polyline is an ordered sequence of points. It owns its point slice; Join
// mutates it in place.
type Polyline struct {
	Points []geom.Point `json:"points"`
}

// FromSegment returns a two-point polyline for s.
func FromSegment(s geom.Segment) *Polyline {
	return &Polyline{Points: []geom.Point{s.A, s.B}}
}

// First returns the first point of p.
func (p *Polyline) First() geom.Point { return p.Points[0] }

// Last returns the last point of p.
func (p *Polyline) Last() geom.Point { return p.Points[len(p.Points)-1] }

// Join appends other to p when the two share an endpoint, reversing other as
// needed, and reports whether it did. Endpoints are compared exactly.
func (p *Polyline) Join(other *Polyline) bool {
	return p.join(other, 0)
}

func (p *Polyline) join(other *Polyline, eps float64) bool {
	pts, o := p.Points, other.Points
	switch {
	case p.Last().Near(other.First(), eps):
		p.Points = append(pts, o[1:]...)
	case p.Last().Near(other.Last(), eps):
		p.Points = append(pts, reversed(o[:len(o)-1])...)
	case other.Last().Near(p.First(), eps):
		joined := make([]geom.Point, 0, len(o)+len(pts)-1)
		joined = append(joined, o...)
		p.Points = append(joined, pts[1:]...)
	case p.First().Near(other.First(), eps):
		joined := reversed(o[1:])
		p.Points = append(joined, pts...)
	default:
		return false
	}
	return true
}

func reversed(pts []geom.Point) []geom.Point {
	r := slices.Clone(pts)
	slices.Reverse(r)
	return r
}

// Option configures [Merge].
type Option func(*merger)

type merger struct {
	eps float64
}

// WithTolerance makes endpoints within eps of each other on both axes count as
// shared. The default of zero requires bit-identical coordinates.
func WithTolerance(eps float64) Option {
	return func(m *merger) { m.eps = eps }
}

// Merge turns every segment into a polyline and joins polylines until a full
// pass over all pairs makes no join. Every segment ends up in exactly one of
// the returned polylines.
func Merge(segs []geom.Segment, opts ...Option) []Polyline {
	lines := make([]*Polyline, len(segs))
	for i, s := range segs {
		lines[i] = FromSegment(s)
	}
	return merge(lines, opts)
}

// MergePolylines joins already built polylines the same way as [Merge]. The
// input is not modified. Applied to the output of Merge it returns an equal
// list.
func MergePolylines(in []Polyline, opts ...Option) []Polyline {
	lines := make([]*Polyline, len(in))
	for i := range in {
		lines[i] = &Polyline{Points: slices.Clone(in[i].Points)}
	}
	return merge(lines, opts)
}

func merge(lines []*Polyline, opts []Option) []Polyline {
	m := merger{}
	for _, opt := range opts {
		opt(&m)
	}

	if m.eps <= 0 {
		lines = mergeIndexed(lines)
	} else {
		lines = mergePairwise(lines, m.eps)
	}

	out := make([]Polyline, len(lines))
	for i, l := range lines {
		out[i] = *l
	}
	return out
}

// mergePairwise repeats passes over all pairs (i, j), i < j, joining j into i
// and dropping it, until a pass makes no join.
func mergePairwise(lines []*Polyline, eps float64) []*Polyline {
	for joined := true; joined; {
		joined = false
		for i := 0; i < len(lines); i++ {
			for j := i + 1; j < len(lines); j++ {
				if lines[i].join(lines[j], eps) {
					lines = slices.Delete(lines, j, j+1)
					j--
					joined = true
				}
			}
		}
	}
	return lines
}

// mergeIndexed gives the same result as mergePairwise with a zero tolerance.
// Instead of trying every j after i it looks up the next line that has an
// endpoint in common with i, so a pass costs about one lookup per join.
func mergeIndexed(lines []*Polyline) []*Polyline {
	ends := make(map[geom.Point][]int, 2*len(lines))
	for k, l := range lines {
		ends[l.First()] = append(ends[l.First()], k)
		ends[l.Last()] = append(ends[l.Last()], k)
	}
	alive := make([]bool, len(lines))
	for k := range alive {
		alive[k] = true
	}

	// next returns the lowest live line after cursor with an endpoint at pt.
	// Entries for dropped lines or endpoints that moved are pruned on the way.
	next := func(pt geom.Point, cursor int) int {
		found := -1
		ks := ends[pt][:0]
		for _, k := range ends[pt] {
			if !alive[k] || (!lines[k].First().Equal(pt) && !lines[k].Last().Equal(pt)) || slices.Contains(ks, k) {
				continue
			}
			ks = append(ks, k)
			if k > cursor && (found < 0 || k < found) {
				found = k
			}
		}
		ends[pt] = ks
		return found
	}

	for joined := true; joined; {
		joined = false
		for i := range lines {
			if !alive[i] {
				continue
			}
			p := lines[i]
			for cursor := i; ; {
				j := next(p.First(), cursor)
				if k := next(p.Last(), cursor); k >= 0 && (j < 0 || k < j) {
					j = k
				}
				if j < 0 {
					break
				}
				p.join(lines[j], 0)
				alive[j] = false
				ends[p.First()] = append(ends[p.First()], i)
				ends[p.Last()] = append(ends[p.Last()], i)
				cursor = j
				joined = true
			}
		}
	}

	kept := lines[:0]
	for k, l := range lines {
		if alive[k] {
			kept = append(kept, l)
		}
	}
	return kept
}
