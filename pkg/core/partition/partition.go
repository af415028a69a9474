package partition

import (
	"math"
	"slices"

	"github.com/matzehuels/stitchgrid/pkg/core/geom"
	"github.com/matzehuels/stitchgrid/pkg/errors"
)

// Partition is a family of near-parallel lines crossing a square.
// Top[i] and Bottom[i] are the two intercepts of line i; for a row partition
// they are read as the left and right intercepts.
type Partition struct {
	Top    []float64 `json:"top"`
	Bottom []float64 `json:"bottom"`
}

// Len returns the number of lines, including the two boundary lines.
func (p Partition) Len() int { return len(p.Top) }

// Clone returns a deep copy of p.
func (p Partition) Clone() Partition {
	return Partition{Top: slices.Clone(p.Top), Bottom: slices.Clone(p.Bottom)}
}

// Options configures [New]. The zero value is not the default; use
// [DefaultOptions] and override fields as needed.
type Options struct {
	// CentreVariation is the width of the interval the group centre is drawn
	// from, around 0.5. Zero keeps the centre in the middle.
	CentreVariation float64 `json:"centre_variation" toml:"centre_variation"`

	// MinDeviation and MaxDeviation bound the group deviation in cells.
	MinDeviation float64 `json:"min_deviation" toml:"min_deviation"`
	MaxDeviation float64 `json:"max_deviation" toml:"max_deviation"`

	// Mutations is the number of random local nudges applied after skewing.
	Mutations int `json:"mutations" toml:"mutations"`

	// MinDistance is the spacing every mutation must preserve between
	// neighbouring intercepts and to the boundaries.
	MinDistance float64 `json:"min_distance" toml:"min_distance"`

	// Step is the size of a single nudge. Default: 1.
	Step float64 `json:"step,omitempty" toml:"step"`
}

// DefaultOptions returns an unskewed, unmutated configuration with a
// MaxDeviation of one cell.
func DefaultOptions() Options {
	return Options{MaxDeviation: 1, Step: 1}
}

// New generates a partition of length into numPartitions cells.
//
// numPartitions must be at least 2. Parameters are not validated: a
// MinDistance that leaves no room, or deviations larger than a cell, yield
// unordered offsets rather than an error. All randomness is drawn from rng.
func New(length float64, numPartitions int, opts Options, rng geom.Source) Partition {
	if opts.Step == 0 {
		opts.Step = 1
	}
	g := newGenerator(length, numPartitions-1, opts, rng)
	g.skew()
	for range opts.Mutations {
		g.mutate()
	}
	return g.close()
}

// Even returns the unskewed partition: offset i is length*i/numPartitions on
// both intercepts.
func Even(length float64, numPartitions int) Partition {
	top := make([]float64, numPartitions+1)
	for i := 1; i < numPartitions; i++ {
		top[i] = length * float64(i) / float64(numPartitions)
	}
	top[numPartitions] = length
	return Partition{Top: top, Bottom: slices.Clone(top)}
}

// Check reports the first place where p is not strictly increasing or where
// two neighbouring intercepts are closer than minDistance. Spacing is compared
// with a relative tolerance of 1e-9, so lines pushed to exactly minDistance
// pass. It returns an [errors.ErrCodeInvalidPartition] error or nil.
func Check(p Partition, minDistance float64) error {
	if len(p.Top) != len(p.Bottom) {
		return errors.New(errors.ErrCodeInvalidPartition,
			"intercept counts differ: top %d, bottom %d", len(p.Top), len(p.Bottom))
	}
	for _, side := range []struct {
		name    string
		offsets []float64
	}{{"top", p.Top}, {"bottom", p.Bottom}} {
		for i := 1; i < len(side.offsets); i++ {
			gap := side.offsets[i] - side.offsets[i-1]
			if !(gap > 0) {
				return errors.New(errors.ErrCodeInvalidPartition,
					"%s offsets not increasing at %d: %g after %g", side.name, i, side.offsets[i], side.offsets[i-1])
			}
			if gap < minDistance*(1-1e-9) {
				return errors.New(errors.ErrCodeInvalidPartition,
					"%s offsets %d and %d are %g apart, want >= %g", side.name, i-1, i, gap, minDistance)
			}
		}
	}
	return nil
}

// generator holds the internal lines only; the boundary lines are fixed and
// added by close.
type generator struct {
	length     float64
	n          int // internal lines
	opts       Options
	rng        geom.Source
	top        []float64
	bottom     []float64
	deviations []int
}

func newGenerator(length float64, n int, opts Options, rng geom.Source) *generator {
	return &generator{
		length:     length,
		n:          n,
		opts:       opts,
		rng:        rng,
		top:        make([]float64, n),
		bottom:     make([]float64, n),
		deviations: make([]int, n),
	}
}

func (g *generator) skew() {
	n := float64(g.n)
	cellSize := g.length / n
	cv := g.opts.CentreVariation
	centre := 0.5 + g.rng.Float64()*cv - cv/2

	leftSkew := 4 * min(centre, 0.5)
	leftDeviation := cellSize * g.deviation(leftSkew)
	rightSkew := 4 * (1 - max(centre, 0.5))
	rightDeviation := cellSize * g.deviation(rightSkew)

	left := int(math.Round(n * centre))
	right := g.n - left

	for i := range left {
		d := -leftDeviation * float64(left-i) / float64(left)
		g.place(i, d)
	}
	for i := left; i < g.n; i++ {
		d := rightDeviation * float64(i-left) / float64(right)
		g.place(i, d)
	}
}

// deviation draws a group deviation in cells for the given skew factor.
func (g *generator) deviation(skew float64) float64 {
	lo := max(2*g.opts.MinDeviation, g.opts.MinDeviation*skew)
	hi := min(2*g.opts.MaxDeviation, g.opts.MaxDeviation*skew)
	return g.rng.Float64()*(hi-lo) + lo
}

func (g *generator) place(i int, deviation float64) {
	offset := g.length * float64(i+1) / float64(g.n+1)
	g.top[i] = offset + deviation/2
	g.bottom[i] = offset - deviation/2
}

// mutate applies one nudge and reports whether it was kept.
func (g *generator) mutate() bool {
	if g.n == 0 {
		return false
	}
	index := int(g.rng.Float64() * float64(g.n))
	onTop, shift := g.direction(index)

	values := g.side(onTop)
	value := values[index] + shift
	if g.fits(values, index, value) {
		values[index] = value
		return true
	}

	// No space: move the other intercept the opposite way.
	onTop, shift = !onTop, -shift
	values = g.side(onTop)
	value = values[index] + shift
	if value < g.opts.MinDistance || value > g.length-g.opts.MinDistance {
		return false
	}
	return g.push(values, index, value, shift)
}

// direction decides which intercept of line index moves and by how much, and
// advances the line's deviation counter. A fresh line picks a random tilt;
// afterwards nudges alternate between the top and the bottom intercept.
func (g *generator) direction(index int) (onTop bool, shift float64) {
	step := g.opts.Step
	d := g.deviations[index]
	if d == 0 {
		shift = step
		if int(g.rng.Float64()*2) == 1 {
			shift = -step
		}
		g.deviations[index] = int(math.Copysign(1, shift))
		return true, shift
	}

	count, dir := d, 1
	if d < 0 {
		count, dir = -d, -1
	}
	onTop = count%2 == 0
	shift = float64(dir) * step
	if !onTop {
		shift = -shift
	}
	g.deviations[index] = (count + 1) * dir
	return onTop, shift
}

func (g *generator) side(onTop bool) []float64 {
	if onTop {
		return g.top
	}
	return g.bottom
}

// fits reports whether value can replace values[index] without breaking the
// spacing to the boundaries or to either neighbour.
func (g *generator) fits(values []float64, index int, value float64) bool {
	lo, hi := 0.0, g.length
	if index > 0 {
		lo = values[index-1]
	}
	if index < len(values)-1 {
		hi = values[index+1]
	}
	d := g.opts.MinDistance
	return value >= d && value <= g.length-d && value >= lo+d && value <= hi-d
}

// push sets values[index] and moves the neighbours in the direction of shift
// until the spacing holds again. On conflict every change is undone.
func (g *generator) push(values []float64, index int, value, shift float64) bool {
	saved := slices.Clone(values)
	values[index] = value
	d := g.opts.MinDistance

	if shift > 0 {
		for j := index + 1; j < len(values) && values[j] < values[j-1]+d; j++ {
			next := values[j-1] + d
			if opposed(g.deviations[j-1], g.deviations[j]) || next > g.length-d {
				copy(values, saved)
				return false
			}
			values[j] = next
		}
		return true
	}

	for j := index - 1; j >= 0 && values[j] > values[j+1]-d; j-- {
		next := values[j+1] - d
		if opposed(g.deviations[j+1], g.deviations[j]) || next < d {
			copy(values, saved)
			return false
		}
		values[j] = next
	}
	return true
}

// opposed reports whether two lines have been tilted in opposite directions.
func opposed(a, b int) bool {
	return (a > 0 && b < 0) || (a < 0 && b > 0)
}

func (g *generator) close() Partition {
	top := make([]float64, 0, g.n+2)
	top = append(top, 0)
	top = append(top, g.top...)
	top = append(top, g.length)

	bottom := make([]float64, 0, g.n+2)
	bottom = append(bottom, 0)
	bottom = append(bottom, g.bottom...)
	bottom = append(bottom, g.length)

	return Partition{Top: top, Bottom: bottom}
}
