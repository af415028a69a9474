package server

import (
	"net/url"
	"strconv"

	"github.com/matzehuels/stitchgrid/pkg/errors"
	"github.com/matzehuels/stitchgrid/pkg/pipeline"
)

// queryParser reads typed query parameters, keeping the first error.
type queryParser struct {
	q   url.Values
	err error
}

func (p *queryParser) floatVal(name string, dst *float64) {
	v := p.q.Get(name)
	if v == "" || p.err != nil {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.err = errors.New(errors.ErrCodeInvalidParameters, "invalid %s: %q", name, v)
		return
	}
	*dst = f
}

func (p *queryParser) intVal(name string, dst *int) {
	v := p.q.Get(name)
	if v == "" || p.err != nil {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.err = errors.New(errors.ErrCodeInvalidParameters, "invalid %s: %q", name, v)
		return
	}
	*dst = n
}

func (p *queryParser) uintVal(name string, dst *uint64) {
	v := p.q.Get(name)
	if v == "" || p.err != nil {
		return
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		p.err = errors.New(errors.ErrCodeInvalidParameters, "invalid %s: %q", name, v)
		return
	}
	*dst = n
}

func (p *queryParser) boolVal(name string, dst *bool) {
	v := p.q.Get(name)
	if v == "" || p.err != nil {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.err = errors.New(errors.ErrCodeInvalidParameters, "invalid %s: %q", name, v)
		return
	}
	*dst = b
}

func (p *queryParser) stringVal(name string, dst *string) {
	if v := p.q.Get(name); v != "" {
		*dst = v
	}
}

// layoutOptions overlays the layout parameters of q on opts.
//
// Recognized: size, columns, rows, seed, merge, grid, tolerance, strict.
func layoutOptions(q url.Values, opts *pipeline.Options) error {
	p := queryParser{q: q}
	p.floatVal("size", &opts.Size)
	p.intVal("columns", &opts.Columns)
	p.intVal("rows", &opts.Rows)
	p.uintVal("seed", &opts.Seed)
	p.floatVal("tolerance", &opts.Tolerance)
	p.boolVal("grid", &opts.GridOnly)
	p.boolVal("strict", &opts.Strict)

	merge := opts.ShouldMerge()
	p.boolVal("merge", &merge)
	opts.SkipMerge = !merge

	return p.err
}

// styleOptions overlays the render parameters of q on opts.
//
// Recognized: stroke, stroke_width, background, scale.
func styleOptions(q url.Values, opts *pipeline.Options) error {
	p := queryParser{q: q}
	p.stringVal("stroke", &opts.Stroke)
	p.floatVal("stroke_width", &opts.StrokeWidth)
	p.stringVal("background", &opts.Background)
	p.floatVal("scale", &opts.Scale)
	return p.err
}
