package sink

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"

	"github.com/matzehuels/stitchgrid/pkg/core/geom"
	"github.com/matzehuels/stitchgrid/pkg/core/layout"
	"github.com/matzehuels/stitchgrid/pkg/errors"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
}

// WithPNGSVGOptions applies the stroke and background settings of the SVG
// renderer to the raster output.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = opts }
}

// WithScale sets the PNG scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG rasterizes l onto a canvas. Unlike PDF output it needs no
// external tools. A missing background leaves the canvas transparent.
func RenderPNG(l layout.Layout, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0}
	for _, opt := range opts {
		opt(&r)
	}
	style := newSVGRenderer(r.svgOpts...)

	if err := errors.ValidateCanvas(l.Size, r.scale); err != nil {
		return nil, err
	}
	px := int(math.Ceil(l.Size * r.scale))
	if px <= 0 {
		return nil, fmt.Errorf("png: invalid canvas size %d for scale %g", px, r.scale)
	}
	stroke, err := parseColor(style.stroke)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(px, px)
	defer dc.Close()

	if style.background != "" {
		bg, err := parseColor(style.background)
		if err != nil {
			return nil, err
		}
		dc.ClearWithColor(bg)
	}

	dc.Scale(r.scale, r.scale)
	dc.SetStrokeBrush(gg.Solid(stroke))
	dc.SetLineWidth(style.strokeWidth)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)

	if l.Merged {
		for _, p := range l.Polylines {
			tracePath(dc, p.Points)
		}
	} else {
		for _, s := range l.Segments {
			tracePath(dc, []geom.Point{s.A, s.B})
		}
	}
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("png: stroke: %w", err)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("png: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func tracePath(dc *gg.Context, pts []geom.Point) {
	if len(pts) == 0 {
		return
	}
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
}

// parseColor accepts the same values as the SVG sink: hex colors and SVG
// color keywords.
func parseColor(s string) (gg.RGBA, error) {
	if strings.HasPrefix(s, "#") {
		return gg.Hex(s), nil
	}
	c, ok := colornames.Map[strings.ToLower(s)]
	if !ok {
		return gg.RGBA{}, fmt.Errorf("png: unknown color %q", s)
	}
	return gg.FromColor(c), nil
}
