package sink

import (
	"bytes"
	"fmt"

	"github.com/matzehuels/stitchgrid/pkg/core/geom"
	"github.com/matzehuels/stitchgrid/pkg/core/layout"
)

const (
	DefaultStroke      = "black"
	DefaultStrokeWidth = 1.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	stroke      string
	strokeWidth float64
	background  string
}

func WithStroke(color string) SVGOption     { return func(r *svgRenderer) { r.stroke = color } }
func WithStrokeWidth(w float64) SVGOption   { return func(r *svgRenderer) { r.strokeWidth = w } }
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// RenderSVG writes l as a square SVG document. Merged layouts are drawn as
// polylines, unmerged ones as individual lines.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %g %g" width="%g" height="%g">`+"\n",
		l.Size, l.Size, l.Size, l.Size)

	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", r.background)
	}

	fmt.Fprintf(&buf, `  <g fill="none" stroke="%s" stroke-width="%g" stroke-linecap="round" stroke-linejoin="round">`+"\n",
		r.stroke, r.strokeWidth)
	if l.Merged {
		for _, p := range l.Polylines {
			renderPolyline(&buf, p.Points)
		}
	} else {
		for _, s := range l.Segments {
			fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", s.A.X, s.A.Y, s.B.X, s.B.Y)
		}
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{stroke: DefaultStroke, strokeWidth: DefaultStrokeWidth}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func renderPolyline(buf *bytes.Buffer, pts []geom.Point) {
	buf.WriteString(`    <polyline points="`)
	for _, p := range pts {
		fmt.Fprintf(buf, "%.2f,%.2f ", p.X, p.Y)
	}
	buf.WriteString(`"/>` + "\n")
}
