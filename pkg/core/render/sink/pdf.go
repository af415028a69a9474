package sink

import (
	"github.com/matzehuels/stitchgrid/pkg/core/layout"
	"github.com/matzehuels/stitchgrid/pkg/core/render"
)

// PDFOption configures RenderPDF.
type PDFOption func(*[]SVGOption)

// WithPDFSVGOptions styles the SVG document that is converted to PDF.
func WithPDFSVGOptions(opts ...SVGOption) PDFOption {
	return func(svg *[]SVGOption) { *svg = append(*svg, opts...) }
}

// RenderPDF converts the SVG rendering of l to PDF with rsvg-convert, so the
// page matches the SVG output exactly. It fails with UNSUPPORTED when
// rsvg-convert is not installed.
func RenderPDF(l layout.Layout, opts ...PDFOption) ([]byte, error) {
	var svg []SVGOption
	for _, opt := range opts {
		opt(&svg)
	}
	return render.ToPDF(RenderSVG(l, svg...))
}
