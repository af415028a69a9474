// Package render turns stitch layouts into output documents.
//
// The sinks live in the [sink] subpackage. This package holds the format
// conversion they share: [ToPDF] converts an SVG document to PDF with the
// external rsvg-convert tool (from librsvg).
//
//	svg := sink.RenderSVG(l)
//	pdf, err := render.ToPDF(svg)
//
// [sink]: github.com/matzehuels/stitchgrid/pkg/core/render/sink
package render
