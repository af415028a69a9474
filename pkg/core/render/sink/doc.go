// Package sink provides output format renderers for stitch layouts.
//
// # Overview
//
// A "sink" transforms a computed [layout.Layout] into a final output format.
// This package provides renderers for:
//
//   - SVG: the vector picture, one polyline per merged stitch run
//   - PNG: a raster canvas drawn with gogpu/gg, no external tools needed
//   - PDF: print-ready output (requires rsvg-convert)
//   - JSON: the full layout for re-import and external tools
//
// # SVG Output
//
// [RenderSVG] writes a square document of the layout size. Merged layouts
// are drawn as <polyline> elements, unmerged ones as one <line> per segment:
//
//	svg := sink.RenderSVG(l,
//	    sink.WithStroke("#333"),
//	    sink.WithStrokeWidth(1.5),
//	    sink.WithBackground("white"),
//	)
//
// The stroke defaults to black at width 1 on a transparent background.
//
// # PNG Output
//
// [RenderPNG] draws the same geometry on a [gg.Context]. Stroke settings come
// from SVG options so both outputs match:
//
//	png, err := sink.RenderPNG(l,
//	    sink.WithScale(2),
//	    sink.WithPNGSVGOptions(sink.WithBackground("white")),
//	)
//
// # PDF Output
//
// [RenderPDF] renders SVG first, then converts via [render.ToPDF]. This
// requires librsvg to be installed:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// # JSON Output
//
// [RenderJSON] exports partitions, patterns, segments and polylines.
// [WithJSONSeed] records the generation seed alongside.
//
// [layout.Layout]: github.com/matzehuels/stitchgrid/pkg/core/layout.Layout
// [render.ToPDF]: github.com/matzehuels/stitchgrid/pkg/core/render.ToPDF
// [gg.Context]: github.com/gogpu/gg.Context
package sink
