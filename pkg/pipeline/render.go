package pipeline

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/matzehuels/stitchgrid/pkg/core/layout"
	"github.com/matzehuels/stitchgrid/pkg/core/render/sink"
	"github.com/matzehuels/stitchgrid/pkg/errors"
	pkgio "github.com/matzehuels/stitchgrid/pkg/io"
)

// Render generates output artifacts in the requested formats.
func Render(l layout.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	// The layout's size wins over opts.Size for documents read from disk.
	if slices.Contains(opts.Formats, FormatPNG) {
		if err := errors.ValidateCanvas(l.Size, opts.Scale); err != nil {
			return nil, err
		}
	}

	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(l, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(l, sink.WithJSONSeed(opts.Seed))
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// buildSVGOptions builds the style options shared by every vector sink.
func buildSVGOptions(opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{
		sink.WithStroke(opts.Stroke),
		sink.WithStrokeWidth(opts.StrokeWidth),
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, sink.WithBackground(opts.Background))
	}
	return svgOpts
}

// RenderFromLayoutData renders output from an exported layout document.
// This is useful when the layout was generated elsewhere, e.g. by an
// earlier "render -f json". The document's seed is carried over unless opts
// sets one.
func RenderFromLayoutData(layoutData []byte, opts Options) (map[string][]byte, error) {
	doc, err := pkgio.ReadJSON(bytes.NewReader(layoutData))
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if opts.Seed == 0 {
		opts.Seed = doc.Seed
	}
	return Render(doc.Layout, opts)
}
