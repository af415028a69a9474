// Package pkg provides the core libraries for stitchgrid.
//
// # Overview
//
// Stitchgrid draws a square crossed by two families of near-parallel lines, a
// warped grid, and weaves a stitch pattern through it: a subset of the grid
// edges, chosen by two random binary patterns, merged into long polylines.
// The pkg directory is organized into three areas:
//
//  1. [core] - Domain logic (partitions, grid mapping, stitches, merging, sinks)
//  2. [pipeline] - Orchestration (generate → render) with caching
//  3. Infrastructure - [cache], [gallery], [errors], [observability]
//
// # Architecture
//
// The data flow for one picture:
//
//	seed
//	  ↓
//	[core/partition] (skewed, mutated offsets per axis)
//	  ↓
//	[core/grid] (intersection points of the two families)
//	  ↓
//	[core/stitch] (segments selected by the column and row patterns)
//	  ↓
//	[core/polyline] (segments joined at shared endpoints)
//	  ↓
//	[core/render/sink] (SVG/PNG/PDF/JSON)
//
// [core/layout] runs the first four steps and returns a [layout.Layout].
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/stitchgrid/pkg/core/layout"
//	    "github.com/matzehuels/stitchgrid/pkg/core/render/sink"
//	    "github.com/matzehuels/stitchgrid/pkg/pipeline"
//	)
//
//	l := layout.Build(800, pipeline.NewSource(42),
//	    layout.WithColumns(20, layout.DefaultColumnOptions(800)),
//	    layout.WithRows(20, layout.DefaultRowOptions(800)),
//	    layout.WithMerge(true),
//	)
//	svg := sink.RenderSVG(l, sink.WithStroke("#1d3557"))
//
// The same picture through the pipeline, with defaults and caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Seed: 42})
//
// # Main Packages
//
// [core/partition] - One axis of the warped grid. Offsets start evenly
// spaced, are skewed around a random centre and then nudged by random
// mutations that keep a minimum spacing.
//
// [core/grid] - Maps integer (column, row) indices to the intersection of
// a column line and a row line.
//
// [core/stitch] - Random binary patterns and the segment selection they
// drive; [stitch.Grid] selects every edge instead.
//
// [core/polyline] - Greedy merging of segments into polylines, exact or
// within a tolerance.
//
// [core/render/sink] - Output formats. SVG is written directly; PNG is
// rasterized with gogpu/gg; PDF goes through rsvg-convert.
//
// [io] - The JSON layout document written by the json format and read back
// by "render --from" and POST /render/{format}.
//
// [cache] - Content-addressed caching of layouts and artifacts: file, Redis
// and null backends behind one interface.
//
// [gallery] - Saved patterns: memory, file and MongoDB stores.
//
// # Testing
//
//	go test ./...                 # All tests
//	go test ./pkg/core/...        # Core algorithms
//	go test -run Example ./pkg/...
//
// PDF tests skip themselves when rsvg-convert is not installed.
//
// [core]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/core
// [core/partition]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/core/partition
// [core/grid]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/core/grid
// [core/stitch]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/core/stitch
// [core/polyline]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/core/polyline
// [core/layout]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/core/layout
// [core/render/sink]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/core/render/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/cache
// [gallery]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/gallery
// [errors]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/observability
// [layout.Layout]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/core/layout#Layout
// [stitch.Grid]: https://pkg.go.dev/github.com/matzehuels/stitchgrid/pkg/core/stitch#Grid
package pkg
