// Package layout composes the core packages into one stitch picture.
//
// # Overview
//
// [Build] runs the whole generation for a square picture:
//
//  1. Partition the columns and then the rows with [partition.New].
//  2. Map grid positions to picture coordinates with a [grid.Mapping].
//  3. Draw a column and a row [stitch.Pattern] and select the stitched edges
//     with [stitch.Build], or take every interior edge with [stitch.Grid].
//  4. Optionally merge the segments into polylines with [polyline.Merge].
//
// The returned [Layout] carries both partitions, both patterns and the final
// geometry, so sinks and exports never need to recompute anything.
//
// # Determinism
//
// All randomness is drawn from the [geom.Source] passed to Build, in the order
// listed above. Two builds with equally seeded sources and the same options
// produce bit-identical layouts:
//
//	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
//	l := layout.Build(800, rng,
//	    layout.WithColumns(17, colOpts),
//	    layout.WithRows(17, rowOpts),
//	)
//
// # Options
//
//   - [WithColumns]: column count and partition options (default 17, [DefaultColumnOptions])
//   - [WithRows]: row count and partition options (default 17, [DefaultRowOptions])
//   - [WithGridOnly]: emit the bare warped grid instead of stitches
//   - [WithMerge]: merge segments into polylines (default on)
//   - [WithTolerance]: endpoint tolerance for merging (default exact)
//
// The row defaults keep every line at least size/45 apart. The column
// defaults skew before mutating, and for about 1% of seeds the skew alone
// brings the first or last internal line closer than that to the boundary.
// Callers that need the spacing, such as strict mode in the pipeline, run
// [partition.Check] on the result.
//
// [partition.New]: github.com/matzehuels/stitchgrid/pkg/core/partition.New
// [partition.Check]: github.com/matzehuels/stitchgrid/pkg/core/partition.Check
// [grid.Mapping]: github.com/matzehuels/stitchgrid/pkg/core/grid.Mapping
// [stitch.Pattern]: github.com/matzehuels/stitchgrid/pkg/core/stitch.Pattern
// [stitch.Build]: github.com/matzehuels/stitchgrid/pkg/core/stitch.Build
// [stitch.Grid]: github.com/matzehuels/stitchgrid/pkg/core/stitch.Grid
// [polyline.Merge]: github.com/matzehuels/stitchgrid/pkg/core/polyline.Merge
// [geom.Source]: github.com/matzehuels/stitchgrid/pkg/core/geom.Source
package layout
