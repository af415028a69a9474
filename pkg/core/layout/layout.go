package layout

import (
	"slices"

	"github.com/matzehuels/stitchgrid/pkg/core/geom"
	"github.com/matzehuels/stitchgrid/pkg/core/grid"
	"github.com/matzehuels/stitchgrid/pkg/core/partition"
	"github.com/matzehuels/stitchgrid/pkg/core/polyline"
	"github.com/matzehuels/stitchgrid/pkg/core/stitch"
)

// DefaultCount is the default number of columns and rows.
const DefaultCount = 17

// Layout is a generated stitch picture.
type Layout struct {
	Size          float64             `json:"size"`
	Columns       partition.Partition `json:"columns"`
	Rows          partition.Partition `json:"rows"`
	ColumnPattern stitch.Pattern      `json:"column_pattern,omitempty"`
	RowPattern    stitch.Pattern      `json:"row_pattern,omitempty"`
	Segments      []geom.Segment      `json:"segments"`
	Polylines     []polyline.Polyline `json:"polylines,omitempty"`
	Merged        bool                `json:"merged"`
	GridOnly      bool                `json:"grid_only,omitempty"`
}

// Clone returns a copy of l that shares no slices with it.
func (l Layout) Clone() Layout {
	l.Columns = l.Columns.Clone()
	l.Rows = l.Rows.Clone()
	l.ColumnPattern = slices.Clone(l.ColumnPattern)
	l.RowPattern = slices.Clone(l.RowPattern)
	l.Segments = slices.Clone(l.Segments)
	if l.Polylines != nil {
		lines := make([]polyline.Polyline, len(l.Polylines))
		for i, p := range l.Polylines {
			lines[i] = polyline.Polyline{Points: slices.Clone(p.Points)}
		}
		l.Polylines = lines
	}
	return l
}

// Mapping returns the grid mapping of l.
func (l Layout) Mapping() grid.Mapping {
	return grid.New(l.Columns, l.Rows, l.Size)
}

// DefaultColumnOptions returns the column partition options of the classic
// picture for the given size: a skewed centre, one to three fifths of a cell
// of deviation, 500 mutations and a spacing of size/45.
func DefaultColumnOptions(size float64) partition.Options {
	return partition.Options{
		CentreVariation: 0.5,
		MinDeviation:    0.2,
		MaxDeviation:    0.6,
		Mutations:       500,
		MinDistance:     size / 45,
		Step:            1,
	}
}

// DefaultRowOptions returns the row partition options of the classic picture:
// unskewed, shaped by mutations only.
func DefaultRowOptions(size float64) partition.Options {
	return partition.Options{
		Mutations:   500,
		MinDistance: size / 45,
		Step:        1,
	}
}

// Option configures [Build].
type Option func(*builder)

type builder struct {
	columns, rows       int
	columnOpts, rowOpts partition.Options
	gridOnly            bool
	merge               bool
	tolerance           float64
}

// WithColumns sets the column count and partition options.
func WithColumns(n int, opts partition.Options) Option {
	return func(b *builder) { b.columns, b.columnOpts = n, opts }
}

// WithRows sets the row count and partition options.
func WithRows(n int, opts partition.Options) Option {
	return func(b *builder) { b.rows, b.rowOpts = n, opts }
}

// WithGridOnly emits every interior grid edge. No patterns are drawn.
func WithGridOnly() Option { return func(b *builder) { b.gridOnly = true } }

// WithMerge enables or disables polyline merging.
func WithMerge(merge bool) Option { return func(b *builder) { b.merge = merge } }

// WithTolerance sets the endpoint tolerance used when merging.
func WithTolerance(eps float64) Option { return func(b *builder) { b.tolerance = eps } }

// Build generates a picture of side size, drawing all randomness from src.
// Parameters are not validated; see the pipeline package for that.
func Build(size float64, src geom.Source, opts ...Option) Layout {
	b := builder{
		columns:    DefaultCount,
		rows:       DefaultCount,
		columnOpts: DefaultColumnOptions(size),
		rowOpts:    DefaultRowOptions(size),
		merge:      true,
	}
	for _, opt := range opts {
		opt(&b)
	}

	l := Layout{
		Size:     size,
		Columns:  partition.New(size, b.columns, b.columnOpts, src),
		Rows:     partition.New(size, b.rows, b.rowOpts, src),
		Merged:   b.merge,
		GridOnly: b.gridOnly,
	}
	m := l.Mapping()

	if b.gridOnly {
		l.Segments = stitch.Grid(b.columns, b.rows, m)
	} else {
		l.ColumnPattern = stitch.RandomPattern(b.columns, src)
		l.RowPattern = stitch.RandomPattern(b.rows, src)
		l.Segments = stitch.Build(l.ColumnPattern, l.RowPattern, m)
	}

	if b.merge {
		l.Polylines = polyline.Merge(l.Segments, polyline.WithTolerance(b.tolerance))
	}
	return l
}
