// Package pipeline provides the generation pipeline for stitchgrid.
//
// This package implements the complete generate → render pipeline that is
// shared by the CLI and the HTTP server. Defaults, validation and caching
// live here so that every entry point produces the same picture for the
// same options.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Generate: partition both axes, pick the stitch patterns and merge the
//     selected segments into polylines ([layout.Build])
//  2. Render: turn the layout into SVG, PNG, PDF or JSON
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Size:    800,
//	    Seed:    7,
//	    Formats: []string{"svg", "png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Generate only
//	l, err := runner.GenerateLayout(ctx, opts)
//
//	// Render an existing layout
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stitchgrid/pkg/cache"
	"github.com/matzehuels/stitchgrid/pkg/core/layout"
	"github.com/matzehuels/stitchgrid/pkg/core/partition"
	"github.com/matzehuels/stitchgrid/pkg/core/render/sink"
	"github.com/matzehuels/stitchgrid/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultSize is the default picture side in pixels.
	DefaultSize = 800.0

	// DefaultCount is the default number of columns and rows.
	DefaultCount = layout.DefaultCount

	// DefaultSeed is the seed used when none is given. Zero is not a valid
	// seed; it always means "use the default".
	DefaultSeed = uint64(42)

	// DefaultStroke is the default line color.
	DefaultStroke = sink.DefaultStroke

	// DefaultStrokeWidth is the default line width in picture units.
	DefaultStrokeWidth = sink.DefaultStrokeWidth

	// DefaultScale is the default PNG pixel density.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ContentTypes maps each output format to its MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests and TOML decoding
// for config files.
type Options struct {
	// Layout options
	Size            float64            `json:"size,omitempty" toml:"size"`
	Columns         int                `json:"columns,omitempty" toml:"columns"`
	Rows            int                `json:"rows,omitempty" toml:"rows"`
	ColumnPartition *partition.Options `json:"column_partition,omitempty" toml:"column_partition"` // nil: layout.DefaultColumnOptions
	RowPartition    *partition.Options `json:"row_partition,omitempty" toml:"row_partition"`       // nil: layout.DefaultRowOptions
	Seed            uint64             `json:"seed,omitempty" toml:"seed"`
	SkipMerge       bool               `json:"skip_merge,omitempty" toml:"skip_merge"` // Keep raw segments (default: false = merge)
	GridOnly        bool               `json:"grid_only,omitempty" toml:"grid_only"`   // Draw the whole warped grid instead of stitches
	Tolerance       float64            `json:"tolerance,omitempty" toml:"tolerance"`   // Endpoint tolerance for merging (0: exact)
	Strict          bool               `json:"strict,omitempty" toml:"strict"`         // Reject layouts whose partitions violate the spacing
	Refresh         bool               `json:"refresh,omitempty" toml:"-"`

	// Render options
	Formats     []string `json:"formats,omitempty" toml:"formats"`
	Stroke      string   `json:"stroke,omitempty" toml:"stroke"`
	StrokeWidth float64  `json:"stroke_width,omitempty" toml:"stroke_width"`
	Background  string   `json:"background,omitempty" toml:"background"`
	Scale       float64  `json:"scale,omitempty" toml:"scale"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-" toml:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the generated picture.
	Layout layout.Layout

	// LayoutHash is the content hash of the encoded layout.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	SegmentCount  int
	PolylineCount int
	GenerateTime  time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidatePartition checks one axis: its count and its partition options
// against the picture size.
func ValidatePartition(axis string, n int, opts partition.Options, size float64) error {
	if err := errors.ValidateCount(axis, n); err != nil {
		return err
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"centre variation", opts.CentreVariation},
		{"min deviation", opts.MinDeviation},
		{"max deviation", opts.MaxDeviation},
		{"step", opts.Step},
	} {
		if err := errors.ValidateFraction(axis+" "+f.name, f.v); err != nil {
			return err
		}
	}
	if opts.CentreVariation > 1 {
		return errors.New(errors.ErrCodeInvalidParameters, "%s centre variation must be <= 1, got %g", axis, opts.CentreVariation)
	}
	if opts.MinDeviation > opts.MaxDeviation {
		return errors.New(errors.ErrCodeInvalidParameters,
			"%s min deviation %g exceeds max deviation %g", axis, opts.MinDeviation, opts.MaxDeviation)
	}
	if err := errors.ValidateMutations(axis, opts.Mutations); err != nil {
		return err
	}
	return errors.ValidateMinDistance(opts.MinDistance, size, n)
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks every field and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout generation.
// Partition options are derived from the size, so Size is settled first.
func (o *Options) SetLayoutDefaults() {
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Columns == 0 {
		o.Columns = DefaultCount
	}
	if o.Rows == 0 {
		o.Rows = DefaultCount
	}
	if o.ColumnPartition == nil {
		opts := layout.DefaultColumnOptions(o.Size)
		o.ColumnPartition = &opts
	}
	if o.RowPartition == nil {
		opts := layout.DefaultRowOptions(o.Size)
		o.RowPartition = &opts
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout generation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := errors.ValidateSize(o.Size); err != nil {
		return err
	}
	if err := ValidatePartition("columns", o.Columns, *o.ColumnPartition, o.Size); err != nil {
		return err
	}
	if err := ValidatePartition("rows", o.Rows, *o.RowPartition, o.Size); err != nil {
		return err
	}
	if err := errors.ValidateCells(o.Columns, o.Rows); err != nil {
		return err
	}
	return errors.ValidateFraction("tolerance", o.Tolerance)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Stroke == "" {
		o.Stroke = DefaultStroke
	}
	if o.StrokeWidth == 0 {
		o.StrokeWidth = DefaultStrokeWidth
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateColor(o.Stroke); err != nil {
		return err
	}
	if o.Background != "" {
		if err := errors.ValidateColor(o.Background); err != nil {
			return err
		}
	}
	if !(o.StrokeWidth > 0) {
		return errors.New(errors.ErrCodeInvalidParameters, "stroke width must be positive, got %g", o.StrokeWidth)
	}
	if !(o.Scale > 0) || o.Scale > 8 {
		return errors.New(errors.ErrCodeInvalidParameters, "scale must be in (0, 8], got %g", o.Scale)
	}
	if o.Size > 0 && slices.Contains(o.Formats, FormatPNG) {
		return errors.ValidateCanvas(o.Size, o.Scale)
	}
	return nil
}

// Clone returns a copy of o that shares no partition options or formats
// with it, so that decoding into the copy leaves o untouched.
func (o Options) Clone() Options {
	if o.ColumnPartition != nil {
		cp := *o.ColumnPartition
		o.ColumnPartition = &cp
	}
	if o.RowPartition != nil {
		cp := *o.RowPartition
		o.RowPartition = &cp
	}
	o.Formats = slices.Clone(o.Formats)
	return o
}

// ShouldMerge returns whether segments are merged into polylines.
func (o *Options) ShouldMerge() bool {
	return !o.SkipMerge
}

// LayoutKeyOpts returns cache key options for layout generation.
// Defaults must have been applied.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Size:            o.Size,
		Columns:         o.Columns,
		Rows:            o.Rows,
		ColumnPartition: *o.ColumnPartition,
		RowPartition:    *o.RowPartition,
		Seed:            o.Seed,
		Merge:           o.ShouldMerge(),
		GridOnly:        o.GridOnly,
		Tolerance:       o.Tolerance,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:      format,
		Stroke:      o.Stroke,
		StrokeWidth: o.StrokeWidth,
		Background:  o.Background,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
