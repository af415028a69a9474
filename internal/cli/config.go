package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stitchgrid/pkg/core/layout"
	"github.com/matzehuels/stitchgrid/pkg/core/partition"
	"github.com/matzehuels/stitchgrid/pkg/errors"
	"github.com/matzehuels/stitchgrid/pkg/pipeline"
)

// Config is the content of a config file:
//
//	[defaults]
//	size = 1200
//	columns = 24
//	stroke = "#223344"
//
//	[defaults.row_partition]
//	mutations = 2000
//
//	[server]
//	addr = ":9000"
//	redis = "redis://localhost:6379/0"
//
// A partition table only overrides the keys it names; the remaining keys keep
// the defaults for the configured size.
type Config struct {
	Defaults pipeline.Options `toml:"defaults"`
	Server   ServerConfig     `toml:"server"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr            string `toml:"addr"`
	Redis           string `toml:"redis"`
	Mongo           string `toml:"mongo"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// loadConfig reads the config file at path. An empty path reads the default
// location, where a missing file is not an error.
func loadConfig(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return Config{}, nil
		}
		path = filepath.Join(dir, configFile)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	size := cfg.Defaults.Size
	if size == 0 {
		size = pipeline.DefaultSize
	}
	cfg.Defaults.ColumnPartition = fillPartition(md, "column_partition", cfg.Defaults.ColumnPartition, layout.DefaultColumnOptions(size))
	cfg.Defaults.RowPartition = fillPartition(md, "row_partition", cfg.Defaults.RowPartition, layout.DefaultRowOptions(size))
	return cfg, nil
}

// fillPartition overlays the keys a partition table defines onto defaults.
func fillPartition(md toml.MetaData, table string, decoded *partition.Options, defaults partition.Options) *partition.Options {
	if decoded == nil {
		return nil
	}
	defined := func(key string) bool { return md.IsDefined("defaults", table, key) }

	out := defaults
	if defined("centre_variation") {
		out.CentreVariation = decoded.CentreVariation
	}
	if defined("min_deviation") {
		out.MinDeviation = decoded.MinDeviation
	}
	if defined("max_deviation") {
		out.MaxDeviation = decoded.MaxDeviation
	}
	if defined("mutations") {
		out.Mutations = decoded.Mutations
	}
	if defined("min_distance") {
		out.MinDistance = decoded.MinDistance
	}
	if defined("step") {
		out.Step = decoded.Step
	}
	return &out
}

// =============================================================================
// Option Flags
// =============================================================================

// optionFlags holds the generation and style flags shared by render and explore.
// Flags only override the config file when they are set explicitly.
type optionFlags struct {
	pipeline.Options
	mutations   int
	minDistance float64
	formats     string
}

// registerLayout adds the generation flags to cmd.
func (f *optionFlags) registerLayout(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.Float64Var(&f.Size, "size", pipeline.DefaultSize, "picture side in pixels")
	fl.IntVar(&f.Columns, "columns", pipeline.DefaultCount, "number of grid columns")
	fl.IntVar(&f.Rows, "rows", pipeline.DefaultCount, "number of grid rows")
	fl.Uint64Var(&f.Seed, "seed", 0, "random seed (default: a new random seed)")
	fl.BoolVar(&f.SkipMerge, "no-merge", false, "draw raw segments instead of merged polylines")
	fl.BoolVar(&f.GridOnly, "grid", false, "draw the whole warped grid instead of stitches")
	fl.BoolVar(&f.Strict, "strict", false, "fail when mutations leave lines closer than the minimum distance")
	fl.Float64Var(&f.Tolerance, "tolerance", 0, "endpoint tolerance when merging (0: exact)")
	fl.IntVar(&f.mutations, "mutations", 500, "mutations per axis")
	fl.Float64Var(&f.minDistance, "min-distance", 0, "minimum line spacing per axis (default: size/45)")
}

// registerStyle adds the render flags to cmd.
func (f *optionFlags) registerStyle(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.Stroke, "stroke", pipeline.DefaultStroke, "line color")
	fl.Float64Var(&f.StrokeWidth, "stroke-width", pipeline.DefaultStrokeWidth, "line width")
	fl.StringVar(&f.Background, "background", "", "background color (default: transparent)")
	fl.Float64Var(&f.Scale, "scale", pipeline.DefaultScale, "PNG pixel density")
	fl.StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
}

// apply layers the flags that were set on cmd over base and applies the CLI
// defaults. An unset seed becomes a random one.
func (f *optionFlags) apply(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	opts := base.Clone()
	changed := cmd.Flags().Changed

	if changed("size") {
		opts.Size = f.Size
		// Derived spacing follows the new size unless configured explicitly.
		if base.ColumnPartition == nil && base.RowPartition == nil {
			opts.ColumnPartition, opts.RowPartition = nil, nil
		}
	}
	if changed("columns") {
		opts.Columns = f.Columns
	}
	if changed("rows") {
		opts.Rows = f.Rows
	}
	if changed("seed") {
		opts.Seed = f.Seed
	}
	if changed("no-merge") {
		opts.SkipMerge = f.SkipMerge
	}
	if changed("grid") {
		opts.GridOnly = f.GridOnly
	}
	if changed("strict") {
		opts.Strict = f.Strict
	}
	if changed("tolerance") {
		opts.Tolerance = f.Tolerance
	}
	if changed("stroke") {
		opts.Stroke = f.Stroke
	}
	if changed("stroke-width") {
		opts.StrokeWidth = f.StrokeWidth
	}
	if changed("background") {
		opts.Background = f.Background
	}
	if changed("scale") {
		opts.Scale = f.Scale
	}
	if changed("format") {
		opts.Formats = parseFormats(f.formats)
	}

	if opts.Seed == 0 {
		opts.Seed = pipeline.RandomSeed()
	}
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()

	if changed("mutations") {
		opts.ColumnPartition.Mutations = f.mutations
		opts.RowPartition.Mutations = f.mutations
	}
	if changed("min-distance") {
		opts.ColumnPartition.MinDistance = f.minDistance
		opts.RowPartition.MinDistance = f.minDistance
	}
	return opts
}

// options loads the config file and layers the flags of cmd over it.
func (c *CLI) options(cmd *cobra.Command, f *optionFlags) (pipeline.Options, error) {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := f.apply(cmd, cfg.Defaults)
	opts.Logger = c.Logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return pipeline.Options{}, fmt.Errorf("invalid options: %w", err)
	}
	return opts, nil
}
