package pipeline

import (
	"fmt"
	"math/rand/v2"

	"github.com/matzehuels/stitchgrid/pkg/core/layout"
	"github.com/matzehuels/stitchgrid/pkg/core/partition"
)

// NewSource returns the random source for seed. The same seed always yields
// the same sequence, so the same options always yield the same picture.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// RandomSeed returns a random non-zero seed for callers that want a new
// picture on every run.
func RandomSeed() uint64 {
	for {
		if seed := rand.Uint64(); seed != 0 {
			return seed
		}
	}
}

// GenerateLayout validates opts and generates the layout they describe.
//
// In strict mode both partitions are checked after generation and an
// INVALID_PARTITION error is returned when mutations left two lines closer
// than the requested spacing.
func GenerateLayout(opts Options) (layout.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, err
	}

	buildOpts := []layout.Option{
		layout.WithColumns(opts.Columns, *opts.ColumnPartition),
		layout.WithRows(opts.Rows, *opts.RowPartition),
		layout.WithMerge(opts.ShouldMerge()),
		layout.WithTolerance(opts.Tolerance),
	}
	if opts.GridOnly {
		buildOpts = append(buildOpts, layout.WithGridOnly())
	}

	l := layout.Build(opts.Size, NewSource(opts.Seed), buildOpts...)

	if opts.Strict {
		if err := partition.Check(l.Columns, opts.ColumnPartition.MinDistance); err != nil {
			return layout.Layout{}, fmt.Errorf("columns: %w", err)
		}
		if err := partition.Check(l.Rows, opts.RowPartition.MinDistance); err != nil {
			return layout.Layout{}, fmt.Errorf("rows: %w", err)
		}
	}

	opts.Logger.Debug("generated layout",
		"seed", opts.Seed,
		"columns", opts.Columns,
		"rows", opts.Rows,
		"segments", len(l.Segments),
		"polylines", len(l.Polylines))

	return l, nil
}
