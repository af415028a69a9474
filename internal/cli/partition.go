package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stitchgrid/pkg/core/layout"
	"github.com/matzehuels/stitchgrid/pkg/core/partition"
	"github.com/matzehuels/stitchgrid/pkg/errors"
	"github.com/matzehuels/stitchgrid/pkg/pipeline"
)

// partitionCommand creates the partition command, which prints the offsets
// of a single axis.
func (c *CLI) partitionCommand() *cobra.Command {
	var (
		axis   string
		length float64
		count  int
		seed   uint64
		check  bool
		opts   partition.Options
	)

	cmd := &cobra.Command{
		Use:   "partition",
		Short: "Print the line offsets of one warped axis",
		Long: `Print the line offsets of one warped axis as a table.

Each row is one line crossing the square: its top and bottom intercept (left
and right for rows), its tilt and its distance to the previous line. The
defaults are those of the column (--axis columns) or row (--axis rows) axis of
a rendered picture; every parameter can be overridden.`,
		Example: `  stitchgrid partition --seed 7
  stitchgrid partition --axis rows --mutations 5000 --check
  stitchgrid partition -n 8 --max-deviation 0 --mutations 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := axisDefaults(axis, length)
			if err != nil {
				return err
			}
			changed := cmd.Flags().Changed
			if changed("centre-variation") {
				base.CentreVariation = opts.CentreVariation
			}
			if changed("min-deviation") {
				base.MinDeviation = opts.MinDeviation
			}
			if changed("max-deviation") {
				base.MaxDeviation = opts.MaxDeviation
			}
			if changed("mutations") {
				base.Mutations = opts.Mutations
			}
			if changed("min-distance") {
				base.MinDistance = opts.MinDistance
			}
			if changed("step") {
				base.Step = opts.Step
			}
			if seed == 0 {
				seed = pipeline.RandomSeed()
			}
			return runPartition(length, count, base, seed, check)
		},
	}

	cmd.Flags().StringVar(&axis, "axis", "columns", "default parameters: columns or rows")
	cmd.Flags().Float64Var(&length, "length", pipeline.DefaultSize, "length of the axis")
	cmd.Flags().IntVarP(&count, "count", "n", pipeline.DefaultCount, "number of partitions")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (default: a new random seed)")
	cmd.Flags().BoolVar(&check, "check", false, "fail when lines end up closer than the minimum distance")
	cmd.Flags().Float64Var(&opts.CentreVariation, "centre-variation", 0, "width of the interval the skew centre is drawn from")
	cmd.Flags().Float64Var(&opts.MinDeviation, "min-deviation", 0, "minimum skew in cells")
	cmd.Flags().Float64Var(&opts.MaxDeviation, "max-deviation", 0, "maximum skew in cells")
	cmd.Flags().IntVar(&opts.Mutations, "mutations", 0, "number of random nudges")
	cmd.Flags().Float64Var(&opts.MinDistance, "min-distance", 0, "minimum line spacing")
	cmd.Flags().Float64Var(&opts.Step, "step", 1, "size of a single nudge")

	return cmd
}

// axisDefaults returns the picture defaults for one axis.
func axisDefaults(axis string, length float64) (partition.Options, error) {
	switch axis {
	case "columns", "column", "cols":
		return layout.DefaultColumnOptions(length), nil
	case "rows", "row":
		return layout.DefaultRowOptions(length), nil
	default:
		return partition.Options{}, errors.New(errors.ErrCodeInvalidInput, "invalid axis: %q (must be columns or rows)", axis)
	}
}

func runPartition(length float64, count int, opts partition.Options, seed uint64, check bool) error {
	if err := errors.ValidateSize(length); err != nil {
		return err
	}
	if err := pipeline.ValidatePartition("partition", count, opts, length); err != nil {
		return err
	}

	p := partition.New(length, count, opts, pipeline.NewSource(seed))
	printTable([]string{"#", "top", "bottom", "tilt", "gap"}, partitionRows(p), 0, 1, 2, 3, 4)

	gap := minGap(p)
	printKeyValue("Seed", strconv.FormatUint(seed, 10))
	printKeyValue("Min gap", fmt.Sprintf("%.2f (want >= %.2f)", gap, opts.MinDistance))

	if err := partition.Check(p, opts.MinDistance); err != nil {
		if check {
			return err
		}
		printWarning("%s", errors.UserMessage(err))
	}
	return nil
}

// partitionRows formats one table row per line.
func partitionRows(p partition.Partition) [][]string {
	rows := make([][]string, p.Len())
	for i := range p.Len() {
		gap := ""
		if i > 0 {
			gap = formatOffset(min(p.Top[i]-p.Top[i-1], p.Bottom[i]-p.Bottom[i-1]))
		}
		rows[i] = []string{
			strconv.Itoa(i),
			formatOffset(p.Top[i]),
			formatOffset(p.Bottom[i]),
			formatOffset(p.Top[i] - p.Bottom[i]),
			gap,
		}
	}
	return rows
}

// minGap returns the smallest distance between neighbouring intercepts.
func minGap(p partition.Partition) float64 {
	gap := math.Inf(1)
	for i := 1; i < p.Len(); i++ {
		gap = min(gap, p.Top[i]-p.Top[i-1], p.Bottom[i]-p.Bottom[i-1])
	}
	return gap
}

func formatOffset(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
