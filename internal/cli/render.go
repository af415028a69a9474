package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stitchgrid/pkg/core/layout"
	"github.com/matzehuels/stitchgrid/pkg/gallery"
	pkgio "github.com/matzehuels/stitchgrid/pkg/io"
	"github.com/matzehuels/stitchgrid/pkg/pipeline"
)

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   optionFlags
		output  string
		from    string
		save    string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Generate a stitch pattern and write it to files",
		Long: `Generate a stitch pattern and write it to SVG, PNG, PDF or JSON.

Without --seed every run draws a new picture; the seed is printed so that a
picture can be reproduced. Layouts and rendered files are cached locally.

A JSON file written with -f json can be rendered again, with a different style,
using --from.`,
		Example: `  stitchgrid render
  stitchgrid render --seed 42 -f svg,png -o weave
  stitchgrid render --columns 30 --rows 12 --stroke '#1d3557' --background white
  stitchgrid render --from weave.json -f pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			opts.Refresh = refresh
			return c.runRender(cmd.Context(), opts, renderParams{
				output:  output,
				from:    from,
				save:    save,
				noCache: noCache,
			})
		},
	}

	flags.registerLayout(cmd)
	flags.registerStyle(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&from, "from", "", "render a layout exported with -f json instead of generating one")
	cmd.Flags().StringVar(&save, "save", "", "save the pattern to the gallery under this name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "regenerate even if cached")

	return cmd
}

type renderParams struct {
	output  string
	from    string
	save    string
	noCache bool
}

// runRender generates (or loads) the layout, renders it and writes the artifacts.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, p renderParams) error {
	logger := loggerFromContext(ctx)
	logger.Debug("render options",
		"seed", opts.Seed,
		"size", opts.Size,
		"columns", opts.Columns,
		"rows", opts.Rows,
		"formats", opts.Formats)

	runner, err := c.newRunner(p.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Generating pattern...")
	spinner.Start()

	var (
		l         layout.Layout
		layoutHit bool
	)
	if p.from != "" {
		doc, err := pkgio.ImportJSON(p.from)
		if err != nil {
			spinner.StopWithError("Import failed")
			return err
		}
		l = doc.Layout
		if doc.Seed != 0 {
			opts.Seed = doc.Seed
		}
	} else {
		l, layoutHit, err = runner.GenerateLayoutWithCacheInfo(ctx, opts)
		if err != nil {
			spinner.StopWithError("Generation failed")
			return fmt.Errorf("generate: %w", err)
		}
	}

	spinner.SetMessage("Rendering " + strings.Join(opts.Formats, ", ") + "...")
	artifacts, renderHit, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Rendering failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := p.output
	if base == "" {
		base = defaultBase(p.from, opts.Seed)
	}
	paths, err := writeArtifacts(artifacts, opts.Formats, base)
	if err != nil {
		return err
	}

	printSuccess("Rendered seed %s", StyleNumber.Render(fmt.Sprint(opts.Seed)))
	for i, path := range paths {
		logger.Debug("wrote artifact", "path", path, "bytes", len(artifacts[opts.Formats[i]]))
		printFile(path)
	}
	printStats(len(l.Segments), len(l.Polylines), layoutHit && renderHit)

	if p.save != "" {
		store, err := openGallery()
		if err != nil {
			return fmt.Errorf("open gallery: %w", err)
		}
		defer store.Close()

		entry := gallery.NewEntry(p.save, l, opts)
		if err := store.Save(ctx, entry); err != nil {
			return fmt.Errorf("save to gallery: %w", err)
		}
		printSuccess("Saved to gallery as %s", StyleHighlight.Render(entry.ID))
	}

	printNewline()
	if p.from == "" {
		printNextStep("Reproduce", fmt.Sprintf("%s render --seed %d", appName, opts.Seed))
	}
	return nil
}

// defaultBase derives the output base path from the input file or the seed.
func defaultBase(from string, seed uint64) string {
	if from != "" {
		base := strings.TrimSuffix(from, filepath.Ext(from))
		return base + "-render"
	}
	return fmt.Sprintf("%s-%d", appName, seed)
}

// outputPaths maps each format to its file path. A single format writes to
// base itself when base already carries an extension; otherwise a known
// format extension on base is stripped and every format gets its own.
func outputPaths(formats []string, base string) map[string]string {
	ext := filepath.Ext(base)
	if len(formats) == 1 && ext != "" {
		return map[string]string{formats[0]: base}
	}
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		base = strings.TrimSuffix(base, ext)
	}
	paths := make(map[string]string, len(formats))
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// writeArtifacts writes each rendered format and returns the written paths
// in format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	paths := outputPaths(formats, base)
	written := make([]string, 0, len(formats))
	for _, f := range formats {
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return written, fmt.Errorf("create output dir: %w", err)
			}
		}
		if err := os.WriteFile(path, artifacts[f], 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
