package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stitchgrid/pkg/gallery"
)

// galleryCommand creates the gallery command for managing saved patterns.
func (c *CLI) galleryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "Manage saved patterns",
		Long: `Manage patterns saved with 'render --save' or from the explorer.

The local gallery lives in $XDG_CONFIG_HOME/stitchgrid/gallery.`,
	}

	cmd.AddCommand(c.galleryListCommand())
	cmd.AddCommand(c.galleryShowCommand())
	cmd.AddCommand(c.galleryRenderCommand())
	cmd.AddCommand(c.galleryDeleteCommand())

	return cmd
}

// galleryListCommand creates the "gallery list" subcommand.
func (c *CLI) galleryListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved patterns, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openGallery()
			if err != nil {
				return fmt.Errorf("open gallery: %w", err)
			}
			defer store.Close()

			entries, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("Gallery is empty")
				printNextStep("Save a pattern", appName+" render --save <name>")
				return nil
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				s := e.Summary()
				rows[i] = []string{
					s.ID,
					s.Name,
					strconv.FormatUint(s.Seed, 10),
					strconv.Itoa(s.Segments),
					formatRelativeTime(s.CreatedAt, time.Now()),
				}
			}
			printTable([]string{"ID", "Name", "Seed", "Segments", "Created"}, rows, 2, 3)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", gallery.DefaultListLimit, "maximum number of patterns")
	return cmd
}

// galleryShowCommand creates the "gallery show" subcommand.
func (c *CLI) galleryShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the options of a saved pattern",
		Args:  cobra.ExactArgs(1),

		ValidArgsFunction: completeGalleryIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openGallery()
			if err != nil {
				return fmt.Errorf("open gallery: %w", err)
			}
			defer store.Close()

			e, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			o := e.Options
			printKeyValue("ID", e.ID)
			if e.Name != "" {
				printKeyValue("Name", e.Name)
			}
			printKeyValue("Created", e.CreatedAt.Local().Format("Jan 2, 2006 15:04"))
			printKeyValue("Seed", strconv.FormatUint(o.Seed, 10))
			printKeyValue("Size", strconv.FormatFloat(o.Size, 'g', -1, 64))
			printKeyValue("Grid", fmt.Sprintf("%d × %d", o.Columns, o.Rows))
			printKeyValue("Segments", strconv.Itoa(len(e.Layout.Segments)))
			printKeyValue("Polylines", strconv.Itoa(len(e.Layout.Polylines)))
			if o.GridOnly {
				printKeyValue("Mode", "grid only")
			}
			printNewline()
			printNextStep("Render", fmt.Sprintf("%s gallery render %s", appName, e.ID))
			return nil
		},
	}
}

// galleryRenderCommand creates the "gallery render" subcommand. The stored
// layout is rendered as is; only style flags apply.
func (c *CLI) galleryRenderCommand() *cobra.Command {
	var (
		flags  optionFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Render a saved pattern",
		Args:  cobra.ExactArgs(1),

		ValidArgsFunction: completeGalleryIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := openGallery()
			if err != nil {
				return fmt.Errorf("open gallery: %w", err)
			}
			defer store.Close()

			e, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}

			opts := flags.apply(cmd, e.Options)
			opts.Logger = c.Logger

			runner, err := c.newRunner(false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			artifacts, cached, err := runner.RenderWithCacheInfo(ctx, e.Layout, opts)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}

			base := output
			if base == "" {
				base = e.ID
			}
			paths, err := writeArtifacts(artifacts, opts.Formats, base)
			if err != nil {
				return err
			}

			printSuccess("Rendered %s", StyleHighlight.Render(e.ID))
			for _, path := range paths {
				printFile(path)
			}
			printStats(len(e.Layout.Segments), len(e.Layout.Polylines), cached)
			return nil
		},
	}

	flags.registerStyle(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	return cmd
}

// galleryDeleteCommand creates the "gallery delete" subcommand.
func (c *CLI) galleryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved pattern",
		Args:    cobra.ExactArgs(1),

		ValidArgsFunction: completeGalleryIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openGallery()
			if err != nil {
				return fmt.Errorf("open gallery: %w", err)
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted %s", args[0])
			return nil
		},
	}
}

// formatRelativeTime formats t relative to now.
func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}
