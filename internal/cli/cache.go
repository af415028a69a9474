package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stitchgrid/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheInfoCommand())

	return cmd
}

// openFileCache opens the local cache directory.
func openFileCache() (*cache.FileCache, error) {
	dir, err := cacheDir()
	if err != nil {
		return nil, fmt.Errorf("get cache dir: %w", err)
	}
	return cache.NewFileCache(dir)
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache()
			if err != nil {
				return err
			}

			count, _, err := fc.Stats()
			if err != nil {
				return err
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			if err := fc.Clear(); err != nil {
				return err
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// cacheInfoCommand creates the "cache info" subcommand.
func (c *CLI) cacheInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the number and size of cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := openFileCache()
			if err != nil {
				return err
			}
			count, size, err := fc.Stats()
			if err != nil {
				return err
			}
			printKeyValue("Directory", fc.Dir())
			printKeyValue("Entries", fmt.Sprint(count))
			printKeyValue("Size", formatBytes(size))
			return nil
		},
	}
}

// formatBytes formats n with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
