package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stitchgrid/pkg/buildinfo"
	"github.com/matzehuels/stitchgrid/pkg/cache"
	"github.com/matzehuels/stitchgrid/pkg/gallery"
	"github.com/matzehuels/stitchgrid/pkg/pipeline"
)

const (
	appName    = "stitchgrid"
	configFile = "config.toml"
)

// Log levels accepted by New and SetLogLevel.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds what every command shares: the logger and the --config path.
type CLI struct {
	Logger *log.Logger

	configPath string // empty: $XDG_CONFIG_HOME/stitchgrid/config.toml
}

// New returns a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   appName,
		Short: "Stitchgrid draws warped grids and the stitch patterns woven through them",
		Long: `Stitchgrid generates a warped grid (two families of near-parallel, slightly
skewed lines) and derives a stitch pattern from it: a subset of the grid edges
chosen by random binary patterns, merged into long polylines. Pictures are
reproducible from their seed and can be written as SVG, PNG, PDF or JSON.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/stitchgrid/config.toml)")
	root.AddCommand(
		c.renderCommand(),
		c.partitionCommand(),
		c.exploreCommand(),
		c.serveCommand(),
		c.galleryCommand(),
		c.cacheCommand(),
		c.completionCommand(),
	)

	return root
}

// newRunner returns a runner backed by the local file cache, or by no cache
// with --no-cache or when the cache directory cannot be determined.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	var store cache.Cache = cache.NewNullCache()
	if dir, err := cacheDir(); err == nil && !noCache {
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		store = fc
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func openGallery() (*gallery.FileStore, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}
	return gallery.NewFileStore(filepath.Join(dir, "gallery"))
}

// userDir returns $env/stitchgrid, or ~/fallback/stitchgrid when env is unset.
func userDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}

func cacheDir() (string, error) { return userDir("XDG_CACHE_HOME", ".cache") }
func configDir() (string, error) { return userDir("XDG_CONFIG_HOME", ".config") }

// parseFormats splits a comma-separated format list. Empty means svg.
func parseFormats(s string) []string {
	var formats []string
	for f := range strings.SplitSeq(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return []string{pipeline.FormatSVG}
	}
	return formats
}
