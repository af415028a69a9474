package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stitchgrid/pkg/core/layout"
	"github.com/matzehuels/stitchgrid/pkg/errors"
	"github.com/matzehuels/stitchgrid/pkg/pipeline"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
[defaults]
size = 1200
columns = 24
stroke = "#223344"
formats = ["svg", "png"]

[defaults.row_partition]
mutations = 2000

[server]
addr = ":9000"
redis = "redis://localhost:6379/0"
`)

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	d := cfg.Defaults
	if d.Size != 1200 || d.Columns != 24 || d.Stroke != "#223344" {
		t.Errorf("defaults = size %g, columns %d, stroke %q", d.Size, d.Columns, d.Stroke)
	}
	if len(d.Formats) != 2 || d.Formats[1] != "png" {
		t.Errorf("formats = %v", d.Formats)
	}
	if d.ColumnPartition != nil {
		t.Errorf("column partition = %+v, want nil", *d.ColumnPartition)
	}

	// Only mutations is overridden; the rest follows the configured size.
	want := layout.DefaultRowOptions(1200)
	want.Mutations = 2000
	if d.RowPartition == nil || *d.RowPartition != want {
		t.Errorf("row partition = %+v, want %+v", d.RowPartition, want)
	}

	if cfg.Server.Addr != ":9000" || cfg.Server.Redis != "redis://localhost:6379/0" {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "[defaults]\nsise = 100\n"},
		{"unknown table", "[output]\ndir = \"x\"\n"},
		{"wrong type", "[defaults]\ncolumns = \"many\"\n"},
		{"syntax", "[defaults\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadConfigMissing(t *testing.T) {
	isolate(t)

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("missing default config: %v", err)
	}
	if cfg.Defaults.Size != 0 || cfg.Server.Addr != "" {
		t.Errorf("cfg = %+v, want zero", cfg)
	}

	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing explicit config accepted")
	}
}

func TestLoadConfigDefaultLocation(t *testing.T) {
	isolate(t)
	dir, err := configDir()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, configFile), []byte("[defaults]\nrows = 7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Defaults.Rows != 7 {
		t.Errorf("rows = %d, want 7", cfg.Defaults.Rows)
	}
}

// flagCommand returns a command with the option flags registered and args parsed.
func flagCommand(t *testing.T, f *optionFlags, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	f.registerLayout(cmd)
	f.registerStyle(cmd)
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("ParseFlags(%v): %v", args, err)
	}
	return cmd
}

func TestOptionFlagsApply(t *testing.T) {
	base := pipeline.Options{Size: 600, Columns: 12, Seed: 5, Stroke: "navy"}

	t.Run("unset flags keep base", func(t *testing.T) {
		var f optionFlags
		opts := f.apply(flagCommand(t, &f), base)
		if opts.Size != 600 || opts.Columns != 12 || opts.Seed != 5 || opts.Stroke != "navy" {
			t.Errorf("opts = size %g, columns %d, seed %d, stroke %q", opts.Size, opts.Columns, opts.Seed, opts.Stroke)
		}
		if opts.Rows != pipeline.DefaultCount {
			t.Errorf("rows = %d, want default %d", opts.Rows, pipeline.DefaultCount)
		}
		if *opts.ColumnPartition != layout.DefaultColumnOptions(600) {
			t.Errorf("column partition = %+v", *opts.ColumnPartition)
		}
	})

	t.Run("set flags override base", func(t *testing.T) {
		var f optionFlags
		cmd := flagCommand(t, &f, "--columns", "30", "--stroke", "red", "-f", "svg,pdf", "--grid", "--no-merge")
		opts := f.apply(cmd, base)
		if opts.Columns != 30 || opts.Stroke != "red" || !opts.GridOnly || !opts.SkipMerge {
			t.Errorf("opts = columns %d, stroke %q, grid %v, skip merge %v", opts.Columns, opts.Stroke, opts.GridOnly, opts.SkipMerge)
		}
		if len(opts.Formats) != 2 || opts.Formats[1] != "pdf" {
			t.Errorf("formats = %v", opts.Formats)
		}
	})

	t.Run("size rederives partitions", func(t *testing.T) {
		var f optionFlags
		opts := f.apply(flagCommand(t, &f, "--size", "300"), base)
		if *opts.RowPartition != layout.DefaultRowOptions(300) {
			t.Errorf("row partition = %+v, want defaults for 300", *opts.RowPartition)
		}
	})

	t.Run("axis flags reach both partitions", func(t *testing.T) {
		var f optionFlags
		opts := f.apply(flagCommand(t, &f, "--mutations", "7", "--min-distance", "3"), base)
		for _, p := range []struct {
			name string
			m    int
			d    float64
		}{
			{"columns", opts.ColumnPartition.Mutations, opts.ColumnPartition.MinDistance},
			{"rows", opts.RowPartition.Mutations, opts.RowPartition.MinDistance},
		} {
			if p.m != 7 || p.d != 3 {
				t.Errorf("%s: mutations %d, min distance %g", p.name, p.m, p.d)
			}
		}
	})

	t.Run("base is not modified", func(t *testing.T) {
		cfg := pipeline.Options{Formats: []string{"svg"}}
		var f optionFlags
		f.apply(flagCommand(t, &f, "-f", "png", "--mutations", "1"), cfg)
		if cfg.Formats[0] != "svg" || cfg.ColumnPartition != nil {
			t.Errorf("base changed: %+v", cfg)
		}
	})

	t.Run("missing seed is random", func(t *testing.T) {
		var f optionFlags
		opts := f.apply(flagCommand(t, &f), pipeline.Options{})
		if opts.Seed == 0 {
			t.Error("seed = 0")
		}
	})
}

func TestCLIOptionsConfigAndFlags(t *testing.T) {
	isolate(t)
	c := quietCLI()
	c.configPath = writeConfig(t, "[defaults]\ncolumns = 9\nrows = 8\n")

	var f optionFlags
	cmd := flagCommand(t, &f, "--rows", "11", "--seed", "2")
	opts, err := c.options(cmd, &f)
	if err != nil {
		t.Fatalf("options: %v", err)
	}
	if opts.Columns != 9 || opts.Rows != 11 || opts.Seed != 2 {
		t.Errorf("opts = columns %d, rows %d, seed %d", opts.Columns, opts.Rows, opts.Seed)
	}

	f = optionFlags{}
	cmd = flagCommand(t, &f, "--columns", "1")
	if _, err := c.options(cmd, &f); !errors.Is(err, errors.ErrCodeInvalidParameters) {
		t.Errorf("err = %v, want INVALID_PARAMETERS", err)
	}
}

func TestMergeServerConfig(t *testing.T) {
	newCmd := func(args ...string) *cobra.Command {
		cmd := quietCLI().serveCommand()
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatalf("ParseFlags: %v", err)
		}
		return cmd
	}

	file := ServerConfig{Addr: ":9000", Redis: "redis://cache:6379/0"}
	flags := ServerConfig{Addr: ":8080", MongoDatabase: defaultMongoDatabase, MongoCollection: defaultMongoCollection}

	cmd := newCmd()
	got := mergeServerConfig(cmd, file, flags)
	want := ServerConfig{
		Addr:            ":9000",
		Redis:           "redis://cache:6379/0",
		MongoDatabase:   defaultMongoDatabase,
		MongoCollection: defaultMongoCollection,
	}
	if got != want {
		t.Errorf("file only = %+v, want %+v", got, want)
	}

	cmd = newCmd("--addr", ":7000")
	flags.Addr = ":7000"
	if got := mergeServerConfig(cmd, file, flags); got.Addr != ":7000" || got.Redis != file.Redis {
		t.Errorf("flag over file = %+v", got)
	}
}
