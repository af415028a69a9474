package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stitchgrid/internal/server"
	"github.com/matzehuels/stitchgrid/pkg/cache"
	"github.com/matzehuels/stitchgrid/pkg/gallery"
	"github.com/matzehuels/stitchgrid/pkg/pipeline"
)

// redisKeyPrefix scopes cache keys when the Redis instance is shared.
const redisKeyPrefix = appName + ":"

// Default MongoDB names.
const (
	defaultMongoDatabase   = appName
	defaultMongoCollection = "patterns"
)

// serveCommand creates the serve command, which runs the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags   ServerConfig
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve patterns over HTTP",
		Long: `Serve patterns over HTTP.

Routes:
  GET    /healthz                 liveness probe
  GET    /render/{format}         render from query parameters
  POST   /render/{format}         render a posted layout document (render -f json)
  POST   /patterns                generate and store a pattern
  GET    /patterns                list stored patterns
  GET    /patterns/{id}           show a stored pattern
  GET    /patterns/{id}/{format}  render a stored pattern
  DELETE /patterns/{id}           delete a stored pattern

By default the local file cache and the local gallery are used. With --redis the
cache is shared through Redis; with --mongo the gallery lives in MongoDB.
The [defaults] section of the config file sets the base options of every request.`,
		Example: `  stitchgrid serve --addr :8080
  stitchgrid serve --redis redis://localhost:6379/0 --mongo mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			sc := mergeServerConfig(cmd, cfg.Server, flags)
			return c.runServe(cmd.Context(), sc, cfg.Defaults, noCache)
		},
	}

	cmd.Flags().StringVar(&flags.Addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&flags.Redis, "redis", "", "Redis URL for the shared cache")
	cmd.Flags().StringVar(&flags.Mongo, "mongo", "", "MongoDB URI for the gallery")
	cmd.Flags().StringVar(&flags.MongoDatabase, "mongo-database", defaultMongoDatabase, "MongoDB database")
	cmd.Flags().StringVar(&flags.MongoCollection, "mongo-collection", defaultMongoCollection, "MongoDB collection")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// mergeServerConfig layers explicitly set flags over the config file.
func mergeServerConfig(cmd *cobra.Command, file, flags ServerConfig) ServerConfig {
	changed := cmd.Flags().Changed
	out := file
	for _, f := range []struct {
		name string
		dst  *string
		src  string
	}{
		{"addr", &out.Addr, flags.Addr},
		{"redis", &out.Redis, flags.Redis},
		{"mongo", &out.Mongo, flags.Mongo},
		{"mongo-database", &out.MongoDatabase, flags.MongoDatabase},
		{"mongo-collection", &out.MongoCollection, flags.MongoCollection},
	} {
		if changed(f.name) || *f.dst == "" {
			*f.dst = f.src
		}
	}
	return out
}

func (c *CLI) runServe(ctx context.Context, sc ServerConfig, defaults pipeline.Options, noCache bool) error {
	runner, err := c.serverRunner(ctx, sc, noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	store, err := c.serverGallery(ctx, sc)
	if err != nil {
		return err
	}
	defer store.Close()

	srv := server.New(server.Config{
		Addr:     sc.Addr,
		Runner:   runner,
		Gallery:  store,
		Defaults: defaults,
		Logger:   c.Logger,
	})

	printSuccess("Serving on %s", StyleHighlight.Render(sc.Addr))
	return srv.Run(ctx)
}

// serverRunner builds the runner over Redis when configured, the local file
// cache otherwise.
func (c *CLI) serverRunner(ctx context.Context, sc ServerConfig, noCache bool) (*pipeline.Runner, error) {
	if noCache || sc.Redis == "" {
		return c.newRunner(noCache)
	}

	timer := startTimer(c.Logger)
	rc, err := cache.NewRedisCache(ctx, sc.Redis)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	timer.done("Connected to Redis")

	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), redisKeyPrefix)
	return pipeline.NewRunner(rc, keyer, c.Logger), nil
}

// serverGallery opens MongoDB when configured, the local file gallery otherwise.
func (c *CLI) serverGallery(ctx context.Context, sc ServerConfig) (gallery.Store, error) {
	if sc.Mongo == "" {
		store, err := openGallery()
		if err != nil {
			return nil, fmt.Errorf("open gallery: %w", err)
		}
		c.Logger.Debug("using file gallery", "dir", store.Path())
		return store, nil
	}

	timer := startTimer(c.Logger)
	store, err := gallery.NewMongoStore(ctx, sc.Mongo, sc.MongoDatabase, sc.MongoCollection)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	timer.done("Connected to MongoDB")
	return store, nil
}
