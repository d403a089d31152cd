package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vennkit/vennkit/internal/api"
	"github.com/vennkit/vennkit/pkg/cache"
	"github.com/vennkit/vennkit/pkg/diagram/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		noCache    bool
		redisAddr  string
		mongoURI   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

The serve command exposes the layout pipeline over REST. By default diagrams
are stored in memory and pipeline results are cached on disk. Pass --mongo
to persist diagrams in MongoDB and --redis to share the result cache between
instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, configPath, noCache, redisAddr, mongoURI)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "tier configuration file (TOML)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the result cache (e.g. localhost:6379)")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for diagram storage (e.g. mongodb://localhost:27017)")

	return cmd
}

// runServe builds the server dependencies and blocks until shutdown.
func (c *CLI) runServe(ctx context.Context, addr, configPath string, noCache bool, redisAddr, mongoURI string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	resultCache, err := c.serveCache(ctx, noCache, redisAddr)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	diagramStore, err := serveStore(ctx, mongoURI)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}

	server := api.New(api.Config{
		Addr:         addr,
		LayoutConfig: cfg,
		Cache:        resultCache,
		Store:        diagramStore,
		Logger:       c.Logger,
	})
	defer func() {
		if err := server.Close(context.Background()); err != nil {
			c.Logger.Warn("shutdown", "error", err)
		}
	}()

	printInfo("Serving on %s", addr)
	return api.ListenAndServe(ctx, addr, server)
}

// serveCache picks the cache backend: Redis when requested, the file cache
// otherwise.
func (c *CLI) serveCache(ctx context.Context, noCache bool, redisAddr string) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
	}
	return newCache(false)
}

// serveStore picks the diagram store: MongoDB when requested, memory
// otherwise.
func serveStore(ctx context.Context, mongoURI string) (store.Store, error) {
	if mongoURI == "" {
		return store.NewMemory(), nil
	}
	return store.NewMongo(ctx, store.MongoConfig{URI: mongoURI})
}
