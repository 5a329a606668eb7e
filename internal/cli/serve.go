package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cortex/internal/server"
	"github.com/matzehuels/cortex/pkg/cache"
	"github.com/matzehuels/cortex/pkg/pipeline"
	"github.com/matzehuels/cortex/pkg/session"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, redisAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the JSON HTTP API",
		Long: `Run the JSON HTTP API over the active catalog.

Settings are read from CORTEX_* environment variables (CORTEX_ADDR,
CORTEX_CATALOG, CORTEX_REDIS_ADDR, CORTEX_REDIS_PASSWORD, CORTEX_REDIS_DB,
CORTEX_PLAN_TTL). Flags override the environment.

Plans are kept in Redis when a Redis address is configured and in memory
otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := server.LoadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if redisAddr != "" {
				cfg.RedisAddr = redisAddr
			}
			if c.catalogPath == "" {
				c.catalogPath = cfg.CatalogPath
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default $CORTEX_ADDR or :8080)")
	cmd.Flags().StringVar(&redisAddr, "redis", "", "Redis address for the plan store (default $CORTEX_REDIS_ADDR)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg server.Config) error {
	cat, err := c.loadCatalog()
	if err != nil {
		return err
	}

	store, err := newServerStore(ctx, cfg)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(cat, store, c.Logger)
	if rs, ok := store.(*session.RedisStore); ok && !c.noCache {
		runner.Cache = cache.NewRedisCache(rs.Client(), "")
	}
	defer runner.Close()

	c.Logger.Info("starting api server",
		"catalog", cat.Version,
		"store", session.Backend(store))
	return server.New(cfg, runner, c.Logger).ListenAndServe(ctx)
}

// newServerStore picks the plan store for the server.
func newServerStore(ctx context.Context, cfg server.Config) (session.Store, error) {
	if cfg.RedisAddr == "" {
		return session.NewMemoryStore(), nil
	}
	store, err := session.NewRedisStore(ctx, session.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.PlanTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect plan store: %w", err)
	}
	return store, nil
}
