package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chordwheel/internal/server"
	"github.com/matzehuels/chordwheel/pkg/buildinfo"
	"github.com/matzehuels/chordwheel/pkg/cache"
	"github.com/matzehuels/chordwheel/pkg/config"
	"github.com/matzehuels/chordwheel/pkg/dataset"
	"github.com/matzehuels/chordwheel/pkg/observability"
	"github.com/matzehuels/chordwheel/pkg/pipeline"
)

// redisPrefix namespaces every key the server writes to Redis.
const redisPrefix = appName + ":"

var serverFlagKeys = map[string]string{
	"addr":       "server.addr",
	"data":       "server.data",
	"redis":      "server.redis",
	"log-file":   "server.log_file",
	"rate-limit": "server.rate_limit",
	"burst":      "server.burst",
}

// serveCommand creates the serve command that runs the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the diagram and relationship data over HTTP",
		Long: `Serve the diagram and relationship data over HTTP.

The server keeps one relationship set in a CSV file (--data). Clients download
and upload it at /api/relationships and fetch the diagram at /api/diagram.svg,
/api/diagram.png and /api/layout. Uploads are validated, persisted and rate
limited.

Rendered diagrams are cached in memory, or in Redis with --redis so several
instances can share them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd, viewFlagKeys, serverFlagKeys)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	d := config.Default()
	addViewFlags(cmd)
	cmd.Flags().String("addr", d.Server.Addr, "listen address")
	cmd.Flags().String("data", d.Server.Data, "relationship CSV file (created on first upload)")
	cmd.Flags().String("redis", "", "Redis address or redis:// URL for a shared render cache")
	cmd.Flags().String("log-file", "", "also write logs to this file, rotated")
	cmd.Flags().Float64("rate-limit", d.Server.RateLimit, "uploads per second (0: unlimited)")
	cmd.Flags().Int("burst", d.Server.Burst, "upload burst size")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config) error {
	logger, closer := server.NewLogger(os.Stderr, cfg.Server.LogFile, c.Logger.GetLevel())
	defer closer.Close()

	hooks := observability.NewLogHooks(logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	store, err := dataset.NewFileStore(cfg.Server.Data)
	if err != nil {
		return fmt.Errorf("open dataset: %w", err)
	}
	snap, err := store.Load(ctx)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded", "path", store.Path(), "relationships", len(snap.Relationships), "revision", snap.Revision)

	backend, err := newServerCache(ctx, cfg.Server.Redis, logger)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(backend, cache.NewScopedKeyer(nil, buildinfo.Version+":"), logger)
	defer runner.Close()

	srv := server.New(store, runner, logger, server.Options{
		View:      cfg.View(),
		RateLimit: cfg.Server.RateLimit,
		Burst:     cfg.Server.Burst,
	})

	printSuccess("Serving %s", StyleLink.Render(serverURL(cfg.Server.Addr)))
	printKeyValue("Data", store.Path())
	if cfg.Server.Redis != "" {
		printKeyValue("Cache", "redis "+cfg.Server.Redis)
	} else {
		printKeyValue("Cache", "memory")
	}
	if cfg.Server.LogFile != "" {
		printKeyValue("Log file", cfg.Server.LogFile)
	}
	printNewline()

	if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// newServerCache connects to Redis when addr is set and falls back to an
// in-process cache otherwise.
func newServerCache(ctx context.Context, addr string, logger *log.Logger) (cache.Cache, error) {
	if addr == "" {
		return cache.NewMemoryCache(cache.TTLArtifact, cache.DefaultCleanupInterval), nil
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: addr, Prefix: redisPrefix})
	if err != nil {
		return nil, err
	}
	logger.Debug("redis cache connected", "addr", addr, "prefix", redisPrefix)
	return rc, nil
}

// serverURL turns a listen address into a browsable URL.
func serverURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
