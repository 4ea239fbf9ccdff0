package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mccabe/internal/api"
	"github.com/matzehuels/mccabe/pkg/cache"
	"github.com/matzehuels/mccabe/pkg/pipeline"
	"github.com/matzehuels/mccabe/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	timeout time.Duration

	redisAddr     string
	redisPassword string
	redisDB       int
	cacheScope    string
	noCache       bool

	mongoURI string
	mongoDB  string
}

// serveCommand runs the HTTP API until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	o := serveOpts{addr: api.DefaultAddr, timeout: api.DefaultRequestTimeout}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Results are cached on disk by default, or in Redis with --redis. Stored
designs live in memory unless --mongo points at a MongoDB deployment.`,
		Example: `  mccabe serve
  mccabe serve --addr :9000 --redis localhost:6379 --mongo mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &o)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&o.addr, "addr", o.addr, "listen address")
	fs.DurationVar(&o.timeout, "timeout", o.timeout, "per-request timeout")
	fs.StringVar(&o.redisAddr, "redis", "", "Redis address for the shared cache (host:port)")
	fs.StringVar(&o.redisPassword, "redis-password", "", "Redis password")
	fs.IntVar(&o.redisDB, "redis-db", 0, "Redis database number")
	fs.StringVar(&o.cacheScope, "cache-scope", "", "namespace prepended to cache keys")
	fs.BoolVar(&o.noCache, "no-cache", false, "disable caching")
	fs.StringVar(&o.mongoURI, "mongo", "", "MongoDB URI for stored designs")
	fs.StringVar(&o.mongoDB, "mongo-db", store.DefaultDatabase, "MongoDB database name")
	cmd.MarkFlagsMutuallyExclusive("redis", "no-cache")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, o *serveOpts) error {
	logger := loggerFromContext(ctx)

	cc, err := c.serveCache(ctx, o)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if o.cacheScope != "" {
		keyer = cache.NewScopedKeyer(nil, o.cacheScope)
	}
	runner := pipeline.NewRunner(cc, keyer, logger)

	var st store.Store = store.NewMemoryStore()
	if o.mongoURI != "" {
		sp := startSpinner(ctx, "Connecting to MongoDB...")
		ms, err := store.NewMongoStore(ctx, store.MongoOptions{URI: o.mongoURI, Database: o.mongoDB})
		if err != nil {
			sp.StopWithError("MongoDB unavailable")
			runner.Close()
			return err
		}
		sp.StopWithSuccess("Connected to MongoDB (database %s)", o.mongoDB)
		st = ms
	}

	srv := api.New(api.Config{
		Runner:         runner,
		Store:          st,
		Logger:         logger,
		RequestTimeout: o.timeout,
	})
	defer srv.Close()

	printSuccess("Serving the McCabe API")
	printDetail("Address: %s", StyleLink.Render(displayURL(o.addr)))
	return srv.ListenAndServe(ctx, o.addr)
}

func (c *CLI) serveCache(ctx context.Context, o *serveOpts) (cache.Cache, error) {
	if o.redisAddr == "" {
		return newCache(o.noCache)
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
		Addr:     o.redisAddr,
		Password: o.redisPassword,
		DB:       o.redisDB,
		Prefix:   appName + ":",
	})
	if err != nil {
		return nil, err
	}
	loggerFromContext(ctx).Info("using redis cache", "addr", o.redisAddr, "db", o.redisDB)
	return rc, nil
}

// displayURL turns a listen address into a clickable URL.
func displayURL(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		addr = "localhost" + addr
	}
	return fmt.Sprintf("http://%s", addr)
}
