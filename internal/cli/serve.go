package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/Wesbraak3/Dungeon-Generator/internal/server"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/observability"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pipeline"
)

const shutdownTimeout = 10 * time.Second

// serveOpts holds settings for the serve command.
type serveOpts struct {
	addr     string
	config   string
	cacheDSN string
	noCache  bool
	timeout  time.Duration
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dungeon API over HTTP",
		Long: `Serve dungeon generation over HTTP and websockets.

The cache backend comes from --cache, then from [cache] in the config file,
then defaults to the local file cache. Use a redis:// or mongodb:// DSN to
share layouts between server instances.`,
		Example: `  dungeongen serve --addr :9000
  dungeongen serve --cache redis://localhost:6379/0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg, opts.timeout)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVarP(&opts.config, "config", "c", "", "TOML config file")
	cmd.Flags().StringVar(&opts.cacheDSN, "cache", "", "cache DSN: redis://, mongodb://, file:// or a directory")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the layout cache")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", server.DefaultTimeout, "per-request generation timeout")

	return cmd
}

// resolve merges the config file beneath explicitly set flags.
func (o serveOpts) resolve(cmd *cobra.Command) (pipeline.Config, error) {
	var cfg pipeline.Config
	if o.config != "" {
		if err := pipeline.LoadConfigInto(o.config, &cfg); err != nil {
			return cfg, err
		}
	}
	if cfg.Server.Addr == "" || cmd.Flags().Changed("addr") {
		cfg.Server.Addr = o.addr
	}
	if o.cacheDSN != "" {
		cfg.Cache.DSN = o.cacheDSN
	}
	if o.noCache {
		cfg.Cache.Disabled = true
	}
	return cfg, nil
}

func (c *CLI) runServe(ctx context.Context, cfg pipeline.Config, timeout time.Duration) error {
	runner, err := c.newRunner(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	srv := server.New(runner, c.Logger)
	srv.Timeout = timeout
	observability.SetCacheHooks(srv.Counters)
	observability.SetHTTPHooks(observability.NewLogHooks(c.Logger))
	defer observability.Reset()

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", cfg.Server.Addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
