package cli

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/matzehuels/acrostic/internal/server"
	"github.com/matzehuels/acrostic/pkg/observability"
)

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Endpoints:
  POST /v1/arrange       arrange lyrics, JSON in and out
  POST /v1/alternatives  alternative layouts, one per start word
  GET  /healthz          liveness probe
  GET  /metrics          Prometheus metrics

The server shares the configured layout cache and shuts down gracefully on
interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg := *c.config()
			if addr != "" {
				cfg.Server.Addr = addr
			}

			var metrics http.Handler
			if !noMetrics {
				hooks := observability.NewPrometheusHooks(prometheus.NewRegistry())
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
				defer observability.Reset()
				metrics = hooks.Handler()
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			printInfo("Serving acrostic API")
			printKeyValue("Address", StyleLink.Render(cfg.Server.Addr))
			printKeyValue("Cache", cfg.Cache.Backend)
			if metrics != nil {
				printKeyValue("Metrics", "/metrics")
			}
			printNewline()

			return server.New(runner, &cfg, c.Logger, metrics).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}
