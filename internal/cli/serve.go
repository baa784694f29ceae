package cli

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/heldkarp/server"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes POST /v1/solve, GET /healthz and GET /metrics.
The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			if !c.verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			r, closeCache, err := c.newRunner(ctx, reg, 0)
			if err != nil {
				return err
			}
			defer func() {
				if err := closeCache(); err != nil {
					logger.Warn("close cache", "err", err)
				}
			}()

			cfg := c.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}
			return server.New(r, reg, cfg, logger).Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}
