package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/scannable/internal/server"
	"github.com/matzehuels/scannable/pkg/frame"
	"github.com/matzehuels/scannable/pkg/pipeline"
)

// serveCommand creates the serve command, which runs the HTTP render
// service until the command context is canceled.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		listen     string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the render API over HTTP",
		Long: `Serve renders QR codes on request:

  GET  /api/v1/render/{svg|txt|png}?value=...
  POST /api/v1/render/{svg|txt|png}   (JSON options body)

Rendered artifacts are cached in the configured backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}

			ctx := cmd.Context()
			store, keyer, err := c.newCache(ctx, cfg.Cache, noCache)
			if err != nil {
				return err
			}

			runner := pipeline.NewRunner(store, keyer, frame.Default, c.Logger)
			runner.TTL = cfg.Cache.TTL.Duration
			defer runner.Close()

			out := cmd.OutOrStdout()
			printKeyValue(out, "listen", cfg.Listen)
			printKeyValue(out, "cache", cacheLabel(cfg.Cache.Backend, noCache))

			return server.New(runner, c.Logger, cfg.Render).ListenAndServe(ctx, cfg.Listen)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

func cacheLabel(backend string, noCache bool) string {
	if noCache {
		return "disabled"
	}
	return backend
}
