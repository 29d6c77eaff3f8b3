package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/carousel/pkg/preset"
	"github.com/matzehuels/carousel/pkg/server"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noPresets bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Routes:
  GET    /healthz
  POST   /v1/keylines
  POST   /v1/place
  GET    /v1/presets
  GET    /v1/presets/{name}
  PUT    /v1/presets/{name}
  DELETE /v1/presets/{name}
  GET    /v1/presets/{name}/layout?scroll=N

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Example: `  carousel serve --addr :8080
  curl -s localhost:8080/v1/keylines -d '{"strategy":"hero","preferred_item_size":240}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg := c.Config.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Cache.Close()

			var store preset.Store
			if !noPresets {
				if store, err = c.newStore(ctx); err != nil {
					return err
				}
				defer store.Close()
			}

			c.Logger.Info("starting server",
				"cache", c.Config.Cache.Backend,
				"presets", presetBackendName(c.Config.Presets.Backend, noPresets))
			return server.New(runner, store, cfg, c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noPresets, "no-presets", false, "disable the preset routes")

	return cmd
}

func presetBackendName(backend string, disabled bool) string {
	if disabled {
		return "disabled"
	}
	return backend
}
