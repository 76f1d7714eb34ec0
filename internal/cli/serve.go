package cli

import (
	"github.com/spf13/cobra"

	"github.com/rigport/rigport/internal/api"
	"github.com/rigport/rigport/pkg/errors"
	"github.com/rigport/rigport/pkg/pipeline"
	"github.com/rigport/rigport/pkg/render"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		assets  string
		noCache bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the import API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if assets == "" {
				assets = cfg.Server.Assets
			}
			if assets == "" {
				return errors.New(errors.ErrCodeInvalidConfig, "no assets folder: pass --assets or set server.assets")
			}

			formats, err := render.ParseFormats(cfg.Render.Formats)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := api.New(runner, api.Config{
				Assets: assets,
				Defaults: pipeline.Options{
					Formats:    formats,
					Detailed:   cfg.Render.Detailed,
					Swatch:     cfg.Render.Swatch,
					SwatchTile: cfg.Render.SwatchTile,
				},
			}, loggerFromContext(ctx))
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr or :8080)")
	cmd.Flags().StringVar(&assets, "assets", "", "assets folder jobs resolve files under")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
