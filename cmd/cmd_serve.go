package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	md2pptx "github.com/xenking/md2pptx"
	"github.com/xenking/md2pptx/internal/adapters"
	"github.com/xenking/md2pptx/internal/app"
	"github.com/xenking/md2pptx/internal/manifest"
	"github.com/xenking/md2pptx/internal/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tool over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		plugin, err := manifest.Load(md2pptx.Manifest())
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		e.watchThemes(ctx)

		server := ports.NewHTTPServer(
			ports.HTTPConfig{
				Addr:         e.cfg.HTTP.Addr,
				RateRPS:      e.cfg.HTTP.RateRPS,
				RateBurst:    e.cfg.HTTP.RateBurst,
				MaxBodyBytes: e.cfg.HTTP.MaxBodyBytes,
			},
			app.NewPptTool(e.converter, e.logger),
			plugin,
			adapters.NewPPTXPreviewer(),
			e.registry,
			e.metrics,
			e.logger,
		)
		return server.Run(ctx)
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the tool over MCP on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		plugin, err := manifest.Load(md2pptx.Manifest())
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		e.watchThemes(ctx)

		server, err := ports.NewMCPServer(plugin, app.NewPptTool(e.converter, e.logger), e.logger)
		if err != nil {
			return err
		}
		err = server.Serve(ctx, os.Stdin, os.Stdout)
		if err != nil && ctx.Err() == nil {
			return err
		}
		e.logger.Info("mcp server stopped", slog.Any("reason", ctx.Err()))
		return nil
	},
}
