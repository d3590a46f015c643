package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	md2pptx "github.com/xenking/md2pptx"
	"github.com/xenking/md2pptx/internal/adapters"
	"github.com/xenking/md2pptx/internal/config"
	"github.com/xenking/md2pptx/internal/domain"
	"github.com/xenking/md2pptx/internal/metrics"
	"github.com/xenking/md2pptx/pkg/log"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:           "md2pptx",
	Short:         "Convert Markdown into PowerPoint presentations",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn or error")

	rootCmd.AddCommand(convertCmd, inspectCmd, serveCmd, mcpCmd, botCmd, manifestCmd, themesCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// env is what every command shares: configuration, logging and the
// conversion pipeline.
type env struct {
	cfg       config.Config
	level     slog.Level
	logger    *slog.Logger
	themes    *adapters.ThemeRegistry
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	converter domain.PresentationConverter
}

func newEnv() (*env, error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	// stdout belongs to command output and the MCP stdio transport
	logger := log.New(os.Stderr, level)
	slog.SetDefault(logger)

	themes, err := adapters.NewThemeRegistry(md2pptx.Themes(), cfg.Themes.Dir, logger)
	if err != nil {
		return nil, fmt.Errorf("load themes: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	converter := adapters.NewPPTXConverter(adapters.NewMarkdownDeckParser(), themes, adapters.NewPPTXRenderer())
	return &env{
		cfg:       cfg,
		level:     level,
		logger:    logger,
		themes:    themes,
		registry:  reg,
		metrics:   m,
		converter: metrics.InstrumentConverter(converter, m),
	}, nil
}

// watchThemes reloads the themes directory in the background when enabled.
func (e *env) watchThemes(ctx context.Context) {
	if !e.cfg.Themes.Watch || e.cfg.Themes.Dir == "" {
		return
	}
	go func() {
		if err := e.themes.Watch(ctx); err != nil {
			e.logger.ErrorContext(ctx, "watch themes", slog.Any("error", err))
		}
	}()
}
