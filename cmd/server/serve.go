package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/johann/setlab/internal/config"
	"github.com/johann/setlab/internal/logging"
	"github.com/johann/setlab/internal/server"
	"github.com/johann/setlab/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server",
	Long:  "Start the HTTP server with the web UI and the power set and equality endpoints.",
	RunE:  runServe,
}

var (
	serveListenAddr  string
	serveMetricsPort int
	serveTitle       string
	serveMaxElements int
	serveLogLevel    string
	serveLogFormat   string
)

func init() {
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", "", "Listen address (default from config or :8080)")
	serveCmd.Flags().IntVar(&serveMetricsPort, "metrics-port", 0, "Port for Prometheus metrics (disabled if 0)")
	serveCmd.Flags().StringVar(&serveTitle, "title", "", "Title for the web UI")
	serveCmd.Flags().IntVar(&serveMaxElements, "max-elements", 0, "Largest accepted power set input")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	serveCmd.Flags().StringVar(&serveLogFormat, "log-format", "", "Log format: json or console")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadServer()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyServeFlags(cmd, cfg)

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	srv, err := server.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting server",
		zap.String("version", version.Get().Version),
		zap.String("listen_addr", cfg.ListenAddr),
		zap.Int("metrics_port", cfg.MetricsPort),
		zap.Int("max_elements", cfg.MaxElements),
		zap.Float64("rate_limit", cfg.RateLimit))

	return srv.Run(ctx)
}

// applyServeFlags lets explicitly set flags override file and environment values
func applyServeFlags(cmd *cobra.Command, cfg *config.ServerConfig) {
	flags := cmd.Flags()
	if flags.Changed("listen") {
		cfg.ListenAddr = serveListenAddr
	}
	if flags.Changed("metrics-port") {
		cfg.MetricsPort = serveMetricsPort
	}
	if flags.Changed("title") {
		cfg.Title = serveTitle
	}
	if flags.Changed("max-elements") {
		cfg.MaxElements = serveMaxElements
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = serveLogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = serveLogFormat
	}
}
