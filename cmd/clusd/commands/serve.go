package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clusproject/clus/internal/logger"
	"github.com/clusproject/clus/pkg/api"
	"github.com/clusproject/clus/pkg/cluster"
	"github.com/clusproject/clus/pkg/config"
	"github.com/clusproject/clus/pkg/metrics"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the clusd servers",
	Long: `Start the REST admin API and, if enabled, the Prometheus metrics
endpoint, then block until interrupted.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/clus/config.yaml.

Examples:
  # Start with the default configuration
  clusd serve

  # Start with a custom config file
  clusd serve --config /etc/clus/config.yaml

  # Start with environment variable overrides
  CLUSD_LOGGING_LEVEL=DEBUG clusd serve`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("clusd starting",
		logger.KeyVersion, Version,
		logger.KeyCluster, cfg.Cluster.Name)

	open := func() (*cluster.Session, error) {
		return cluster.Open(cfg.Cluster.Name)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverDone := make(chan error, 2)
	servers := 0

	if cfg.API.IsEnabled() {
		apiServer := api.NewServer(cfg.API, open)
		logger.Info("API server configured", logger.KeyComponent, "api", "port", apiServer.Port())
		servers++
		go func() { serverDone <- apiServer.Start(ctx) }()
	} else {
		logger.Info("API server disabled", logger.KeyComponent, "api")
	}

	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port, open)
		logger.Info("metrics server configured", logger.KeyComponent, "metrics", "port", metricsServer.Port())
		servers++
		go func() { serverDone <- metricsServer.Start(ctx) }()
	} else {
		logger.Info("metrics collection disabled", logger.KeyComponent, "metrics")
	}

	if servers == 0 {
		return fmt.Errorf("nothing to serve: both the API and metrics servers are disabled")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("clusd is running, press Ctrl+C to stop")

	var firstErr error
	select {
	case sig := <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received", logger.KeySignal, sig.String())
		cancel()
	case err := <-serverDone:
		signal.Stop(sigChan)
		servers--
		if err != nil {
			firstErr = err
			logger.Error("server failed", logger.KeyError, err)
		}
		cancel()
	}

	// Wait for the remaining servers to drain, bounded by the configured
	// shutdown timeout.
	timeout := time.After(cfg.ShutdownTimeout)
	for servers > 0 {
		select {
		case err := <-serverDone:
			servers--
			if err != nil && firstErr == nil {
				firstErr = err
			}
		case <-timeout:
			logger.Error("shutdown timeout exceeded", logger.KeyDuration, cfg.ShutdownTimeout.Milliseconds())
			return fmt.Errorf("shutdown timed out after %s", cfg.ShutdownTimeout)
		}
	}

	if firstErr != nil {
		return firstErr
	}
	logger.Info("clusd stopped gracefully")
	return nil
}
