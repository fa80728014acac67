package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/drhimam/islamic-will-creator/internal/application"
	"github.com/drhimam/islamic-will-creator/internal/config"
	"github.com/drhimam/islamic-will-creator/internal/logging"
)

var signalNotify = signal.Notify

func main() {
	cfg, err := config.Load(parseFlags(os.Args[1:]))
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	if err := shutdown(app.Server(), cfg.ShutdownGracePeriod, logger); err != nil {
		logger.Error("server did not stop cleanly", zap.Error(err))
	}
}

// parseFlags maps command-line flags onto configuration overrides. Flags left
// unset do not override lower-precedence sources.
func parseFlags(args []string) *config.CLIOverrides {
	kingpinApp := kingpin.New("faraid-server", "Islamic inheritance (Fara'id) distribution service")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	port := kingpinApp.Flag("port", "HTTP port exposed by the service").String()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()
	rateLimitRPSFlag := kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64()
	rateLimitBurstFlag := kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int()
	var awlSet bool
	awl := kingpinApp.Flag("awl", "Scale fixed shares down proportionally when they exceed the estate (--no-awl to disable)").
		IsSetByUser(&awlSet).Bool()
	batchMax := kingpinApp.Flag("batch-max-size", "Maximum estates per batch request").Default("0").Int()
	batchWorkers := kingpinApp.Flag("batch-workers", "Estates evaluated concurrently per batch request").Default("0").Int()

	kingpin.MustParse(kingpinApp.Parse(args))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
	}

	if *port != "" {
		overrides.Port = port
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	if *rateLimitRPSFlag >= 0 {
		overrides.RateLimitRPS = rateLimitRPSFlag
	}

	if *rateLimitBurstFlag >= 0 {
		overrides.RateLimitBurst = rateLimitBurstFlag
	}

	if awlSet {
		overrides.ApplyAwl = awl
	}

	if *batchMax > 0 {
		overrides.MaxBatchSize = batchMax
	}

	if *batchWorkers > 0 {
		overrides.BatchWorkers = batchWorkers
	}

	return overrides
}

// shutdown waits for an interrupt or SIGTERM, then lets in-flight
// calculations finish within grace before closing remaining connections.
func shutdown(server *http.Server, grace time.Duration, logger *zap.Logger) error {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	sig := <-quit
	logger.Info("stopping distribution service",
		zap.Stringer("signal", sig),
		zap.Duration("grace_period", grace),
	)

	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("grace period elapsed, closing connections", zap.Error(err))
		return multierr.Append(fmt.Errorf("drain connections: %w", err), server.Close())
	}
	logger.Info("distribution service stopped")
	return nil
}
