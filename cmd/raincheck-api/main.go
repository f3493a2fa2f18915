// Package main is the entry point for the rain check API server.
//
// It serves GET /v1/rain-check (analysis only, never notifies) and
// POST /v1/rain-check/run (a full run including notification) for the
// configured location, plus GET /health.
//
// Graceful shutdown is handled via OS signal interception (SIGINT, SIGTERM).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"raincheck/internal/config"
	"raincheck/internal/core"
	"raincheck/internal/external"
	"raincheck/internal/scheduler"
	"raincheck/internal/types"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run encapsulates the startup lifecycle so that main() can cleanly exit on error.
func run() error {
	cfg, err := config.LoadConfig(config.NewSSMProvider(os.Getenv("AWS_REGION")))
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := cfg.NewLogger(os.Stderr)
	logger.Info("raincheck API starting",
		"environment", cfg.Environment,
		"version", cfg.Build.Version,
		"commit", cfg.Build.Commit,
		"port", cfg.Server.Port,
		"city", cfg.Location.City,
	)

	srv, err := newServer(context.Background(), cfg, logger)
	if err != nil {
		return err
	}

	return runHTTPServer(srv, cfg, logger)
}

// newServer wires the forecast client, the rain check and the HTTP chassis.
func newServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*core.Server, error) {
	appLogger := types.NewSlogLogger(logger)

	forecastClient := external.NewOpenMeteoClient(external.OpenMeteoClientConfig{
		BaseURL:   cfg.Forecast.BaseURL,
		Timeout:   cfg.Forecast.Timeout,
		UserAgent: cfg.Forecast.UserAgent,
		Logger:    appLogger,
	})

	deps := scheduler.Deps{
		Stdout:   os.Stdout,
		Logger:   appLogger,
		Forecast: forecastClient,
	}
	if cfg.NeedsAWS() {
		awsCfg, err := cfg.LoadAWS(ctx)
		if err != nil {
			return nil, err
		}
		deps.SQS = sqs.NewFromConfig(awsCfg)
		deps.CloudWatch = cloudwatch.NewFromConfig(awsCfg)
	}

	rc, service, err := scheduler.Build(cfg, deps)
	if err != nil {
		return nil, fmt.Errorf("building rain check: %w", err)
	}

	srv, err := core.NewServer(cfg, logger, service, rc)
	if err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}
	srv.HealthProbes = append(srv.HealthProbes, core.NewBreakerProbe("forecast_provider", forecastClient.BreakerState))
	srv.MountRoutes()
	return srv, nil
}

// runHTTPServer starts the server in standard HTTP mode with graceful shutdown.
func runHTTPServer(srv *core.Server, cfg *config.Config, logger *slog.Logger) error {
	addr := ":" + cfg.Server.Port

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)

	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig.String())
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	logger.Info("initiating graceful shutdown")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("server stopped cleanly")
	return nil
}
