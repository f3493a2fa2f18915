// Package core provides the HTTP chassis for the rain check API. It builds a
// chi router, applies cross-cutting middleware (panic recovery, request IDs,
// request logging) and mounts the health and rain-check routes.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"

	"raincheck/internal/config"
	"raincheck/internal/forecasts"
	"raincheck/internal/scheduler"
	"raincheck/internal/types"
)

// ForecastChecker fetches and analyzes a forecast without notifying.
type ForecastChecker interface {
	Check(ctx context.Context, loc types.Location, p forecasts.Params) (*forecasts.Check, error)
}

// RunExecutor performs one full rain check including notification.
type RunExecutor interface {
	Run(ctx context.Context) (scheduler.Report, error)
}

// Server encapsulates the API dependencies so tests can inject fakes.
type Server struct {
	Config       *config.Config
	Logger       *slog.Logger
	Checker      ForecastChecker
	Runner       RunExecutor
	HealthProbes []HealthProbe

	runs   singleflight.Group
	router *chi.Mux
}

// NewServer validates the critical dependencies and prepares the router.
// The caller mounts routes with MountRoutes.
func NewServer(cfg *config.Config, logger *slog.Logger, checker ForecastChecker, runner RunExecutor) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if checker == nil {
		return nil, fmt.Errorf("forecast checker must not be nil")
	}
	if runner == nil {
		return nil, fmt.Errorf("run executor must not be nil")
	}

	return &Server{
		Config:  cfg,
		Logger:  logger,
		Checker: checker,
		Runner:  runner,
		router:  chi.NewRouter(),
	}, nil
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Shutdown logs termination. The server holds no pooled resources; in-flight
// coalesced runs finish on their own context.
func (s *Server) Shutdown(_ context.Context) error {
	s.Logger.Info("server shutdown complete")
	return nil
}
