package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"raincheck/internal/forecasts"
	"raincheck/internal/scheduler"
	"raincheck/internal/types"
)

// defaultRequestTimeout applies when the configuration has no timeout.
const defaultRequestTimeout = 25 * time.Second

// defaultRedactedHeaders are masked in request logs.
var defaultRedactedHeaders = []string{
	"Authorization",
	"Cookie",
}

// maxQueryHours bounds the hours override; the provider serves 16 days of
// hourly data.
const maxQueryHours = 384

// runKey is the singleflight key shared by all run requests: every run uses
// the same configured location and sink.
const runKey = "rain-check-run"

// MountRoutes registers the middleware chain and all routes.
//
// Order: Recoverer (outermost), ContextTimeout, RequestID, RequestLogger.
func (s *Server) MountRoutes() {
	s.router.Use(s.Recoverer)
	s.router.Use(ContextTimeoutMiddleware(s.requestTimeout()))
	s.router.Use(RequestIDMiddleware)
	s.router.Use(RequestLogger(s.Logger, defaultRedactedHeaders))

	s.router.Get("/health", s.HandleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Get("/rain-check", s.HandleRainCheck)
		r.Post("/rain-check/run", s.HandleRun)
	})
}

func (s *Server) requestTimeout() time.Duration {
	if s.Config != nil && s.Config.Server.RequestTimeout > 0 {
		return s.Config.Server.RequestTimeout
	}
	return defaultRequestTimeout
}

// rainCheckResponse is the body of GET /v1/rain-check.
type rainCheckResponse struct {
	Location   types.Location     `json:"location"`
	HoursAhead int                `json:"hours_ahead"`
	Threshold  int                `json:"threshold"`
	Analysis   types.RainAnalysis `json:"analysis"`
	Message    string             `json:"message"`
	FetchedAt  time.Time          `json:"fetched_at"`
}

// HandleRainCheck fetches and analyzes the forecast for the configured
// location without notifying. The hours and threshold query parameters
// override the configured values; a malformed or out-of-range value is a 400.
func (s *Server) HandleRainCheck(w http.ResponseWriter, r *http.Request) {
	params := s.params()
	q := r.URL.Query()

	var err error
	if params.HoursAhead, err = queryInt(q, "hours", params.HoursAhead, 1, maxQueryHours); err != nil {
		Error(w, r, err)
		return
	}
	if params.Threshold, err = queryInt(q, "threshold", params.Threshold, 0, 100); err != nil {
		Error(w, r, err)
		return
	}

	loc := s.Config.ForecastLocation()
	check, err := s.Checker.Check(r.Context(), loc, params)
	if err != nil {
		Error(w, r, err)
		return
	}

	JSON(w, r, http.StatusOK, APIResponse{Data: rainCheckResponse{
		Location:   loc,
		HoursAhead: params.HoursAhead,
		Threshold:  params.Threshold,
		Analysis:   check.Analysis,
		Message:    check.Message,
		FetchedAt:  check.FetchedAt,
	}})
}

// HandleRun performs a full rain check including notification. Concurrent
// requests share one run. A fetch failure is a completed run (200 with
// outcome fetch_failed); a delivery failure is a 502.
func (s *Server) HandleRun(w http.ResponseWriter, r *http.Request) {
	// The run outlives a disconnecting caller so other waiters still get it.
	ctx := context.WithoutCancel(r.Context())

	v, err, shared := s.runs.Do(runKey, func() (any, error) {
		return s.Runner.Run(ctx)
	})
	report, _ := v.(scheduler.Report)
	if err != nil {
		var appErr *types.AppError
		if errors.As(err, &appErr) {
			err = appErr.WithDetails(map[string]any{
				"run_id":  report.RunID,
				"outcome": string(report.Outcome),
			})
		}
		Error(w, r, err)
		return
	}

	if shared {
		w.Header().Set("X-Run-Shared", "true")
	}
	JSON(w, r, http.StatusOK, APIResponse{Data: report})
}

func (s *Server) params() forecasts.Params {
	return forecasts.Params{
		HoursAhead:     int(s.Config.Rain.HoursAhead),
		Threshold:      int(s.Config.Rain.Threshold),
		IncludeSummary: bool(s.Config.Rain.IncludeSummary),
		City:           s.Config.Location.City,
	}
}

// queryInt reads an optional integer query parameter within [lo, hi]. An
// absent parameter yields fallback.
func queryInt(q url.Values, name string, fallback, lo, hi int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < lo || v > hi {
		return 0, types.NewAppError(types.ErrCodeValidationInvalidQuery,
			fmt.Sprintf("%s must be an integer between %d and %d", name, lo, hi), err,
		).WithDetails(map[string]any{"parameter": name, "value": raw})
	}
	return v, nil
}
