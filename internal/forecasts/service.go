package forecasts

import (
	"context"
	"time"

	"raincheck/internal/external"
	"raincheck/internal/types"
)

// Params are the analysis knobs for one check.
type Params struct {
	HoursAhead     int
	Threshold      int
	IncludeSummary bool
	City           string
}

// Check is the result of fetching and analyzing one forecast.
type Check struct {
	Forecast      *types.ForecastResponse
	Analysis      types.RainAnalysis
	Message       string
	FetchedAt     time.Time
	FetchDuration time.Duration
}

// Service fetches a forecast and analyzes it. It does not notify.
type Service struct {
	client external.ForecastClient
	logger types.Logger
	clock  types.Clock
}

// NewService creates a Service with the provided dependencies.
func NewService(client external.ForecastClient, logger types.Logger, clock types.Clock) *Service {
	if logger == nil {
		logger = types.NopLogger{}
	}
	if clock == nil {
		clock = types.RealClock{}
	}
	return &Service{
		client: client,
		logger: logger,
		clock:  clock,
	}
}

// Check performs a single forecast fetch for loc and runs AnalyzeRain over
// it. Message is the rain notification text when rain is expected and the
// no-rain line otherwise. A fetch failure is returned unchanged (it satisfies
// types.IsFetchError) together with the elapsed fetch duration.
func (s *Service) Check(ctx context.Context, loc types.Location, p Params) (*Check, error) {
	start := s.clock.Now()
	resp, err := s.client.FetchHourly(ctx, loc)
	elapsed := s.clock.Now().Sub(start)
	if err != nil {
		s.logger.Warn("forecast fetch failed",
			"error", err.Error(),
			"duration_ms", elapsed.Milliseconds(),
		)
		return &Check{FetchedAt: start, FetchDuration: elapsed}, err
	}

	analysis := AnalyzeRain(resp, p.HoursAhead, p.Threshold, p.IncludeSummary)

	msg := NoRainMessage(p.HoursAhead, p.City)
	if analysis.RainExpected {
		msg = RainMessage(p.HoursAhead, p.City, analysis.Summary)
	}

	s.logger.Info("forecast analyzed",
		"rain_expected", analysis.RainExpected,
		"peak_probability", analysis.PeakProbability,
		"peak_time", analysis.PeakTime,
		"hours_considered", analysis.HoursConsidered,
	)

	return &Check{
		Forecast:      resp,
		Analysis:      analysis,
		Message:       msg,
		FetchedAt:     start,
		FetchDuration: elapsed,
	}, nil
}
