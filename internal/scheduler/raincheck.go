package scheduler

import (
	"context"

	"github.com/google/uuid"

	"raincheck/internal/forecasts"
	"raincheck/internal/notifications"
	"raincheck/internal/types"
)

// Checker fetches and analyzes one forecast.
type Checker interface {
	Check(ctx context.Context, loc types.Location, p forecasts.Params) (*forecasts.Check, error)
}

// Notifier delivers a notification to the configured sink.
type Notifier interface {
	Notify(ctx context.Context, n *notifications.Notification) (notifications.Receipt, error)
	Channel() types.ChannelType
}

// RainCheckConfig holds the dependencies and settings of a RainCheck.
type RainCheckConfig struct {
	Checker  Checker
	Notifier Notifier
	Console  *notifications.Console
	Metrics  RunMetrics

	Location     types.Location
	Params       forecasts.Params
	WeekdaysOnly bool

	Logger types.Logger
	Clock  types.Clock
}

// RainCheck runs the fetch, analyze, decide and notify pipeline.
type RainCheck struct {
	checker  Checker
	notifier Notifier
	console  *notifications.Console
	metrics  RunMetrics

	location     types.Location
	params       forecasts.Params
	weekdaysOnly bool

	logger types.Logger
	clock  types.Clock
	newID  func() string
}

// NewRainCheck creates a RainCheck from cfg.
func NewRainCheck(cfg RainCheckConfig) *RainCheck {
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	clock := cfg.Clock
	if clock == nil {
		clock = types.RealClock{}
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NopRunMetrics{}
	}
	console := cfg.Console
	if console == nil {
		console = notifications.NewConsole(nil)
	}
	return &RainCheck{
		checker:      cfg.Checker,
		notifier:     cfg.Notifier,
		console:      console,
		metrics:      metrics,
		location:     cfg.Location,
		params:       cfg.Params,
		weekdaysOnly: cfg.WeekdaysOnly,
		logger:       logger,
		clock:        clock,
		newID:        uuid.NewString,
	}
}

// Run performs one rain check.
//
// A forecast fetch failure prints a diagnostic and returns OutcomeFetchFailed
// with a nil error. No rain prints the no-rain line. A delivery failure
// returns OutcomeNotifyFailed and the send error.
func (r *RainCheck) Run(ctx context.Context) (Report, error) {
	runID := r.newID()
	ctx = types.WithRequestID(ctx, runID)
	logger := r.logger.With("run_id", runID)
	ctx = types.WithLogger(ctx, logger)

	report := Report{RunID: runID}

	check, err := r.checker.Check(ctx, r.location, r.params)
	if check != nil {
		r.metrics.RecordFetchLatency(ctx, check.FetchDuration)
	}
	if err != nil {
		r.console.Println(forecasts.FetchFailedMessage(err))
		logger.Warn("rain check ended without forecast", "error", err.Error())
		return r.finish(ctx, logger, report, OutcomeFetchFailed), nil
	}

	analysis := check.Analysis
	report.Analysis = &analysis
	report.Message = check.Message

	if !analysis.RainExpected {
		r.console.Println(check.Message)
		return r.finish(ctx, logger, report, OutcomeSkippedNoRain), nil
	}

	if r.weekdaysOnly && forecasts.IsWeekend(check.Forecast) {
		r.console.Println(forecasts.WeekendSkipMessage(r.params.City))
		return r.finish(ctx, logger, report, OutcomeSkippedWeekend), nil
	}

	n := &notifications.Notification{
		Text:  check.Message,
		Alert: r.alert(runID, check),
	}
	receipt, err := r.notifier.Notify(ctx, n)
	report.Receipt = &receipt
	if err != nil {
		return r.finish(ctx, logger, report, OutcomeNotifyFailed), err
	}

	return r.finish(ctx, logger, report, OutcomeNotified), nil
}

func (r *RainCheck) alert(runID string, check *forecasts.Check) *types.RainAlert {
	return &types.RainAlert{
		AlertID:         r.newID(),
		RunID:           runID,
		Location:        r.location,
		HoursAhead:      r.params.HoursAhead,
		Threshold:       r.params.Threshold,
		PeakProbability: check.Analysis.PeakProbability,
		PeakTime:        check.Analysis.PeakTime,
		Message:         check.Message,
		CreatedAt:       r.clock.Now(),
	}
}

func (r *RainCheck) finish(ctx context.Context, logger types.Logger, report Report, outcome Outcome) Report {
	report.Outcome = outcome
	r.metrics.RecordRun(ctx, outcome)
	logger.Info("rain check complete", "outcome", string(outcome))
	return report
}
