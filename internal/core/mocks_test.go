package core

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"raincheck/internal/config"
	"raincheck/internal/forecasts"
	"raincheck/internal/scheduler"
	"raincheck/internal/types"
)

// mockChecker implements ForecastChecker.
type mockChecker struct {
	mu     sync.Mutex
	check  *forecasts.Check
	err    error
	params []forecasts.Params
	locs   []types.Location
}

func (m *mockChecker) Check(_ context.Context, loc types.Location, p forecasts.Params) (*forecasts.Check, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params = append(m.params, p)
	m.locs = append(m.locs, loc)
	return m.check, m.err
}

// mockRunner implements RunExecutor. When release is non-nil Run blocks on
// it after signalling started.
type mockRunner struct {
	report  scheduler.Report
	err     error
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (m *mockRunner) Run(ctx context.Context) (scheduler.Report, error) {
	m.calls.Add(1)
	if m.started != nil {
		m.started <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}
	return m.report, m.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "local",
		Location:    config.LocationConfig{City: "Brooklyn", Latitude: 40.6782, Longitude: -73.9442, Timezone: "America/New_York"},
		Rain:        config.RainConfig{HoursAhead: 12, Threshold: 30, IncludeSummary: true},
		Server:      config.ServerConfig{RequestTimeout: 5 * time.Second},
		Build:       config.BuildInfo{Version: "1.2.3"},
	}
}

func newTestServer(checker *mockChecker, runner *mockRunner) *Server {
	srv, err := NewServer(testConfig(), discardLogger(), checker, runner)
	if err != nil {
		panic(err)
	}
	srv.MountRoutes()
	return srv
}
