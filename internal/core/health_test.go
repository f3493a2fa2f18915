package core

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sony/gobreaker/v2"
)

type mockHealthProbe struct {
	name string
	err  error
}

func (m *mockHealthProbe) Name() string                { return m.name }
func (m *mockHealthProbe) Check(context.Context) error { return m.err }

type panickingProbe struct{}

func (panickingProbe) Name() string                { return "panicky" }
func (panickingProbe) Check(context.Context) error { panic("probe exploded") }

func runHealth(t *testing.T, probes ...HealthProbe) (*httptest.ResponseRecorder, healthResponse) {
	t.Helper()
	srv := newTestServer(&mockChecker{}, &mockRunner{})
	srv.HealthProbes = probes

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid health JSON: %v", err)
	}
	return rec, body
}

func TestHandleHealth_NoProbes(t *testing.T) {
	rec, body := runHealth(t)

	if rec.Code != http.StatusOK || body.Status != "healthy" {
		t.Errorf("got %d %q, want 200 healthy", rec.Code, body.Status)
	}
	if body.Version != "1.2.3" {
		t.Errorf("version = %q", body.Version)
	}
}

func TestHandleHealth_AllHealthy(t *testing.T) {
	rec, body := runHealth(t, &mockHealthProbe{name: "a"}, &mockHealthProbe{name: "b"})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(body.Components) != 2 || body.Components["a"].Status != "healthy" {
		t.Errorf("components = %+v", body.Components)
	}
}

func TestHandleHealth_FailingProbe(t *testing.T) {
	rec, body := runHealth(t, &mockHealthProbe{name: "ok"}, &mockHealthProbe{name: "broken", err: errors.New("down")})

	if rec.Code != http.StatusServiceUnavailable || body.Status != "unhealthy" {
		t.Fatalf("got %d %q", rec.Code, body.Status)
	}
	if body.Components["broken"].Message != "down" {
		t.Errorf("message = %q", body.Components["broken"].Message)
	}
}

func TestHandleHealth_PanickingProbe(t *testing.T) {
	rec, body := runHealth(t, panickingProbe{})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", rec.Code)
	}
	if body.Components["panicky"].Status != "unhealthy" {
		t.Errorf("components = %+v", body.Components)
	}
}

func TestBreakerProbe(t *testing.T) {
	state := gobreaker.StateClosed
	probe := NewBreakerProbe("forecast", func() gobreaker.State { return state })

	if probe.Name() != "forecast" {
		t.Errorf("Name = %q", probe.Name())
	}
	if err := probe.Check(context.Background()); err != nil {
		t.Errorf("closed breaker should be healthy: %v", err)
	}
	state = gobreaker.StateHalfOpen
	if err := probe.Check(context.Background()); err != nil {
		t.Errorf("half-open breaker should be healthy: %v", err)
	}
	state = gobreaker.StateOpen
	if err := probe.Check(context.Background()); err == nil {
		t.Error("open breaker should be unhealthy")
	}
}
