// Package scheduler runs the rain check: fetch the forecast, analyze the
// look-ahead window, decide and notify.
//
// A run always reaches exactly one terminal Outcome in a single pass. There
// are no retries; repeated runs may notify again.
package scheduler

import (
	"raincheck/internal/notifications"
	"raincheck/internal/types"
)

// Outcome is the terminal state of one run.
type Outcome string

const (
	OutcomeNotified       Outcome = "notified"
	OutcomeSkippedNoRain  Outcome = "skipped_no_rain"
	OutcomeSkippedWeekend Outcome = "skipped_weekend"

	// OutcomeFetchFailed is reported with a nil error: schedulers must not
	// treat an unreachable forecast provider as a failed run.
	OutcomeFetchFailed Outcome = "fetch_failed"

	// OutcomeNotifyFailed is reported together with the send error.
	OutcomeNotifyFailed Outcome = "notify_failed"
)

// Report describes one completed run.
type Report struct {
	RunID    string                 `json:"run_id"`
	Outcome  Outcome                `json:"outcome"`
	Analysis *types.RainAnalysis    `json:"analysis,omitempty"`
	Message  string                 `json:"message,omitempty"`
	Receipt  *notifications.Receipt `json:"receipt,omitempty"`
}
