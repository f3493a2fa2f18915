// Package notifications delivers a rain-check message to the configured sink.
//
// Every sink degrades to the console when it is selected but not configured
// (missing push credentials, webhook URL or queue URL): it prints one
// diagnostic line followed by the message and reports success. A sink that
// is configured but fails to deliver returns an error satisfying
// types.IsSendError. Nothing is retried.
package notifications

import (
	"context"
	"time"

	"raincheck/internal/types"
)

// Notification is the unit handed to a Sink. Text is the human-readable
// message; Alert carries the same content in structured form for sinks that
// send more than a line of text. Alert may be nil.
type Notification struct {
	Text  string
	Alert *types.RainAlert
}

// Receipt describes how a notification was actually delivered.
type Receipt struct {
	// Channel is the sink that produced the output. It is ChannelConsole
	// when a misconfigured sink fell back.
	Channel types.ChannelType `json:"channel"`
	// Fallback is true when the selected sink degraded to the console.
	Fallback bool `json:"fallback"`
	// ProviderMessageID is the upstream reference when one is returned.
	ProviderMessageID string `json:"provider_message_id,omitempty"`
}

// Sink delivers a Notification through one channel.
type Sink interface {
	Type() types.ChannelType
	Send(ctx context.Context, n *Notification) (Receipt, error)
}

// MetricResult categorizes a delivery outcome for metrics reporting.
type MetricResult string

const (
	MetricSuccess  MetricResult = "success"
	MetricFailed   MetricResult = "failed"
	MetricFallback MetricResult = "fallback"
)

// Metrics abstracts delivery telemetry.
type Metrics interface {
	RecordDelivery(ctx context.Context, channel types.ChannelType, result MetricResult)
	RecordLatency(ctx context.Context, channel types.ChannelType, duration time.Duration)
}

// NopMetrics discards all metrics. Used when METRICS_ENABLED is false.
type NopMetrics struct{}

func (NopMetrics) RecordDelivery(context.Context, types.ChannelType, MetricResult) {}
func (NopMetrics) RecordLatency(context.Context, types.ChannelType, time.Duration) {}
