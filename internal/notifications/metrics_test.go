package notifications

import (
	"context"
	"fmt"
	"testing"
	"time"

	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"raincheck/internal/types"
)

func TestCloudWatchMetrics_RecordDelivery(t *testing.T) {
	cw := &mockCloudWatchClient{}
	metrics := NewCloudWatchMetrics(cw, "", &mockLogger{})

	metrics.RecordDelivery(context.Background(), types.ChannelPushover, MetricSuccess)

	if len(cw.calls) != 1 {
		t.Fatalf("expected 1 PutMetricData call, got %d", len(cw.calls))
	}

	input := cw.calls[0]
	if *input.Namespace != types.DefaultMetricNamespace {
		t.Errorf("expected namespace %q, got %q", types.DefaultMetricNamespace, *input.Namespace)
	}

	datum := input.MetricData[0]
	if *datum.MetricName != types.MetricDeliveryAttempt {
		t.Errorf("expected metric name %q, got %q", types.MetricDeliveryAttempt, *datum.MetricName)
	}
	if *datum.Value != 1.0 {
		t.Errorf("expected value 1.0, got %f", *datum.Value)
	}
	if datum.Unit != cwtypes.StandardUnitCount {
		t.Errorf("expected unit Count, got %s", datum.Unit)
	}

	assertDimension(t, datum.Dimensions, types.DimChannel, string(types.ChannelPushover))
	assertDimension(t, datum.Dimensions, types.DimResult, string(MetricSuccess))
}

func TestCloudWatchMetrics_CustomNamespace(t *testing.T) {
	cw := &mockCloudWatchClient{}
	NewCloudWatchMetrics(cw, "Custom/Rain", nil).RecordDelivery(context.Background(), types.ChannelSQS, MetricFailed)

	if got := *cw.calls[0].Namespace; got != "Custom/Rain" {
		t.Errorf("expected namespace Custom/Rain, got %q", got)
	}
}

func TestCloudWatchMetrics_RecordLatency(t *testing.T) {
	cw := &mockCloudWatchClient{}
	metrics := NewCloudWatchMetrics(cw, "", &mockLogger{})

	metrics.RecordLatency(context.Background(), types.ChannelWebhook, 250*time.Millisecond)

	datum := cw.calls[0].MetricData[0]
	if *datum.MetricName != "DeliveryAttemptLatency" {
		t.Errorf("unexpected metric name %q", *datum.MetricName)
	}
	if *datum.Value != 250 {
		t.Errorf("expected 250ms, got %f", *datum.Value)
	}
	if datum.Unit != cwtypes.StandardUnitMilliseconds {
		t.Errorf("expected unit Milliseconds, got %s", datum.Unit)
	}
}

func TestCloudWatchMetrics_ErrorIsSwallowed(t *testing.T) {
	cw := &mockCloudWatchClient{returnErr: fmt.Errorf("throttled")}
	metrics := NewCloudWatchMetrics(cw, "", &mockLogger{})

	// Must not panic.
	metrics.RecordDelivery(context.Background(), types.ChannelConsole, MetricSuccess)
	metrics.RecordLatency(context.Background(), types.ChannelConsole, time.Second)

	if len(cw.calls) != 2 {
		t.Errorf("expected 2 calls, got %d", len(cw.calls))
	}
}

func assertDimension(t *testing.T, dims []cwtypes.Dimension, name, value string) {
	t.Helper()
	for _, d := range dims {
		if *d.Name == name {
			if *d.Value != value {
				t.Errorf("dimension %s: expected %q, got %q", name, value, *d.Value)
			}
			return
		}
	}
	t.Errorf("dimension %s not found", name)
}
