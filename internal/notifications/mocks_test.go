package notifications

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"

	"raincheck/internal/external"
	"raincheck/internal/types"
)

type mockLogger struct{}

func (l *mockLogger) Info(msg string, args ...any)  {}
func (l *mockLogger) Error(msg string, args ...any) {}
func (l *mockLogger) Warn(msg string, args ...any)  {}
func (l *mockLogger) With(args ...any) types.Logger { return l }

// mockCloudWatchClient records PutMetricData calls for verification.
type mockCloudWatchClient struct {
	calls     []*cloudwatch.PutMetricDataInput
	returnErr error
}

func (m *mockCloudWatchClient) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.calls = append(m.calls, params)
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	return &cloudwatch.PutMetricDataOutput{}, nil
}

type mockPushover struct {
	sent []external.PushoverMessage
	err  error
}

func (m *mockPushover) Send(_ context.Context, msg external.PushoverMessage) error {
	m.sent = append(m.sent, msg)
	return m.err
}

type recordedDelivery struct {
	channel types.ChannelType
	result  MetricResult
}

type recordingMetrics struct {
	deliveries []recordedDelivery
	latencies  int
}

func (m *recordingMetrics) RecordDelivery(_ context.Context, channel types.ChannelType, result MetricResult) {
	m.deliveries = append(m.deliveries, recordedDelivery{channel, result})
}

func (m *recordingMetrics) RecordLatency(context.Context, types.ChannelType, time.Duration) {
	m.latencies++
}

// stubSink returns a fixed receipt and error.
type stubSink struct {
	channel types.ChannelType
	receipt Receipt
	err     error
	got     []*Notification
}

func (s *stubSink) Type() types.ChannelType { return s.channel }

func (s *stubSink) Send(_ context.Context, n *Notification) (Receipt, error) {
	s.got = append(s.got, n)
	return s.receipt, s.err
}

var errBoom = errors.New("boom")
