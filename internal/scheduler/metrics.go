package scheduler

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"raincheck/internal/notifications"
	"raincheck/internal/types"
)

// RunMetrics records per-run telemetry.
type RunMetrics interface {
	RecordRun(ctx context.Context, outcome Outcome)
	RecordFetchLatency(ctx context.Context, d time.Duration)
}

// NopRunMetrics discards run metrics.
type NopRunMetrics struct{}

func (NopRunMetrics) RecordRun(context.Context, Outcome)                {}
func (NopRunMetrics) RecordFetchLatency(context.Context, time.Duration) {}

// CloudWatchRunMetrics emits run metrics to CloudWatch.
//
// Metrics emitted:
//   - RainCheckRun: Dims {Outcome}
//   - ForecastFetchLatency: milliseconds, no dimensions
type CloudWatchRunMetrics struct {
	client    notifications.CloudWatchClient
	namespace string
	logger    types.Logger
}

// Compile-time assertion that CloudWatchRunMetrics implements RunMetrics.
var _ RunMetrics = (*CloudWatchRunMetrics)(nil)

// NewCloudWatchRunMetrics creates run metrics publishing to namespace
// (types.DefaultMetricNamespace when empty).
func NewCloudWatchRunMetrics(client notifications.CloudWatchClient, namespace string, logger types.Logger) *CloudWatchRunMetrics {
	if namespace == "" {
		namespace = types.DefaultMetricNamespace
	}
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &CloudWatchRunMetrics{client: client, namespace: namespace, logger: logger}
}

// RecordRun emits a RainCheckRun count with the Outcome dimension.
func (m *CloudWatchRunMetrics) RecordRun(ctx context.Context, outcome Outcome) {
	m.put(ctx, cwtypes.MetricDatum{
		MetricName: aws.String(types.MetricRainCheckRun),
		Value:      aws.Float64(1),
		Unit:       cwtypes.StandardUnitCount,
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String(types.DimOutcome), Value: aws.String(string(outcome))},
		},
	})
}

// RecordFetchLatency emits the forecast fetch duration in milliseconds.
func (m *CloudWatchRunMetrics) RecordFetchLatency(ctx context.Context, d time.Duration) {
	m.put(ctx, cwtypes.MetricDatum{
		MetricName: aws.String(types.MetricForecastFetchLatency),
		Value:      aws.Float64(float64(d.Milliseconds())),
		Unit:       cwtypes.StandardUnitMilliseconds,
	})
}

func (m *CloudWatchRunMetrics) put(ctx context.Context, datum cwtypes.MetricDatum) {
	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{datum},
	})
	if err != nil {
		m.logger.Error("failed to record run metric",
			"metric", aws.ToString(datum.MetricName),
			"error", err.Error(),
		)
	}
}
