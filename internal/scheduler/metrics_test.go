package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raincheck/internal/types"
)

type mockCloudWatch struct {
	inputs []*cloudwatch.PutMetricDataInput
	err    error
}

func (m *mockCloudWatch) PutMetricData(_ context.Context, in *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	m.inputs = append(m.inputs, in)
	return &cloudwatch.PutMetricDataOutput{}, m.err
}

func TestCloudWatchRunMetrics_RecordRun(t *testing.T) {
	cw := &mockCloudWatch{}
	m := NewCloudWatchRunMetrics(cw, "", nil)

	m.RecordRun(context.Background(), OutcomeSkippedWeekend)

	require.Len(t, cw.inputs, 1)
	in := cw.inputs[0]
	assert.Equal(t, types.DefaultMetricNamespace, aws.ToString(in.Namespace))
	datum := in.MetricData[0]
	assert.Equal(t, types.MetricRainCheckRun, aws.ToString(datum.MetricName))
	require.Len(t, datum.Dimensions, 1)
	assert.Equal(t, types.DimOutcome, aws.ToString(datum.Dimensions[0].Name))
	assert.Equal(t, "skipped_weekend", aws.ToString(datum.Dimensions[0].Value))
}

func TestCloudWatchRunMetrics_RecordFetchLatency(t *testing.T) {
	cw := &mockCloudWatch{}
	m := NewCloudWatchRunMetrics(cw, "Custom", nil)

	m.RecordFetchLatency(context.Background(), 1500*time.Millisecond)

	require.Len(t, cw.inputs, 1)
	assert.Equal(t, "Custom", aws.ToString(cw.inputs[0].Namespace))
	datum := cw.inputs[0].MetricData[0]
	assert.Equal(t, types.MetricForecastFetchLatency, aws.ToString(datum.MetricName))
	assert.Equal(t, 1500.0, aws.ToFloat64(datum.Value))
}

func TestCloudWatchRunMetrics_ErrorsAreSwallowed(t *testing.T) {
	cw := &mockCloudWatch{err: errors.New("throttled")}
	m := NewCloudWatchRunMetrics(cw, "", nil)

	assert.NotPanics(t, func() {
		m.RecordRun(context.Background(), OutcomeNotified)
	})
}
