package types

// Telemetry metric names for CloudWatch.
// All components MUST use these constants.
const (
	// Metric Names
	MetricRainCheckRun         = "RainCheckRun"
	MetricForecastFetchLatency = "ForecastFetchLatency"
	MetricDeliveryAttempt      = "DeliveryAttempt"

	// Dimension Keys
	DimOutcome = "Outcome"
	DimChannel = "Channel"
	DimResult  = "Result"

	// DefaultMetricNamespace is used when METRIC_NAMESPACE is unset.
	DefaultMetricNamespace = "RainCheck"
)
