// Package config defines the configuration snapshot for a rain check.
// Configuration is loaded once at process start and is immutable thereafter;
// components receive the subset they need by value.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> AWS SSM Parameter Store (Lowest)
//
// The forecast, analysis and sink-selection settings can never fail to load:
// a missing or malformed value falls back to its documented default. Only
// ambient settings (timeouts, URLs, log level) are validated strictly.
package config

import (
	"time"

	"raincheck/internal/types"
)

// SecretString is an alias for types.SecretString.
type SecretString = types.SecretString

// Config is the top-level configuration struct.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev staging prod"`
	Service     string `envconfig:"OTEL_SERVICE_NAME" default:"raincheck"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat   string `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`

	Location      LocationConfig
	Rain          RainConfig
	Notify        NotifyConfig
	Forecast      ForecastConfig
	Pushover      PushoverConfig
	Webhook       WebhookConfig
	AWS           AWSConfig
	Observability ObservabilityConfig
	Server        ServerConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// LocationConfig identifies where the forecast is requested for.
type LocationConfig struct {
	City      string    `envconfig:"CITY" default:"Your City"`
	Latitude  Latitude  `envconfig:"LAT" default:"40.7128"`
	Longitude Longitude `envconfig:"LON" default:"-74.0060"`
	Timezone  string    `envconfig:"TIMEZONE" default:"America/New_York"`
}

// RainConfig controls the analysis window and decision.
type RainConfig struct {
	HoursAhead     Hours   `envconfig:"HOURS_AHEAD" default:"12"`
	Threshold      Percent `envconfig:"THRESHOLD" default:"30"`
	WeekdaysOnly   Flag    `envconfig:"WEEKDAYS_ONLY" default:"false"`
	IncludeSummary Flag    `envconfig:"INCLUDE_SUMMARY" default:"true"`
}

// NotifyConfig selects the notification sink.
type NotifyConfig struct {
	Target Target `envconfig:"NOTIFY" default:"stdout"`
}

// ForecastConfig holds the forecast provider endpoint and request bounds.
type ForecastConfig struct {
	BaseURL   string        `envconfig:"FORECAST_BASE_URL" default:"https://api.open-meteo.com/v1/forecast" validate:"required,url"`
	Timeout   time.Duration `envconfig:"FORECAST_TIMEOUT" default:"20s" validate:"gt=0"`
	UserAgent string        `envconfig:"HTTP_USER_AGENT" default:"RainCheck/1.0"`
}

// PushoverConfig holds push-service credentials and the fixed message envelope.
// Token and User are optional: when either is missing the sink degrades to
// console output.
type PushoverConfig struct {
	Token    SecretString  `envconfig:"PUSHOVER_TOKEN"`
	User     SecretString  `envconfig:"PUSHOVER_USER"`
	APIURL   string        `envconfig:"PUSHOVER_API_URL" default:"https://api.pushover.net/1/messages.json" validate:"required,url"`
	Title    string        `envconfig:"PUSHOVER_TITLE" default:"Rain Check"`
	Priority int           `envconfig:"PUSHOVER_PRIORITY" default:"0" validate:"min=-2,max=2"`
	Timeout  time.Duration `envconfig:"PUSHOVER_TIMEOUT" default:"20s" validate:"gt=0"`
}

// HasCredentials reports whether both push-service credentials are present.
func (p PushoverConfig) HasCredentials() bool {
	return p.Token.IsSet() && p.User.IsSet()
}

// WebhookConfig holds settings for outbound webhook delivery.
type WebhookConfig struct {
	URL            string        `envconfig:"WEBHOOK_URL" validate:"omitempty,url"`
	Secret         SecretString  `envconfig:"WEBHOOK_SECRET"`
	Platform       string        `envconfig:"WEBHOOK_PLATFORM"`
	UserAgent      string        `envconfig:"WEBHOOK_USER_AGENT" default:"RainCheck-Webhook/1.0"`
	DefaultTimeout time.Duration `envconfig:"WEBHOOK_TIMEOUT" default:"10s" validate:"gt=0"`
	MaxRedirects   int           `envconfig:"WEBHOOK_MAX_REDIRECTS" default:"3" validate:"min=0"`
}

// AWSConfig holds AWS resource identifiers and regional configuration.
type AWSConfig struct {
	Region            string `envconfig:"AWS_REGION" default:"us-east-1"`
	NotificationQueue string `envconfig:"SQS_NOTIFICATIONS" validate:"omitempty,url"`

	// LocalStack Support (Empty in Prod)
	EndpointURL string `envconfig:"AWS_ENDPOINT_URL"`
}

// ObservabilityConfig holds telemetry settings.
type ObservabilityConfig struct {
	EnableMetrics   bool   `envconfig:"METRICS_ENABLED" default:"false"`
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"RainCheck"`
}

// ServerConfig holds settings for the long-running API process.
type ServerConfig struct {
	Port           string        `envconfig:"PORT" default:"8080"`
	RequestTimeout time.Duration `envconfig:"API_REQUEST_TIMEOUT" default:"25s" validate:"gt=0"`
}

// BuildInfo holds build-time metadata injected via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ForecastLocation returns the forecast location described by the configuration.
func (c *Config) ForecastLocation() types.Location {
	return types.Location{
		Name:      c.Location.City,
		Latitude:  float64(c.Location.Latitude),
		Longitude: float64(c.Location.Longitude),
		Timezone:  c.Location.Timezone,
	}
}

// ConfigErrorType categorizes configuration loading failures.
type ConfigErrorType string

const (
	// ErrSSMResolution indicates a failure when fetching secrets from AWS SSM.
	ErrSSMResolution ConfigErrorType = "SSM_FAILURE"
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing an ambient environment
	// variable into its target type.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
