package types

import "time"

// ChannelType names a notification sink.
type ChannelType string

const (
	ChannelConsole  ChannelType = "stdout"
	ChannelPushover ChannelType = "pushover"
	ChannelWebhook  ChannelType = "webhook"
	ChannelSQS      ChannelType = "sqs"
)

// RainAlert is the structured form of a rain notification, used by sinks
// that carry more than a line of text (webhook, SQS).
type RainAlert struct {
	AlertID         string    `json:"alert_id"`
	RunID           string    `json:"run_id,omitempty"`
	Location        Location  `json:"location"`
	HoursAhead      int       `json:"hours_ahead"`
	Threshold       int       `json:"threshold"`
	PeakProbability float64   `json:"peak_probability"`
	PeakTime        string    `json:"peak_time,omitempty"`
	Message         string    `json:"message"`
	CreatedAt       time.Time `json:"created_at"`
}
