package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"raincheck/internal/notifications"
	"raincheck/internal/types"
)

// GenericFormatter emits a stable JSON envelope for endpoints that match no
// known platform.
type GenericFormatter struct{}

// Platform returns the platform identifier.
func (f *GenericFormatter) Platform() Platform {
	return PlatformGeneric
}

// GenericPayload is the webhook envelope for generic endpoints.
type GenericPayload struct {
	EventType string           `json:"event_type"`
	Message   string           `json:"message"`
	Alert     *types.RainAlert `json:"alert,omitempty"`
}

// EventRainLikely is the event_type of every generic payload.
const EventRainLikely = "rain_likely"

// Format transforms a notification into generic JSON.
func (f *GenericFormatter) Format(_ context.Context, n *notifications.Notification) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("generic formatter: notification is nil")
	}

	return json.Marshal(GenericPayload{
		EventType: EventRainLikely,
		Message:   n.Text,
		Alert:     n.Alert,
	})
}

// ValidateResponse for generic webhooks checks the HTTP status code only.
func (f *GenericFormatter) ValidateResponse(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return fmt.Errorf("generic webhook: unexpected status %d: %s", statusCode, truncateBody(body))
}
