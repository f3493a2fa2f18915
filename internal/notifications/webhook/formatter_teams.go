package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"raincheck/internal/notifications"
)

// TeamsFormatter formats notifications as an Adaptive Card targeting the
// Power Automate Workflow schema.
type TeamsFormatter struct{}

// Platform returns the platform identifier.
func (f *TeamsFormatter) Platform() Platform {
	return PlatformTeams
}

// Format transforms a notification into Teams Adaptive Card JSON.
func (f *TeamsFormatter) Format(_ context.Context, n *notifications.Notification) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("teams formatter: notification is nil")
	}

	body := []AdaptiveItem{
		{
			Type:   "TextBlock",
			Text:   formatTitle(n),
			Size:   "Large",
			Weight: "Bolder",
			Wrap:   true,
		},
		{
			Type: "TextBlock",
			Text: n.Text,
			Wrap: true,
		},
	}

	if facts := alertFacts(n); len(facts) > 0 {
		set := make([]Fact, 0, len(facts))
		for _, fc := range facts {
			set = append(set, Fact{Title: fc.label, Value: fc.value})
		}
		body = append(body, AdaptiveItem{Type: "FactSet", Facts: set})
	}

	payload := TeamsPayload{
		Type: "message",
		Attachments: []TeamsAttachment{
			{
				ContentType: "application/vnd.microsoft.card.adaptive",
				Content: AdaptiveCard{
					Type:    "AdaptiveCard",
					Version: "1.4",
					Body:    body,
				},
			},
		},
	}

	return json.Marshal(payload)
}

// ValidateResponse checks the Teams response. Workflows answer 202 Accepted.
func (f *TeamsFormatter) ValidateResponse(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	return fmt.Errorf("teams: unexpected status %d: %s", statusCode, truncateBody(body))
}
