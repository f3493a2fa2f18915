package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"raincheck/internal/notifications"
)

// GoogleChatFormatter formats notifications as Google Chat card JSON.
type GoogleChatFormatter struct{}

// Platform returns the platform identifier.
func (f *GoogleChatFormatter) Platform() Platform {
	return PlatformGoogleChat
}

// Format transforms a notification into Google Chat card JSON.
func (f *GoogleChatFormatter) Format(_ context.Context, n *notifications.Notification) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("google chat formatter: notification is nil")
	}

	widgets := []GoogleWidget{
		{TextParagraph: &GoogleTextParagraph{Text: n.Text}},
	}
	for _, fc := range alertFacts(n) {
		widgets = append(widgets, GoogleWidget{
			KeyValue: &GoogleKeyValue{TopLabel: fc.label, Content: fc.value},
		})
	}

	payload := GoogleChatPayload{
		Text: n.Text,
		Cards: []GoogleCard{
			{
				Header:   GoogleHeader{Title: formatTitle(n), Subtitle: "Rain Check"},
				Sections: []GoogleSection{{Widgets: widgets}},
			},
		},
	}

	return json.Marshal(payload)
}

// ValidateResponse checks the Google Chat webhook response.
func (f *GoogleChatFormatter) ValidateResponse(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var resp struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Error.Message != "" {
		return fmt.Errorf("google chat: API error: %s", resp.Error.Message)
	}

	return fmt.Errorf("google chat: unexpected status %d: %s", statusCode, truncateBody(body))
}
