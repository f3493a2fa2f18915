package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"raincheck/internal/notifications"
)

// SlackFormatter formats notifications as Slack Block Kit JSON.
type SlackFormatter struct{}

// Platform returns the platform identifier.
func (f *SlackFormatter) Platform() Platform {
	return PlatformSlack
}

// Format transforms a notification into Slack Block Kit JSON. The message
// text doubles as the push-notification fallback.
func (f *SlackFormatter) Format(_ context.Context, n *notifications.Notification) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("slack formatter: notification is nil")
	}

	payload := SlackPayload{
		Text: n.Text,
		Blocks: []SlackBlock{
			{
				Type: "header",
				Text: &SlackText{Type: "plain_text", Text: formatTitle(n)},
			},
			{
				Type: "section",
				Text: &SlackText{Type: "mrkdwn", Text: n.Text},
			},
		},
	}

	if facts := alertFacts(n); len(facts) > 0 {
		fields := make([]*SlackText, 0, len(facts))
		for _, fc := range facts {
			fields = append(fields, &SlackText{Type: "mrkdwn", Text: fmt.Sprintf("*%s*\n%s", fc.label, fc.value)})
		}
		payload.Blocks = append(payload.Blocks, SlackBlock{Type: "section", Fields: fields})
	}

	payload.Blocks = append(payload.Blocks, SlackBlock{
		Type:     "context",
		Elements: []*SlackText{{Type: "mrkdwn", Text: "Rain Check"}},
	})

	return json.Marshal(payload)
}

// ValidateResponse checks for Slack's "soft failure" pattern where the API
// returns HTTP 200 but the body indicates an error.
func (f *SlackFormatter) ValidateResponse(statusCode int, body []byte) error {
	if statusCode < 200 || statusCode >= 300 {
		return fmt.Errorf("slack: unexpected status %d: %s", statusCode, truncateBody(body))
	}

	bodyStr := strings.TrimSpace(string(body))

	// Incoming webhooks answer "ok" as plain text on success.
	if bodyStr == "ok" || bodyStr == "" {
		return nil
	}

	var resp struct {
		OK    *bool  `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err == nil {
		if resp.OK != nil && !*resp.OK {
			errMsg := resp.Error
			if errMsg == "" {
				errMsg = "unknown error"
			}
			return fmt.Errorf("slack: API error: %s", errMsg)
		}
		return nil
	}

	switch bodyStr {
	case "no_text", "channel_not_found", "channel_is_archived", "invalid_payload", "no_service":
		return fmt.Errorf("slack: API error: %s", bodyStr)
	}
	return nil
}
