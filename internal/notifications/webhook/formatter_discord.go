package webhook

import (
	"context"
	"encoding/json"
	"fmt"

	"raincheck/internal/notifications"
)

// colorRain is the embed color for rain alerts (blue).
const colorRain = 0x2196F3

// DiscordFormatter formats notifications as Discord webhook JSON with embeds.
type DiscordFormatter struct{}

// Platform returns the platform identifier.
func (f *DiscordFormatter) Platform() Platform {
	return PlatformDiscord
}

// Format transforms a notification into Discord webhook JSON.
func (f *DiscordFormatter) Format(_ context.Context, n *notifications.Notification) ([]byte, error) {
	if n == nil {
		return nil, fmt.Errorf("discord formatter: notification is nil")
	}

	facts := alertFacts(n)
	fields := make([]DiscordField, 0, len(facts))
	for _, fc := range facts {
		fields = append(fields, DiscordField{Name: fc.label, Value: fc.value, Inline: true})
	}

	payload := DiscordPayload{
		Username: "Rain Check",
		Content:  n.Text,
		Embeds: []DiscordEmbed{
			{
				Title:       formatTitle(n),
				Description: n.Text,
				Color:       colorRain,
				Fields:      fields,
				Footer:      &DiscordFooter{Text: "Rain Check"},
			},
		},
	}

	return json.Marshal(payload)
}

// ValidateResponse checks the Discord webhook response. Discord returns 204
// No Content on success.
func (f *DiscordFormatter) ValidateResponse(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Message != "" {
		return fmt.Errorf("discord: API error: %s", resp.Message)
	}

	return fmt.Errorf("discord: unexpected status %d: %s", statusCode, truncateBody(body))
}
