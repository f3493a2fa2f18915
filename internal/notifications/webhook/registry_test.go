package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlatformRegistry_Detect(t *testing.T) {
	r := NewPlatformRegistry()

	tests := []struct {
		name     string
		url      string
		override string
		want     Platform
	}{
		{"slack", "https://hooks.slack.com/services/T0/B0/XXX", "", PlatformSlack},
		{"discord", "https://discord.com/api/webhooks/123/abc", "", PlatformDiscord},
		{"teams legacy", "https://contoso.webhook.office.com/webhookb2/x", "", PlatformTeams},
		{"teams workflow", "https://prod-01.westus.logic.azure.com/workflows/x", "", PlatformTeams},
		{"google chat", "https://chat.googleapis.com/v1/spaces/AAA/messages?key=k", "", PlatformGoogleChat},
		{"unknown", "https://example.com/hooks/rain", "", PlatformGeneric},
		{"case insensitive", "https://HOOKS.SLACK.COM/services/x", "", PlatformSlack},
		{"override wins", "https://example.com/hooks/rain", "discord", PlatformDiscord},
		{"override upper case", "https://example.com/hooks/rain", "SLACK", PlatformSlack},
		{"unknown override ignored", "https://hooks.slack.com/services/x", "telegram", PlatformSlack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Detect(tt.url, tt.override))
		})
	}
}

func TestPlatformRegistry_Get(t *testing.T) {
	r := NewPlatformRegistry()
	for _, p := range []Platform{PlatformSlack, PlatformDiscord, PlatformTeams, PlatformGoogleChat, PlatformGeneric} {
		assert.Equal(t, p, r.Get(p).Platform())
	}
	assert.Equal(t, PlatformGeneric, r.Get(Platform("nope")).Platform())
}

func TestPlatformRegistry_CheckDeprecation(t *testing.T) {
	r := NewPlatformRegistry()

	warning, deprecated := r.CheckDeprecation("https://contoso.webhook.office.com/webhookb2/x")
	assert.True(t, deprecated)
	assert.Contains(t, warning, "Power Automate")

	_, deprecated = r.CheckDeprecation("https://prod-01.westus.logic.azure.com/workflows/x")
	assert.False(t, deprecated)
}
