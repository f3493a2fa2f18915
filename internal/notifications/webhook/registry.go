package webhook

import (
	"strings"
)

// PlatformRegistry maps webhook URLs to platform-specific formatters. It
// supports URL pattern auto-detection and an explicit override.
type PlatformRegistry struct {
	formatters map[Platform]PlatformFormatter
}

// NewPlatformRegistry creates a PlatformRegistry with all built-in formatters.
func NewPlatformRegistry() *PlatformRegistry {
	r := &PlatformRegistry{
		formatters: make(map[Platform]PlatformFormatter),
	}

	r.formatters[PlatformSlack] = &SlackFormatter{}
	r.formatters[PlatformTeams] = &TeamsFormatter{}
	r.formatters[PlatformDiscord] = &DiscordFormatter{}
	r.formatters[PlatformGoogleChat] = &GoogleChatFormatter{}
	r.formatters[PlatformGeneric] = &GenericFormatter{}

	return r
}

// Detect determines the target Platform for url.
//
// Detection logic (priority order):
//  1. override (WEBHOOK_PLATFORM), when it names a registered platform.
//  2. URL patterns:
//     - "hooks.slack.com" -> PlatformSlack
//     - "discord.com/api/webhooks" -> PlatformDiscord
//     - ".webhook.office.com" OR ".logic.azure.com" -> PlatformTeams
//     - "chat.googleapis.com" -> PlatformGoogleChat
//  3. PlatformGeneric.
func (r *PlatformRegistry) Detect(url, override string) Platform {
	if override != "" {
		p := Platform(strings.ToLower(override))
		if _, exists := r.formatters[p]; exists {
			return p
		}
	}

	lowerURL := strings.ToLower(url)

	switch {
	case strings.Contains(lowerURL, "hooks.slack.com"):
		return PlatformSlack
	case strings.Contains(lowerURL, "discord.com/api/webhooks"):
		return PlatformDiscord
	case strings.Contains(lowerURL, ".webhook.office.com"), strings.Contains(lowerURL, ".logic.azure.com"):
		return PlatformTeams
	case strings.Contains(lowerURL, "chat.googleapis.com"):
		return PlatformGoogleChat
	}

	return PlatformGeneric
}

// Get returns the PlatformFormatter for p, or the generic formatter.
func (r *PlatformRegistry) Get(p Platform) PlatformFormatter {
	if f, ok := r.formatters[p]; ok {
		return f
	}
	return r.formatters[PlatformGeneric]
}

// CheckDeprecation returns a warning for destinations on retiring platforms.
// Legacy Teams connectors (*.webhook.office.com) are being replaced by Power
// Automate Workflows.
func (r *PlatformRegistry) CheckDeprecation(url string) (warning string, isDeprecated bool) {
	if strings.Contains(strings.ToLower(url), ".webhook.office.com") {
		return "Teams Connectors are retiring. Migrate to Power Automate Workflows.", true
	}
	return "", false
}
