package webhook

import (
	"fmt"

	"raincheck/internal/forecasts"
	"raincheck/internal/notifications"
)

// fact is one labelled value shown in a card or embed.
type fact struct {
	label string
	value string
}

// formatTitle returns "Rain Alert: <city>" or "Rain Alert" when the
// notification carries no structured alert.
func formatTitle(n *notifications.Notification) string {
	if n.Alert != nil && n.Alert.Location.Name != "" {
		return fmt.Sprintf("Rain Alert: %s", n.Alert.Location.Name)
	}
	return "Rain Alert"
}

// alertFacts lists the structured details of the alert in display order.
func alertFacts(n *notifications.Notification) []fact {
	a := n.Alert
	if a == nil {
		return nil
	}

	facts := []fact{
		{"Window", fmt.Sprintf("next %dh", a.HoursAhead)},
		{"Threshold", fmt.Sprintf("%d%%", a.Threshold)},
	}
	if a.PeakTime != "" {
		facts = append(facts, fact{"Peak", fmt.Sprintf("%s%% at %s", forecasts.FormatPercent(a.PeakProbability), a.PeakTime)})
	}
	if a.Location.Timezone != "" {
		facts = append(facts, fact{"Timezone", a.Location.Timezone})
	}
	return facts
}

// truncateBody shortens a response body for error messages.
func truncateBody(body []byte) string {
	const maxLen = 200
	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}
	return string(body)
}
