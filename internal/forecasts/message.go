package forecasts

import "fmt"

// RainMessage is the notification text sent when rain is expected. summary
// is appended verbatim and carries its own leading space.
func RainMessage(hoursAhead int, city, summary string) string {
	return fmt.Sprintf("🌧️ Rain likely in the next %dh in %s.%s", hoursAhead, city, summary)
}

// NoRainMessage is the console line printed when no rain is expected.
func NoRainMessage(hoursAhead int, city string) string {
	return fmt.Sprintf("No rain expected next %dh in %s.", hoursAhead, city)
}

// FetchFailedMessage is the console line printed when the forecast could not
// be retrieved.
func FetchFailedMessage(err error) string {
	return fmt.Sprintf("Failed to fetch weather: %v", err)
}

// WeekendSkipMessage is the console line printed when the weekday gate
// suppresses a rain notification.
func WeekendSkipMessage(city string) string {
	return fmt.Sprintf("Rain expected in %s but today is a weekend; notification skipped.", city)
}
