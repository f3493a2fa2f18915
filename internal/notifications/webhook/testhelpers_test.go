package webhook

import (
	"time"

	"raincheck/internal/notifications"
	"raincheck/internal/types"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func testNotification() *notifications.Notification {
	return &notifications.Notification{
		Text: "🌧️ Rain likely in the next 12h in Brooklyn. Peak precip probability 60% around 15:00.",
		Alert: &types.RainAlert{
			AlertID:         "alert-1",
			RunID:           "run-1",
			Location:        types.Location{Name: "Brooklyn", Latitude: 40.6782, Longitude: -73.9442, Timezone: "America/New_York"},
			HoursAhead:      12,
			Threshold:       30,
			PeakProbability: 60,
			PeakTime:        "2024-06-03T15:00",
			Message:         "🌧️ Rain likely in the next 12h in Brooklyn. Peak precip probability 60% around 15:00.",
			CreatedAt:       time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC),
		},
	}
}
