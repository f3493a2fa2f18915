package forecasts

import (
	"time"

	"raincheck/internal/types"
)

// localDateLayout is the date prefix of the provider's hourly timestamps.
const localDateLayout = "2006-01-02"

// FirstLocalDate returns the calendar date of the first hourly timestamp.
// The provider already expresses timestamps in the requested timezone, so
// the date is read from the string rather than converted. ok is false when
// there is no timestamp or it does not start with a YYYY-MM-DD date.
func FirstLocalDate(resp *types.ForecastResponse) (time.Time, bool) {
	if resp == nil || len(resp.Hourly.Time) == 0 {
		return time.Time{}, false
	}
	ts := resp.Hourly.Time[0]
	if len(ts) < len(localDateLayout) {
		return time.Time{}, false
	}
	d, err := time.Parse(localDateLayout, ts[:len(localDateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// IsWeekend reports whether the forecast starts on a Saturday or Sunday in
// the location's local calendar. An unknown date is never a weekend.
func IsWeekend(resp *types.ForecastResponse) bool {
	d, ok := FirstLocalDate(resp)
	if !ok {
		return false
	}
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
