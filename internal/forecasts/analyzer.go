// Package forecasts turns an hourly forecast document into a rain decision.
//
// AnalyzeRain is pure: it never fails, never mutates its input and returns
// identical results for identical arguments.
package forecasts

import (
	"fmt"
	"strconv"
	"strings"

	"raincheck/internal/types"
)

// rainCodes are the WMO weather codes treated as rain regardless of the
// reported probability: drizzle (51-57), rain (61-67), showers (80-82) and
// thunderstorms (95-99).
var rainCodes = map[int]struct{}{
	51: {}, 53: {}, 55: {}, 56: {}, 57: {},
	61: {}, 63: {}, 65: {}, 66: {}, 67: {},
	80: {}, 81: {}, 82: {},
	95: {}, 96: {}, 99: {},
}

// IsRainCode reports whether code is in the rain-code set.
func IsRainCode(code int) bool {
	_, ok := rainCodes[code]
	return ok
}

// AnalyzeRain scans the first hoursAhead entries of the hourly series.
//
// An hour is rainy when its weather code is in the rain-code set or its
// probability is at least threshold. A null probability counts as 0 and a
// null weather code is never rainy. The peak is the first hour holding the
// maximum probability. When includeSummary is set and a peak was observed,
// Summary holds a sentence naming the peak and its local time of day.
//
// A nil response or an empty series yields RainExpected=false with no
// summary.
func AnalyzeRain(resp *types.ForecastResponse, hoursAhead, threshold int, includeSummary bool) types.RainAnalysis {
	if resp == nil {
		return types.RainAnalysis{}
	}

	times := head(resp.Hourly.Time, hoursAhead)
	probs := head(resp.Hourly.PrecipitationProbability, hoursAhead)
	codes := head(resp.Hourly.WeatherCode, hoursAhead)

	n := min(len(times), len(probs), len(codes))

	var (
		rain     bool
		peak     = -1.0
		peakTime string
	)
	for i := 0; i < n; i++ {
		p := 0.0
		if probs[i] != nil {
			p = *probs[i]
		}
		if (codes[i] != nil && IsRainCode(*codes[i])) || p >= float64(threshold) {
			rain = true
		}
		if p > peak {
			peak = p
			peakTime = times[i]
		}
	}

	out := types.RainAnalysis{
		RainExpected:    rain,
		PeakTime:        peakTime,
		HoursConsidered: n,
	}
	if peak >= 0 {
		out.PeakProbability = peak
	}
	if includeSummary && peak >= 0 && peakTime != "" {
		out.Summary = fmt.Sprintf(" Peak precip probability %s%% around %s.", FormatPercent(peak), clockTime(peakTime))
	}
	return out
}

// FormatPercent renders a probability without trailing zeros ("45", "12.5").
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// clockTime extracts "HH:MM" from a local ISO-8601 timestamp such as
// "2024-06-03T14:00". A value without a "T" separator is returned unchanged.
func clockTime(ts string) string {
	parts := strings.Split(ts, "T")
	if len(parts) < 2 {
		return ts
	}
	clock := parts[1]
	if len(clock) > 5 {
		clock = clock[:5]
	}
	return clock
}

func head[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
