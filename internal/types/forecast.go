package types

// Location identifies the point the forecast is requested for.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// HourlySeries holds the parallel, index-aligned hourly arrays returned by
// the provider. Time entries are local-time strings ("2006-01-02T15:04") in
// the requested timezone. Nil entries mean the provider sent null.
type HourlySeries struct {
	Time                     []string   `json:"time"`
	PrecipitationProbability []*float64 `json:"precipitation_probability"`
	WeatherCode              []*int     `json:"weathercode"`
}

// ForecastResponse is the decoded forecast document.
type ForecastResponse struct {
	Latitude       float64      `json:"latitude"`
	Longitude      float64      `json:"longitude"`
	Timezone       string       `json:"timezone"`
	UTCOffsetSecs  int          `json:"utc_offset_seconds"`
	GenerationTime float64      `json:"generationtime_ms"`
	Hourly         HourlySeries `json:"hourly"`
}

// RainAnalysis is the outcome of scanning the look-ahead window.
// Summary is empty when summaries are disabled or no probability was seen.
type RainAnalysis struct {
	RainExpected    bool    `json:"rain_expected"`
	Summary         string  `json:"summary"`
	PeakProbability float64 `json:"peak_probability"`
	PeakTime        string  `json:"peak_time,omitempty"`
	HoursConsidered int     `json:"hours_considered"`
}
