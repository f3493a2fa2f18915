package config

import (
	"strconv"
	"strings"

	"raincheck/internal/types"
)

// Defaults for the rain-check settings. The lenient decoders below fall back
// to these whenever a value is present but unusable, so loading these
// settings never fails.
const (
	DefaultHoursAhead = 12
	DefaultThreshold  = 30
	DefaultLatitude   = 40.7128
	DefaultLongitude  = -74.0060
)

// Hours is the look-ahead window in hours. Any integer is kept as given; a
// window of zero or less considers no hours at all.
type Hours int

// Decode implements envconfig.Decoder.
func (h *Hours) Decode(value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		*h = DefaultHoursAhead
		return nil
	}
	*h = Hours(n)
	return nil
}

// Percent is an integer percentage threshold. Values outside [0, 100] are
// kept: above 100 only rain codes trigger, below 0 every hour does.
type Percent int

// Decode implements envconfig.Decoder.
func (p *Percent) Decode(value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		*p = DefaultThreshold
		return nil
	}
	*p = Percent(n)
	return nil
}

// Latitude is a coordinate in decimal degrees.
type Latitude float64

// Decode implements envconfig.Decoder.
func (l *Latitude) Decode(value string) error {
	*l = Latitude(parseCoordinate(value, DefaultLatitude))
	return nil
}

// Longitude is a coordinate in decimal degrees.
type Longitude float64

// Decode implements envconfig.Decoder.
func (l *Longitude) Decode(value string) error {
	*l = Longitude(parseCoordinate(value, DefaultLongitude))
	return nil
}

func parseCoordinate(value string, fallback float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fallback
	}
	return f
}

// Flag is a boolean that is true only for a case-insensitive "true".
type Flag bool

// Decode implements envconfig.Decoder.
func (f *Flag) Decode(value string) error {
	*f = Flag(strings.EqualFold(value, "true"))
	return nil
}

// Target names the notification sink. Unknown names select the console.
type Target string

// Decode implements envconfig.Decoder.
func (t *Target) Decode(value string) error {
	*t = Target(strings.ToLower(value))
	return nil
}

// Channel maps the configured name onto a supported sink.
func (t Target) Channel() types.ChannelType {
	switch types.ChannelType(t) {
	case types.ChannelPushover, types.ChannelWebhook, types.ChannelSQS:
		return types.ChannelType(t)
	default:
		return types.ChannelConsole
	}
}
