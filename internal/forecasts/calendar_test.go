package forecasts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"raincheck/internal/types"
)

func withTimes(times ...string) *types.ForecastResponse {
	return &types.ForecastResponse{Hourly: types.HourlySeries{Time: times}}
}

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		name string
		resp *types.ForecastResponse
		want bool
	}{
		{"monday", withTimes("2024-06-03T00:00"), false},
		{"friday", withTimes("2024-06-07T23:00"), false},
		{"saturday", withTimes("2024-06-08T00:00"), true},
		{"sunday", withTimes("2024-06-09T05:00", "2024-06-10T00:00"), true},
		{"only first timestamp counts", withTimes("2024-06-07T23:00", "2024-06-08T00:00"), false},
		{"empty series", withTimes(), false},
		{"nil response", nil, false},
		{"unparseable", withTimes("yesterday"), false},
		{"short", withTimes("2024"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWeekend(tt.resp))
		})
	}
}

func TestFirstLocalDate(t *testing.T) {
	d, ok := FirstLocalDate(withTimes("2024-12-31T22:00"))
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), d)
}
