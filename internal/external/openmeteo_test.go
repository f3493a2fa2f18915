package external

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"raincheck/internal/types"
)

const sampleForecast = `{
  "latitude": 40.71,
  "longitude": -74.0,
  "timezone": "America/New_York",
  "utc_offset_seconds": -14400,
  "hourly": {
    "time": ["2024-06-03T00:00", "2024-06-03T01:00", "2024-06-03T02:00"],
    "precipitation_probability": [10, null, 45],
    "weathercode": [3, 61, null]
  }
}`

var nyc = types.Location{Name: "NYC", Latitude: 40.7128, Longitude: -74.006, Timezone: "America/New_York"}

func newTestForecastClient(url string) *OpenMeteoClient {
	return NewOpenMeteoClientWithHTTP(&http.Client{Timeout: 2 * time.Second}, OpenMeteoClientConfig{
		BaseURL:   url + "/v1/forecast",
		UserAgent: "RainCheck-Test/1.0",
	})
}

func TestFetchHourly_RequestShapeAndDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "40.7128", q.Get("latitude"))
		assert.Equal(t, "-74.006", q.Get("longitude"))
		assert.Equal(t, "precipitation_probability,weathercode", q.Get("hourly"))
		assert.Equal(t, "America/New_York", q.Get("timezone"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleForecast))
	}))
	defer server.Close()

	resp, err := newTestForecastClient(server.URL).FetchHourly(context.Background(), nyc)
	require.NoError(t, err)

	require.Len(t, resp.Hourly.Time, 3)
	require.Len(t, resp.Hourly.PrecipitationProbability, 3)
	assert.Equal(t, 10.0, *resp.Hourly.PrecipitationProbability[0])
	assert.Nil(t, resp.Hourly.PrecipitationProbability[1])
	assert.Equal(t, 61, *resp.Hourly.WeatherCode[1])
	assert.Nil(t, resp.Hourly.WeatherCode[2])
	assert.Equal(t, "America/New_York", resp.Timezone)
}

func TestFetchHourly_Gzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gzip", r.Header.Get("Accept-Encoding"))
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(sampleForecast))
		_ = gz.Close()
	}))
	defer server.Close()

	resp, err := newTestForecastClient(server.URL).FetchHourly(context.Background(), nyc)
	require.NoError(t, err)
	assert.Len(t, resp.Hourly.Time, 3)
}

func TestFetchHourly_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":true,"reason":"Cannot initialize WeatherVariable from invalid String value"}`))
	}))
	defer server.Close()

	_, err := newTestForecastClient(server.URL).FetchHourly(context.Background(), nyc)
	require.Error(t, err)
	assert.True(t, types.IsFetchError(err))
	assert.Contains(t, err.Error(), "Cannot initialize WeatherVariable")
}

func TestFetchHourly_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newTestForecastClient(server.URL).FetchHourly(context.Background(), nyc)
	require.Error(t, err)
	assert.True(t, types.IsFetchError(err))
}

func TestFetchHourly_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestForecastClient(url).FetchHourly(context.Background(), nyc)
	require.Error(t, err)
	assert.True(t, types.IsFetchError(err))
}

func TestFetchHourly_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	client := NewOpenMeteoClientWithHTTP(&http.Client{Timeout: 50 * time.Millisecond}, OpenMeteoClientConfig{
		BaseURL: server.URL,
	})
	_, err := client.FetchHourly(context.Background(), nyc)
	require.Error(t, err)
	assert.True(t, types.IsFetchError(err))
}

func TestFetchHourly_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"hourly": [`))
	}))
	defer server.Close()

	_, err := newTestForecastClient(server.URL).FetchHourly(context.Background(), nyc)
	require.Error(t, err)
	assert.True(t, types.IsFetchError(err))
}

func TestNewForecastTransport(t *testing.T) {
	tr := newForecastTransport()

	assert.True(t, tr.DisableCompression)
	assert.NotNil(t, tr.Proxy, "proxy environment must be honoured")
	assert.NotNil(t, tr.DialContext)
	assert.Positive(t, tr.TLSHandshakeTimeout)
	assert.NotSame(t, http.DefaultTransport, tr)
}

// proxyChildEnv marks the re-executed test binary that owns a fresh process
// environment. net/http reads the proxy variables only once per process.
const proxyChildEnv = "RAINCHECK_FORECAST_PROXY_CHILD"

func TestNewOpenMeteoClient_UsesProxyFromEnvironment(t *testing.T) {
	if os.Getenv(proxyChildEnv) != "1" {
		cmd := exec.Command(os.Args[0], "-test.run=^TestNewOpenMeteoClient_UsesProxyFromEnvironment$", "-test.count=1")
		cmd.Env = append(os.Environ(), proxyChildEnv+"=1")
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
		return
	}

	var hits atomic.Int32
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "forecast.provider.invalid", r.URL.Host)
		assert.Equal(t, "/v1/forecast", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleForecast))
	}))
	defer proxy.Close()

	t.Setenv("HTTP_PROXY", proxy.URL)
	t.Setenv("http_proxy", proxy.URL)
	t.Setenv("NO_PROXY", "")
	t.Setenv("no_proxy", "")

	client := NewOpenMeteoClient(OpenMeteoClientConfig{
		BaseURL: "http://forecast.provider.invalid/v1/forecast",
		Timeout: 2 * time.Second,
	})

	resp, err := client.FetchHourly(context.Background(), nyc)
	require.NoError(t, err)
	assert.Len(t, resp.Hourly.Time, 3)
	assert.Equal(t, int32(1), hits.Load())
}
