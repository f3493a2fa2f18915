package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/sony/gobreaker/v2"

	"raincheck/internal/types"
)

// hourlyFields is the hourly series requested from the provider.
const hourlyFields = "precipitation_probability,weathercode"

// maxForecastBody caps how much of a forecast response is decoded.
const maxForecastBody = 8 << 20

// ForecastClient retrieves hourly forecasts for a location.
type ForecastClient interface {
	FetchHourly(ctx context.Context, loc types.Location) (*types.ForecastResponse, error)
}

// OpenMeteoClientConfig configures an OpenMeteoClient.
type OpenMeteoClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
	Logger    types.Logger
}

// OpenMeteoClient fetches hourly forecasts from the Open-Meteo forecast API.
type OpenMeteoClient struct {
	base    *BaseClient
	baseURL string
	logger  types.Logger
}

// Compile-time assertion that OpenMeteoClient implements ForecastClient.
var _ ForecastClient = (*OpenMeteoClient)(nil)

// NewOpenMeteoClient creates a forecast client with its own bounded
// http.Client on top of newForecastTransport.
func NewOpenMeteoClient(cfg OpenMeteoClientConfig) *OpenMeteoClient {
	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: newForecastTransport(),
	}
	return NewOpenMeteoClientWithHTTP(httpClient, cfg)
}

// newForecastTransport clones the default transport so proxy settings from
// HTTP_PROXY/HTTPS_PROXY/NO_PROXY and the dial and TLS handshake timeouts
// still apply. Compression is negotiated in FetchHourly and decoded by
// decodedBody, so the transport must leave Content-Encoding alone.
func newForecastTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DisableCompression = true
	return t
}

// NewOpenMeteoClientWithHTTP creates a forecast client around a caller
// supplied http.Client (tests point it at httptest servers).
func NewOpenMeteoClientWithHTTP(httpClient *http.Client, cfg OpenMeteoClientConfig) *OpenMeteoClient {
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &OpenMeteoClient{
		base:    NewBaseClient(httpClient, "open-meteo", DefaultBreakerSettings(), cfg.UserAgent),
		baseURL: cfg.BaseURL,
		logger:  logger,
	}
}

// BreakerState reports the circuit breaker state of the forecast endpoint.
func (c *OpenMeteoClient) BreakerState() gobreaker.State {
	return c.base.State()
}

// FetchHourly performs a single GET for the location's hourly precipitation
// probability and weather codes, expressed in the location's timezone.
// Every failure is returned as a fetch error (types.IsFetchError).
func (c *OpenMeteoClient) FetchHourly(ctx context.Context, loc types.Location) (*types.ForecastResponse, error) {
	reqURL, err := c.buildURL(loc)
	if err != nil {
		return nil, types.NewFetchError("invalid forecast endpoint", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, types.NewFetchError("failed to build forecast request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	start := time.Now()
	resp, err := c.base.Do(req)
	if err != nil {
		return nil, types.NewFetchError("forecast request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, types.NewFetchError(
			fmt.Sprintf("forecast provider returned %d", resp.StatusCode),
			providerError(resp.Body),
		).WithDetails(map[string]any{"status": resp.StatusCode})
	}

	body, err := decodedBody(resp)
	if err != nil {
		return nil, types.NewFetchError("failed to decompress forecast response", err)
	}
	defer body.Close()

	var out types.ForecastResponse
	if err := json.NewDecoder(io.LimitReader(body, maxForecastBody)).Decode(&out); err != nil {
		return nil, types.NewFetchError("failed to decode forecast response", err)
	}

	c.logger.Info("forecast fetched",
		"latitude", loc.Latitude,
		"longitude", loc.Longitude,
		"timezone", loc.Timezone,
		"hours", len(out.Hourly.Time),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &out, nil
}

func (c *OpenMeteoClient) buildURL(loc types.Location) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(loc.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(loc.Longitude, 'f', -1, 64))
	q.Set("hourly", hourlyFields)
	q.Set("timezone", loc.Timezone)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// decodedBody unwraps a gzip-encoded body when the provider compressed it.
func decodedBody(resp *http.Response) (io.ReadCloser, error) {
	if !strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		return io.NopCloser(resp.Body), nil
	}
	return gzip.NewReader(resp.Body)
}

// providerError extracts Open-Meteo's {"error":true,"reason":"..."} body.
func providerError(body io.Reader) error {
	var payload struct {
		Reason string `json:"reason"`
	}
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Reason != "" {
		return fmt.Errorf("%s", payload.Reason)
	}
	if len(raw) > 0 {
		return fmt.Errorf("%s", strings.TrimSpace(string(raw)))
	}
	return nil
}
