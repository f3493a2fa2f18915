package external

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"raincheck/internal/types"
)

// PushoverMessage is one message for the Pushover messages endpoint.
type PushoverMessage struct {
	Token    string
	User     string
	Message  string
	Title    string
	Priority int
}

// PushoverClientConfig configures a PushoverClient.
type PushoverClientConfig struct {
	APIURL    string
	Timeout   time.Duration
	UserAgent string
}

// PushoverClient posts messages to the Pushover API.
type PushoverClient struct {
	base   *BaseClient
	apiURL string
}

// NewPushoverClient creates a client with a bounded http.Client.
func NewPushoverClient(cfg PushoverClientConfig) *PushoverClient {
	return NewPushoverClientWithHTTP(&http.Client{Timeout: cfg.Timeout}, cfg)
}

// NewPushoverClientWithHTTP creates a client around a caller supplied
// http.Client.
func NewPushoverClientWithHTTP(httpClient *http.Client, cfg PushoverClientConfig) *PushoverClient {
	return &PushoverClient{
		base:   NewBaseClient(httpClient, "pushover", DefaultBreakerSettings(), cfg.UserAgent),
		apiURL: cfg.APIURL,
	}
}

// Send issues one form-encoded POST. A transport failure or a non-2xx status
// is returned as a send error (types.IsSendError); there is no retry.
func (c *PushoverClient) Send(ctx context.Context, msg PushoverMessage) error {
	form := url.Values{}
	form.Set("token", msg.Token)
	form.Set("user", msg.User)
	form.Set("message", msg.Message)
	form.Set("title", msg.Title)
	form.Set("priority", strconv.Itoa(msg.Priority))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return types.NewSendError("failed to build pushover request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.base.Do(req)
	if err != nil {
		return types.NewSendError("pushover request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return types.NewSendError(
			fmt.Sprintf("pushover returned %d", resp.StatusCode),
			fmt.Errorf("%s", strings.TrimSpace(string(body))),
		).WithDetails(map[string]any{"status": resp.StatusCode})
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
