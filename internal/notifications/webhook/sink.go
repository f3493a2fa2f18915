package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"raincheck/internal/config"
	"raincheck/internal/notifications"
	"raincheck/internal/security"
	"raincheck/internal/types"
)

// MissingURL is printed when the webhook sink is selected without WEBHOOK_URL.
const MissingURL = "Webhook missing WEBHOOK_URL; falling back to stdout."

// Delivery headers set on every request.
const (
	DeliveryHeader = "X-RainCheck-Delivery"
	EventHeader    = "X-RainCheck-Event"
)

// maxResponseBodyRead limits how much of a response body is read for
// validation and error messages.
const maxResponseBodyRead = 4096

// Sink implements notifications.Sink for webhook delivery.
type Sink struct {
	registry   *PlatformRegistry
	signer     *SignatureManager
	httpClient *http.Client
	config     config.WebhookConfig
	console    *notifications.Console
	logger     types.Logger
	clock      types.Clock

	// validateURL is the destination pre-flight check; nil skips it.
	validateURL func(string) error
}

// Compile-time assertion that Sink implements notifications.Sink.
var _ notifications.Sink = (*Sink)(nil)

// NewSink creates a webhook Sink whose HTTP client refuses to reach
// internal addresses on any hop.
func NewSink(cfg config.WebhookConfig, console *notifications.Console, logger types.Logger) (*Sink, error) {
	httpClient, err := security.NewSafeHTTPClient(cfg.DefaultTimeout, cfg.MaxRedirects)
	if err != nil {
		return nil, fmt.Errorf("webhook sink: failed to create safe HTTP client: %w", err)
	}
	s := NewSinkWithClient(cfg, httpClient, console, logger)
	s.validateURL = security.ValidateWebhookURL
	return s, nil
}

// NewSinkWithClient creates a Sink with a caller-supplied HTTP client and
// no destination pre-flight check.
func NewSinkWithClient(cfg config.WebhookConfig, httpClient *http.Client, console *notifications.Console, logger types.Logger) *Sink {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Sink{
		registry:   NewPlatformRegistry(),
		signer:     NewSignatureManager(),
		httpClient: httpClient,
		config:     cfg,
		console:    console,
		logger:     logger,
		clock:      types.RealClock{},
	}
}

// SetClock overrides the clock for testing.
func (s *Sink) SetClock(c types.Clock) {
	s.clock = c
}

// Type returns the channel type identifier for webhooks.
func (s *Sink) Type() types.ChannelType {
	return types.ChannelWebhook
}

// Send formats n for the destination platform and POSTs it once.
//
// Without WEBHOOK_URL the text goes to the console. A URL that fails the
// pre-flight check, a blocked destination, a network error, a non-2xx
// status or a platform soft failure is returned as a send error.
func (s *Sink) Send(ctx context.Context, n *notifications.Notification) (notifications.Receipt, error) {
	receipt := notifications.Receipt{Channel: types.ChannelWebhook}

	if s.config.URL == "" {
		s.logger.Warn("webhook URL missing, falling back to console")
		return s.console.Fallback(MissingURL, n), nil
	}

	if s.validateURL != nil {
		if err := s.validateURL(s.config.URL); err != nil {
			return receipt, types.NewSendError("webhook destination rejected", err)
		}
	}

	platform := s.registry.Detect(s.config.URL, s.config.Platform)
	formatter := s.registry.Get(platform)

	payload, err := formatter.Format(ctx, n)
	if err != nil {
		return receipt, types.NewSendError("failed to format webhook payload", err)
	}

	if warning, deprecated := s.registry.CheckDeprecation(s.config.URL); deprecated {
		s.logger.Warn("webhook destination deprecated", "warning", warning)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.URL, bytes.NewReader(payload))
	if err != nil {
		return receipt, types.NewSendError("failed to build webhook request", err)
	}

	deliveryID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set(DeliveryHeader, deliveryID)
	req.Header.Set(EventHeader, EventRainLikely)
	if traceID := types.GetRequestID(ctx); traceID != "" {
		req.Header.Set("X-B3-TraceId", traceID)
	}

	if s.config.Secret.IsSet() {
		sig, err := s.signer.SignPayload(payload, s.config.Secret.Unmask(), s.clock.Now())
		if err != nil {
			return receipt, types.NewSendError("failed to sign webhook payload", err)
		}
		req.Header.Set(SignatureHeader, sig)
	}

	start := s.clock.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		if security.IsSSRFError(err) {
			s.logger.Error("webhook SSRF blocked", "error", err.Error())
			return receipt, types.NewSendError("webhook destination blocked", err)
		}
		s.logger.Warn("webhook network error", "error", err.Error())
		return receipt, types.NewSendError("webhook request failed", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyRead))

	if err := formatter.ValidateResponse(resp.StatusCode, body); err != nil {
		s.logger.Warn("webhook rejected",
			"platform", string(platform),
			"status", resp.StatusCode,
			"error", err.Error(),
		)
		return receipt, types.NewSendError(
			fmt.Sprintf("webhook returned %d", resp.StatusCode), err,
		).WithDetails(map[string]any{"status": resp.StatusCode, "platform": string(platform)})
	}

	receipt.ProviderMessageID = providerMessageID(resp, platform, deliveryID)

	s.logger.Info("webhook delivered",
		"platform", string(platform),
		"status", resp.StatusCode,
		"delivery_id", deliveryID,
		"duration_ms", s.clock.Now().Sub(start).Milliseconds(),
	)
	return receipt, nil
}

// providerMessageID prefers an upstream request ID and falls back to the
// delivery ID sent with the request.
func providerMessageID(resp *http.Response, platform Platform, deliveryID string) string {
	if platform == PlatformSlack {
		if reqID := resp.Header.Get("X-Slack-Req-Id"); reqID != "" {
			return reqID
		}
	}
	if reqID := resp.Header.Get("X-Request-Id"); reqID != "" {
		return reqID
	}
	return deliveryID
}
