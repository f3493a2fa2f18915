package notifications

import (
	"context"

	"raincheck/internal/config"
	"raincheck/internal/external"
	"raincheck/internal/types"
)

// PushoverMissingCredentials is printed when the push sink is selected but
// PUSHOVER_TOKEN or PUSHOVER_USER is empty.
const PushoverMissingCredentials = "Pushover missing PUSHOVER_TOKEN or PUSHOVER_USER; falling back to stdout."

// PushoverSender abstracts the push-service client for testability.
type PushoverSender interface {
	Send(ctx context.Context, msg external.PushoverMessage) error
}

// PushoverSink delivers notifications through the Pushover API.
type PushoverSink struct {
	client  PushoverSender
	cfg     config.PushoverConfig
	console *Console
	logger  types.Logger
}

// Compile-time assertion that PushoverSink implements Sink.
var _ Sink = (*PushoverSink)(nil)

// NewPushoverSink creates a PushoverSink. console receives the fallback
// output when credentials are missing.
func NewPushoverSink(client PushoverSender, cfg config.PushoverConfig, console *Console, logger types.Logger) *PushoverSink {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &PushoverSink{
		client:  client,
		cfg:     cfg,
		console: console,
		logger:  logger,
	}
}

// Type returns the channel type identifier for Pushover.
func (s *PushoverSink) Type() types.ChannelType {
	return types.ChannelPushover
}

// Send posts the notification text once. Without both credentials no request
// is made and the text goes to the console instead.
func (s *PushoverSink) Send(ctx context.Context, n *Notification) (Receipt, error) {
	if !s.cfg.HasCredentials() {
		s.logger.Warn("pushover credentials missing, falling back to console")
		return s.console.Fallback(PushoverMissingCredentials, n), nil
	}

	err := s.client.Send(ctx, external.PushoverMessage{
		Token:    s.cfg.Token.Unmask(),
		User:     s.cfg.User.Unmask(),
		Message:  n.Text,
		Title:    s.cfg.Title,
		Priority: s.cfg.Priority,
	})
	if err != nil {
		return Receipt{Channel: types.ChannelPushover}, err
	}

	s.logger.Info("pushover notification sent")
	return Receipt{Channel: types.ChannelPushover}, nil
}
