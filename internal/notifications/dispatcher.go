package notifications

import (
	"context"
	"fmt"

	"raincheck/internal/types"
)

// Dispatcher routes notifications to the sink selected by configuration and
// records one delivery metric per attempt.
type Dispatcher struct {
	sink    Sink
	metrics Metrics
	logger  types.Logger
	clock   types.Clock
}

// NewDispatcher creates a Dispatcher for target. sinks holds the available
// sinks by channel; a target with no registered sink, including the console
// target itself, is served by console.
func NewDispatcher(target types.ChannelType, sinks map[types.ChannelType]Sink, console *Console, metrics Metrics, logger types.Logger) *Dispatcher {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if logger == nil {
		logger = types.NopLogger{}
	}

	var sink Sink = console
	if s, ok := sinks[target]; ok && s != nil {
		sink = s
	}

	return &Dispatcher{
		sink:    sink,
		metrics: metrics,
		logger:  logger,
		clock:   types.RealClock{},
	}
}

// Channel returns the channel of the selected sink.
func (d *Dispatcher) Channel() types.ChannelType {
	return d.sink.Type()
}

// Notify delivers n exactly once. A failure is returned as a send error.
func (d *Dispatcher) Notify(ctx context.Context, n *Notification) (Receipt, error) {
	if n == nil {
		return Receipt{}, types.NewSendError("nothing to deliver", fmt.Errorf("notification is nil"))
	}

	channel := d.sink.Type()
	start := d.clock.Now()
	receipt, err := d.sink.Send(ctx, n)
	d.metrics.RecordLatency(ctx, channel, d.clock.Now().Sub(start))

	switch {
	case err != nil:
		d.metrics.RecordDelivery(ctx, channel, MetricFailed)
		d.logger.Error("notification delivery failed",
			"channel", string(channel),
			"error", err.Error(),
		)
		if !types.IsSendError(err) {
			err = types.NewSendError(fmt.Sprintf("%s delivery failed", channel), err)
		}
		return receipt, err
	case receipt.Fallback:
		d.metrics.RecordDelivery(ctx, channel, MetricFallback)
		d.logger.Warn("notification delivered to console fallback", "channel", string(channel))
	default:
		d.metrics.RecordDelivery(ctx, channel, MetricSuccess)
		d.logger.Info("notification delivered",
			"channel", string(receipt.Channel),
			"provider_message_id", receipt.ProviderMessageID,
		)
	}
	return receipt, nil
}

// SetClock overrides the clock for testing.
func (d *Dispatcher) SetClock(c types.Clock) {
	d.clock = c
}
