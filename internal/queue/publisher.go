// Package queue publishes rain alerts to SQS for downstream consumers.
package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqsTypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"raincheck/internal/config"
	"raincheck/internal/notifications"
	"raincheck/internal/types"
)

// MissingQueue is printed when the SQS sink is selected without
// SQS_NOTIFICATIONS.
const MissingQueue = "SQS missing SQS_NOTIFICATIONS; falling back to stdout."

// SQSSender abstracts the SQS SendMessage operation for testability.
// Production code uses the *sqs.Client from aws-sdk-go-v2.
type SQSSender interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// AlertPublisher implements notifications.Sink by sending the alert as a
// JSON message to the notification queue.
type AlertPublisher struct {
	client   SQSSender
	queueURL string
	console  *notifications.Console
	logger   types.Logger
}

// Compile-time assertion that AlertPublisher implements notifications.Sink.
var _ notifications.Sink = (*AlertPublisher)(nil)

// NewAlertPublisher creates an AlertPublisher for the queue named in awsCfg.
func NewAlertPublisher(client SQSSender, awsCfg config.AWSConfig, console *notifications.Console, logger types.Logger) *AlertPublisher {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &AlertPublisher{
		client:   client,
		queueURL: awsCfg.NotificationQueue,
		console:  console,
		logger:   logger,
	}
}

// Type returns the channel type identifier for SQS.
func (p *AlertPublisher) Type() types.ChannelType {
	return types.ChannelSQS
}

// Send enqueues the alert once. Notifications without a structured alert
// are wrapped so the message body is always a RainAlert document.
func (p *AlertPublisher) Send(ctx context.Context, n *notifications.Notification) (notifications.Receipt, error) {
	receipt := notifications.Receipt{Channel: types.ChannelSQS}
	logger := p.logger
	if runLogger := types.LoggerFromContext(ctx); runLogger != nil {
		logger = runLogger
	}

	if p.queueURL == "" || p.client == nil {
		logger.Warn("notification queue missing, falling back to console")
		return p.console.Fallback(MissingQueue, n), nil
	}

	alert := n.Alert
	if alert == nil {
		alert = &types.RainAlert{Message: n.Text}
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return receipt, types.NewSendError("failed to marshal rain alert", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]sqsTypes.MessageAttributeValue{
			"event_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String("rain_likely"),
			},
		},
	}
	if traceID := types.GetRequestID(ctx); traceID != "" {
		input.MessageAttributes["trace_id"] = sqsTypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(traceID),
		}
	}

	out, err := p.client.SendMessage(ctx, input)
	if err != nil {
		return receipt, types.NewSendError(fmt.Sprintf("failed to send rain alert to %s", p.queueURL), err)
	}

	if out != nil && out.MessageId != nil {
		receipt.ProviderMessageID = *out.MessageId
	}

	logger.Info("rain alert enqueued",
		"queue_url", p.queueURL,
		"alert_id", alert.AlertID,
		"message_id", receipt.ProviderMessageID,
	)
	return receipt, nil
}
