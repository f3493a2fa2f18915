package scheduler

import (
	"fmt"
	"io"

	"raincheck/internal/config"
	"raincheck/internal/external"
	"raincheck/internal/forecasts"
	"raincheck/internal/notifications"
	"raincheck/internal/notifications/webhook"
	"raincheck/internal/queue"
	"raincheck/internal/types"
)

// Deps holds the process-level collaborators a RainCheck is built from.
// AWS clients are optional: without SQS the sqs sink falls back to the
// console, without CloudWatch (or with metrics disabled) nothing is emitted.
type Deps struct {
	Stdout     io.Writer
	Logger     types.Logger
	Forecast   external.ForecastClient
	Pushover   notifications.PushoverSender
	SQS        queue.SQSSender
	CloudWatch notifications.CloudWatchClient
	Clock      types.Clock
}

// Build wires a RainCheck and its forecast Service from cfg. Only the sink
// selected by NOTIFY is constructed.
func Build(cfg *config.Config, deps Deps) (*RainCheck, *forecasts.Service, error) {
	logger := deps.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	console := notifications.NewConsole(deps.Stdout)

	forecastClient := deps.Forecast
	if forecastClient == nil {
		forecastClient = external.NewOpenMeteoClient(external.OpenMeteoClientConfig{
			BaseURL:   cfg.Forecast.BaseURL,
			Timeout:   cfg.Forecast.Timeout,
			UserAgent: cfg.Forecast.UserAgent,
			Logger:    logger,
		})
	}
	service := forecasts.NewService(forecastClient, logger, deps.Clock)

	var (
		deliveryMetrics notifications.Metrics = notifications.NopMetrics{}
		runMetrics      RunMetrics            = NopRunMetrics{}
	)
	if cfg.Observability.EnableMetrics && deps.CloudWatch != nil {
		deliveryMetrics = notifications.NewCloudWatchMetrics(deps.CloudWatch, cfg.Observability.MetricNamespace, logger)
		runMetrics = NewCloudWatchRunMetrics(deps.CloudWatch, cfg.Observability.MetricNamespace, logger)
	}

	target := cfg.Notify.Target.Channel()
	sink, err := buildSink(target, cfg, deps, console, logger)
	if err != nil {
		return nil, nil, err
	}
	sinks := map[types.ChannelType]notifications.Sink{}
	if sink != nil {
		sinks[target] = sink
	}
	dispatcher := notifications.NewDispatcher(target, sinks, console, deliveryMetrics, logger)

	rc := NewRainCheck(RainCheckConfig{
		Checker:  service,
		Notifier: dispatcher,
		Console:  console,
		Metrics:  runMetrics,
		Location: cfg.ForecastLocation(),
		Params: forecasts.Params{
			HoursAhead:     int(cfg.Rain.HoursAhead),
			Threshold:      int(cfg.Rain.Threshold),
			IncludeSummary: bool(cfg.Rain.IncludeSummary),
			City:           cfg.Location.City,
		},
		WeekdaysOnly: bool(cfg.Rain.WeekdaysOnly),
		Logger:       logger,
		Clock:        deps.Clock,
	})
	return rc, service, nil
}

func buildSink(target types.ChannelType, cfg *config.Config, deps Deps, console *notifications.Console, logger types.Logger) (notifications.Sink, error) {
	switch target {
	case types.ChannelPushover:
		client := deps.Pushover
		if client == nil {
			client = external.NewPushoverClient(external.PushoverClientConfig{
				APIURL:    cfg.Pushover.APIURL,
				Timeout:   cfg.Pushover.Timeout,
				UserAgent: cfg.Forecast.UserAgent,
			})
		}
		return notifications.NewPushoverSink(client, cfg.Pushover, console, logger), nil
	case types.ChannelWebhook:
		s, err := webhook.NewSink(cfg.Webhook, console, logger)
		if err != nil {
			return nil, fmt.Errorf("scheduler: %w", err)
		}
		return s, nil
	case types.ChannelSQS:
		return queue.NewAlertPublisher(deps.SQS, cfg.AWS, console, logger), nil
	}
	return nil, nil
}
