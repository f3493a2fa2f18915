// Package main is the entrypoint for the scheduled rain check Lambda.
//
// An EventBridge schedule invokes the function once per run. Dependencies
// are wired once per cold start and every invocation performs a single
// fetch, analyze, decide and notify pass via scheduler.RainCheck.
//
// The invocation only errors when the notification could not be delivered,
// so a failed forecast fetch is never retried by the Lambda runtime.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"raincheck/internal/config"
	"raincheck/internal/scheduler"
	"raincheck/internal/types"
)

// runner is the subset of scheduler.RainCheck the handler drives.
type runner interface {
	Run(ctx context.Context) (scheduler.Report, error)
}

func main() {
	cfg, err := config.LoadConfig(config.NewSSMProvider(os.Getenv("AWS_REGION")))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.NewLogger(os.Stderr)
	logger.Info("RainCheck Lambda initializing (cold start)",
		"version", cfg.Build.Version,
		"notify", string(cfg.Notify.Target),
	)

	ctx := context.Background()
	awsCfg, err := cfg.LoadAWS(ctx)
	if err != nil {
		logger.Error("failed to load AWS SDK config", "error", err)
		os.Exit(1)
	}

	rc, _, err := scheduler.Build(cfg, scheduler.Deps{
		Stdout:     os.Stdout,
		Logger:     types.NewSlogLogger(logger),
		SQS:        sqs.NewFromConfig(awsCfg),
		CloudWatch: cloudwatch.NewFromConfig(awsCfg),
	})
	if err != nil {
		logger.Error("failed to build rain check", "error", err)
		os.Exit(1)
	}

	lambda.Start(newHandler(rc, logger))
}

// newHandler creates the Lambda handler for scheduled invocations. The
// returned report is the invocation result; only notify_failed surfaces as an
// error.
func newHandler(rc runner, logger *slog.Logger) func(ctx context.Context, event events.CloudWatchEvent) (scheduler.Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, event events.CloudWatchEvent) (scheduler.Report, error) {
		logger.InfoContext(ctx, "RainCheck handler invoked",
			"event_id", event.ID,
			"source", event.Source,
		)

		report, err := rc.Run(ctx)
		if err != nil {
			logger.ErrorContext(ctx, "rain check failed",
				"run_id", report.RunID,
				"outcome", report.Outcome,
				"error", err,
			)
			return report, fmt.Errorf("rain check %s: %w", report.RunID, err)
		}

		logger.InfoContext(ctx, "rain check complete",
			"run_id", report.RunID,
			"outcome", report.Outcome,
		)
		return report, nil
	}
}
