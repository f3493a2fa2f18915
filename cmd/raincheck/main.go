// Package main is the one-shot rain check intended for cron or a CI
// schedule. It performs a single fetch, analyze, decide and notify pass and
// exits.
//
// Console output (alerts, skip lines and fetch failures) goes to stdout;
// structured logs go to stderr. A failed forecast fetch exits 0 so that a
// flaky upstream never fails the surrounding workflow. A failed notification
// exits 1.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"raincheck/internal/config"
	"raincheck/internal/scheduler"
	"raincheck/internal/types"
)

// runner is the subset of scheduler.RainCheck the entry point drives.
type runner interface {
	Run(ctx context.Context) (scheduler.Report, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx)
	stop()
	os.Exit(code)
}

func run(ctx context.Context) int {
	cfg, err := config.LoadConfig(config.NewSSMProvider(os.Getenv("AWS_REGION")))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: loading configuration: %v\n", err)
		return 1
	}

	logger := cfg.NewLogger(os.Stderr)
	rc, err := build(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build rain check", "error", err)
		return 1
	}

	return execute(ctx, rc, logger)
}

func build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*scheduler.RainCheck, error) {
	deps := scheduler.Deps{
		Stdout: os.Stdout,
		Logger: types.NewSlogLogger(logger),
	}

	if cfg.NeedsAWS() {
		awsCfg, err := cfg.LoadAWS(ctx)
		if err != nil {
			return nil, err
		}
		deps.SQS = sqs.NewFromConfig(awsCfg)
		deps.CloudWatch = cloudwatch.NewFromConfig(awsCfg)
	}

	rc, _, err := scheduler.Build(cfg, deps)
	return rc, err
}

// execute runs one check and maps its report to a process exit code.
func execute(ctx context.Context, r runner, logger *slog.Logger) int {
	report, err := r.Run(ctx)
	if err != nil {
		logger.Error("rain check failed", "run_id", report.RunID, "outcome", report.Outcome, "error", err)
	}
	return exitCode(report)
}

func exitCode(report scheduler.Report) int {
	if report.Outcome == scheduler.OutcomeNotifyFailed {
		return 1
	}
	return 0
}
