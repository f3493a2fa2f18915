package config

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"

	"raincheck/internal/types"
)

// LoadAWS loads the AWS SDK configuration for AWS_REGION. AWS_ENDPOINT_URL
// (LocalStack) overrides the endpoint of every service client built from it.
func (c *Config) LoadAWS(ctx context.Context) (aws.Config, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.AWS.Region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS config (region=%s): %w", c.AWS.Region, err)
	}
	if c.AWS.EndpointURL != "" {
		awsCfg.BaseEndpoint = aws.String(c.AWS.EndpointURL)
	}
	return awsCfg, nil
}

// NeedsAWS reports whether any configured component talks to AWS at run time.
func (c *Config) NeedsAWS() bool {
	return c.Observability.EnableMetrics || c.Notify.Target.Channel() == types.ChannelSQS
}
