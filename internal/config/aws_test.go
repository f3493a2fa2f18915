package config

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAWS_EndpointOverride(t *testing.T) {
	cfg := &Config{AWS: AWSConfig{Region: "eu-west-1", EndpointURL: "http://localhost:4566"}}

	awsCfg, err := cfg.LoadAWS(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", awsCfg.Region)
	assert.Equal(t, "http://localhost:4566", aws.ToString(awsCfg.BaseEndpoint))
}

func TestNeedsAWS(t *testing.T) {
	assert.False(t, (&Config{Notify: NotifyConfig{Target: "stdout"}}).NeedsAWS())
	assert.True(t, (&Config{Notify: NotifyConfig{Target: "sqs"}}).NeedsAWS())

	metrics := &Config{Notify: NotifyConfig{Target: "pushover"}}
	metrics.Observability.EnableMetrics = true
	assert.True(t, metrics.NeedsAWS())
}
