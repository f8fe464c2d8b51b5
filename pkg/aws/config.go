// Package aws holds the AWS integrations the registry uses: Secrets Manager for
// credentials, SNS for sync events, S3 for export archives and CloudWatch for
// logs and metrics. Every client honours AWS_ENDPOINT so LocalStack works in
// development.
package aws

import (
	"context"
	"fmt"
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// LoadAWSConfig loads the default AWS config. When AWS_ENDPOINT is set every
// client created from the config targets that URL instead of AWS.
func LoadAWSConfig(ctx context.Context) (sdkaws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return cfg, fmt.Errorf("failed to load aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = os.Getenv("AWS_REGION")
	}

	if endpoint := CustomEndpoint(); endpoint != "" {
		cfg.BaseEndpoint = sdkaws.String(endpoint)
	}
	return cfg, nil
}

// CustomEndpoint returns the LocalStack-style endpoint override, if any.
func CustomEndpoint() string {
	return os.Getenv("AWS_ENDPOINT")
}
