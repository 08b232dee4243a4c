package config

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

// LoadAWS builds the SDK configuration shared by the SES and S3 clients.
// Static keys win over the default credential chain when both are set.
func LoadAWS(ctx context.Context, cfg *Config) (aws.Config, error) {
	loaders := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKey) != "" && strings.TrimSpace(cfg.AWSSecretKey) != "" {
		loaders = append(loaders, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, loaders...)
}
