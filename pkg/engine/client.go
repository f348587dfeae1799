package engine

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
)

// ClientConfig controls how the CloudFormation client is constructed.
type ClientConfig struct {
	// Region overrides the region from the environment or shared config.
	Region string

	// Profile selects a named profile from the shared credentials file.
	Profile string
}

// NewClient builds a CloudFormation client from the default credential
// chain (environment, shared config, instance metadata). The returned
// client satisfies the API interface consumed by Engine.
func NewClient(ctx context.Context, cfg ClientConfig) (*cloudformation.Client, error) {
	var opts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS configuration: %w", err)
	}

	return cloudformation.NewFromConfig(awsCfg), nil
}
