package s3store

import (
	"context"
	"fmt"

	"blob-gateway/core/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Endpoint describes how object URLs are addressed.
type Endpoint struct {
	Region string
	// BaseURL overrides the AWS endpoint (LocalStack, R2, ...). Empty means AWS.
	BaseURL   string
	PathStyle bool
}

// NewClient builds an S3 client from a connection string with keys Region,
// AccessKeyId, SecretAccessKey, SessionToken, Endpoint and ForcePathStyle.
// Without AccessKeyId the default AWS credential chain is used.
func NewClient(ctx context.Context, connectionString string) (*s3.Client, Endpoint, error) {
	cs, err := storage.ParseConnectionString(connectionString)
	if err != nil {
		return nil, Endpoint{}, err
	}

	ep := Endpoint{BaseURL: cs.Get("Endpoint")}
	if ep.Region, err = cs.Require("Region"); err != nil {
		return nil, Endpoint{}, err
	}
	if ep.PathStyle, err = cs.Bool("ForcePathStyle", false); err != nil {
		return nil, Endpoint{}, err
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(ep.Region)}
	if ak := cs.Get("AccessKeyId"); ak != "" {
		sk, err := cs.Require("SecretAccessKey")
		if err != nil {
			return nil, Endpoint{}, err
		}
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(ak, sk, cs.Get("SessionToken")),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, Endpoint{}, &storage.ConfigError{Field: "connection_string", Err: fmt.Errorf("loading aws config: %w", err)}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if ep.BaseURL != "" {
			o.BaseEndpoint = aws.String(ep.BaseURL)
		}
		o.UsePathStyle = ep.PathStyle
	})
	return client, ep, nil
}
