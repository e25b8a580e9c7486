// Copyright (c) 2026 Petfolio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage provides the object-storage client used for pet photos.

It targets any S3-compatible endpoint (Cloudflare R2, MinIO, AWS S3). Uploads
are keyed by caller-generated object names; the public URL for a stored object
is derived from the configured public base URL.

Core Responsibilities:

  - Upload-by-key with explicit content type.
  - Public URL derivation for stored objects.
  - Startup and readiness connectivity checks (HeadBucket).
*/
package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/taibuivan/petfolio/internal/platform/config"
)

const pingTimeout = 3 * time.Second

// Client wraps an S3-compatible bucket holding uploaded pet photos.
type Client struct {
	s3client      *s3.Client
	bucket        string
	publicBaseURL string
}

// NewClient builds the S3 client from application configuration.
//
// # Parameters
//   - ctx: Context for credential resolution.
//   - cfg: Application configuration carrying bucket, region, endpoint, and keys.
//   - logger: Structured logger for connection events.
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("storage: S3_BUCKET is not configured")
	}

	loadOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load AWS config: %w", err)
	}

	s3client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.S3Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.S3Endpoint)
			// R2/MinIO style endpoints address buckets by path, not subdomain.
			options.UsePathStyle = true
		}
	})

	client := &Client{
		s3client:      s3client,
		bucket:        cfg.S3Bucket,
		publicBaseURL: strings.TrimRight(cfg.S3PublicBaseURL, "/"),
	}

	logger.Info("storage client ready",
		slog.String("bucket", cfg.S3Bucket),
		slog.String("endpoint", cfg.S3Endpoint),
	)

	return client, nil
}

// Upload stores data under key and returns the object's public URL.
//
// Size/type validation happens in the pet service BEFORE this call; Upload
// itself never inspects the payload.
func (client *Client) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := client.s3client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(client.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload of %q failed: %w", key, err)
	}

	return client.PublicURL(key), nil
}

// PublicURL derives the public URL for a stored object key.
func (client *Client) PublicURL(key string) string {
	if client.publicBaseURL != "" {
		return client.publicBaseURL + "/" + key
	}
	// Fall back to the virtual-hosted S3 form.
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", client.bucket, key)
}

// Ping verifies bucket access for readiness probes.
func (client *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	_, err := client.s3client.HeadBucket(pingCtx, &s3.HeadBucketInput{
		Bucket: aws.String(client.bucket),
	})
	if err != nil {
		return fmt.Errorf("storage: bucket check failed: %w", err)
	}

	return nil
}
