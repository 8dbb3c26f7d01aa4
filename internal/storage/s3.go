package storage

import (
	"bytes"
	"context"
	"fmt"
	"log"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader pushes generated export files to an S3-compatible bucket
// (AWS S3 or Cloudflare R2) for retention. A nil Uploader disables
// archiving without touching call sites.
type Uploader struct {
	client *s3.Client
	bucket string
}

// NewUploader builds an uploader against the given endpoint. For R2 the
// endpoint is the account-scoped URL; for plain S3 leave it empty.
func NewUploader(ctx context.Context, accessKey, secretKey, endpoint, bucket, region string) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("archive bucket is required")
	}
	if region == "" {
		region = "auto"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = &endpoint
		}
	})

	return &Uploader{client: client, bucket: bucket}, nil
}

// Upload stores body under key with the given content type
func (u *Uploader) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	if u == nil {
		return nil
	}
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &u.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	log.Printf("[Storage] archived %s (%d bytes)", key, len(body))
	return nil
}
