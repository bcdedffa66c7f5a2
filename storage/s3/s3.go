// Package s3 persists result images into an S3 bucket.
package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/teklini/nanogen"
)

// Store uploads files to a single bucket.
type Store struct {
	client *awss3.Client
	bucket string
}

var _ nanogen.Storage = (*Store)(nil)

// New creates a Store around an existing S3 client.
func New(client *awss3.Client, bucket string) *Store {
	return &Store{
		client: client,
		bucket: bucket,
	}
}

// NewFromDefaultConfig builds the S3 client from the ambient AWS
// configuration (environment, shared config, instance role).
func NewFromDefaultConfig(ctx context.Context, bucket string) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("s3 storage: load aws config: %w", err)
	}
	return New(awss3.NewFromConfig(cfg), bucket), nil
}

// SaveFile uploads data under key path and returns the object's s3:// URL.
func (s *Store) SaveFile(ctx context.Context, data []byte, path string, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("s3 storage: put object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, path), nil
}
