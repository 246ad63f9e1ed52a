// Package objectstore uploads images to an S3-compatible bucket and hands
// out their public URLs.
package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"sleuth/internal/platform/errors"
	"sleuth/internal/platform/logx"
)

// Config addresses the bucket. Endpoint overrides the https://<Host>
// default and is mostly useful against local S3 emulators.
type Config struct {
	Host      string
	Bucket    string
	AccessKey string
	SecretKey string
	Endpoint  string
	// HTTPClient defaults to the SDK's client.
	HTTPClient *http.Client
}

// Store implements ports.ObjectStore.
type Store struct {
	client *s3.Client
	host   string
	bucket string
	logger logx.Logger
}

// New builds a path-style S3 client for the bucket.
func New(cfg Config, logger logx.Logger) (*Store, error) {
	if cfg.Host == "" || cfg.Bucket == "" {
		return nil, errors.Wrap(errors.ErrNotConfigured, "object store host and bucket are required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.Wrap(errors.ErrNotConfigured, "object store credentials are required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "https://" + cfg.Host
	}

	opts := s3.Options{
		Region:       Region(cfg.Host),
		BaseEndpoint: aws.String(endpoint),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.HTTPClient != nil {
		opts.HTTPClient = cfg.HTTPClient
	}

	return &Store{
		client: s3.New(opts),
		host:   cfg.Host,
		bucket: cfg.Bucket,
		logger: logger.With("component", "object-store", "bucket", cfg.Bucket),
	}, nil
}

// Region derives the signing region from the first label of host,
// e.g. "ewr1" for "ewr1.vultrobjects.com".
func Region(host string) string {
	label, _, _ := strings.Cut(host, ".")
	if label == "" {
		return "us-east-1"
	}
	return label
}

// Put uploads body under key with a public-read ACL.
func (s *Store) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
		ACL:    types.ObjectCannedACLPublicRead,
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errors.Wrapf(errors.ErrServiceUnavailable, "upload %s: %v", key, err)
	}

	s.logger.Info("object uploaded", "key", key, "bytes", size)
	return nil
}

// URL returns the public URL of key.
func (s *Store) URL(key string) string {
	return fmt.Sprintf("https://%s/%s/%s", s.host, s.bucket, key)
}
