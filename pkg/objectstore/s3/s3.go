// Package s3 implements objectstore.Client on Amazon S3 or any
// S3-compatible service.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/cktan/liststore/pkg/objectstore"
)

// Config holds construction-time configuration for the S3-backed client.
type Config struct {
	// Bucket is the S3 bucket identifier. Required.
	Bucket string

	// Region is the AWS region. Optional; falls back to the SDK default
	// resolution chain.
	Region string

	// Endpoint is the S3 endpoint URL. Optional, used for S3-compatible
	// services (MinIO, LocalStack) in tests.
	Endpoint string

	// AccessKey and SecretKey are long-lived credentials. When empty the
	// default AWS credential chain is used instead (useful for IAM-role
	// deployments).
	AccessKey string
	SecretKey string

	// ForcePathStyle is required for most S3-compatible services.
	ForcePathStyle bool

	// RequestTimeout bounds each HTTP request to the service. Zero means
	// no client-side timeout; deadlines then come only from the caller's
	// context.
	RequestTimeout time.Duration
}

// Client implements objectstore.Client backed by S3.
type Client struct {
	client *s3.Client
	bucket string
	closed bool
	mu     sync.RWMutex
}

// New creates a Client from an existing S3 SDK client.
func New(client *s3.Client, bucket string) *Client {
	return &Client{client: client, bucket: bucket}
}

// NewFromConfig builds an S3 SDK client from cfg and wraps it.
func NewFromConfig(ctx context.Context, cfg Config) (*Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	if cfg.RequestTimeout > 0 {
		opts = append(opts, awsconfig.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("objectstore/s3: load aws config: %w", err)
	}

	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}
	if cfg.ForcePathStyle {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return New(client, cfg.Bucket), nil
}

// Put implements objectstore.Client.
func (c *Client) Put(ctx context.Context, key string, data []byte) error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("objectstore/s3: put %q: %w", key, err)
	}
	return nil
}

// Get implements objectstore.Client.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	resp, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, objectstore.ErrNotFound
		}
		return nil, fmt.Errorf("objectstore/s3: get %q: %w", key, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("objectstore/s3: read body %q: %w", key, err)
	}
	return data, nil
}

// Delete implements objectstore.Client. Deleting a missing key is not an
// error: S3's DeleteObject is already idempotent in this way.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.checkOpen(); err != nil {
		return err
	}

	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("objectstore/s3: delete %q: %w", key, err)
	}
	return nil
}

// List implements objectstore.Client, paginating internally so callers
// never have to think about the 1000-key-per-page S3 limit.
func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}

	var keys []string
	paginator := s3.NewListObjectsV2Paginator(c.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("objectstore/s3: list %q: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}

// Close marks the client as closed. The underlying SDK client owns no
// connections to release explicitly.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *Client) checkOpen() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return objectstore.ErrStoreClosed
	}
	return nil
}

// isNotFoundError reports whether err represents a missing S3 object.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	// Some S3-compatible backends report NoSuchKey only in the message.
	errStr := err.Error()
	return strings.Contains(errStr, "NoSuchKey") || strings.Contains(errStr, "404")
}

var _ objectstore.Client = (*Client)(nil)
