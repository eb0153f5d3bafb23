package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// S3Config holds settings for an S3-compatible object store.
type S3Config struct {
	// Endpoint overrides the AWS endpoint for S3-compatible stores
	// (MinIO, R2). Empty means AWS S3.
	Endpoint string

	Region    string
	Bucket    string
	AccessKey string
	SecretKey string

	// PublicBaseURL is the base of the URLs handed out for uploaded blobs.
	// Empty falls back to the endpoint-plus-bucket form.
	PublicBaseURL string
}

// S3Store implements BlobStore backed by an S3-compatible service.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
	logger  zerolog.Logger
}

// NewS3Store configures a client targeting the provided object store.
func NewS3Store(ctx context.Context, cfg S3Config, logger zerolog.Logger) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 storage: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = true
	})

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" && endpoint != "" {
		baseURL = endpoint + "/" + cfg.Bucket
	}

	logger.Info().
		Str("bucket", cfg.Bucket).
		Str("endpoint", endpoint).
		Msg("blob store initialized")

	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: baseURL,
		logger:  logger.With().Str("component", "storage").Logger(),
	}, nil
}

// Upload stores the content under key and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", fmt.Errorf("s3 storage: empty key")
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if s.baseURL == "" {
		return key, nil
	}
	return s.baseURL + "/" + key, nil
}

// Delete removes the blob a previous Upload returned url for.
func (s *S3Store) Delete(ctx context.Context, url string) error {
	key := s.keyFromURL(url)
	if key == "" {
		return fmt.Errorf("s3 storage: url %q is not in this store", url)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	return nil
}

func (s *S3Store) keyFromURL(url string) string {
	if s.baseURL == "" {
		return strings.TrimLeft(url, "/")
	}
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return ""
	}
	return strings.TrimPrefix(url, s.baseURL+"/")
}

// Ensure S3Store implements BlobStore.
var _ BlobStore = (*S3Store)(nil)
