package s3infra

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/careerhub-api/internal/config"
	"github.com/careerhub-api/internal/domain"
)

// Store wraps S3 operations for the artifact store gateway. Uploads return
// stable object URLs that are persisted on the owning record.
type Store struct {
	client *s3.Client
	bucket string
	// baseURL is the public prefix object URLs are built from.
	baseURL string
}

// NewClient creates an S3 client. When cfg.AWSEndpointURL is set (LocalStack),
// it overrides the endpoint and enables path-style addressing.
func NewClient(cfg *config.Config) *s3.Client {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}

	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		panic("failed to load AWS config for S3: " + err.Error())
	}

	clientOpts := []func(*s3.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...)
}

// NewStore creates a Store for the given bucket.
func NewStore(client *s3.Client, cfg *config.Config) *Store {
	base := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3BucketName, cfg.AWSRegion)
	if cfg.AWSEndpointURL != "" {
		base = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.AWSEndpointURL, "/"), cfg.S3BucketName)
	}
	return &Store{client: client, bucket: cfg.S3BucketName, baseURL: base}
}

// Upload streams an artifact to S3 under key and returns its URL.
// Failures wrap domain.ErrStore.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object %s: %v: %w", key, err, domain.ErrStore)
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// Delete removes an artifact from S3. Failures wrap domain.ErrStore.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete object %s: %v: %w", key, err, domain.ErrStore)
	}
	return nil
}

// KeyFromURL extracts the object key from a URL produced by Upload.
// Returns an empty string for foreign URLs.
func (s *Store) KeyFromURL(url string) string {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return ""
	}
	return strings.TrimPrefix(url, prefix)
}
