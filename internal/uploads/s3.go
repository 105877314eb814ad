package uploads

import (
	"context"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"slate/internal/config"
	"slate/internal/services"
)

// S3Storage uploads camera files to an S3-compatible bucket. Path-style
// addressing covers R2 and other S3-compatible providers.
type S3Storage struct {
	client *s3.Client
	bucket string
	prefix string
}

// NewS3Storage builds the bucket-backed storage from configuration, using
// the standard AWS credential chain.
func NewS3Storage(ctx context.Context, cfg *config.Config) (*S3Storage, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Storage.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Storage.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "uploads", "s3", "load aws config", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.Storage.UsePathStyle
	})

	prefix := strings.Trim(cfg.Storage.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Storage{client: client, bucket: cfg.Storage.Bucket, prefix: prefix}, nil
}

func (s *S3Storage) Upload(ctx context.Context, key string, body io.Reader, size int64, progress func(pct int)) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.prefix + key),
		Body:          newProgressReader(body, size, progress),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return services.Wrap(services.ErrTransient, "uploads", "s3", "put object", err)
	}
	return nil
}

// NewStorage selects the configured storage backend.
func NewStorage(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendS3:
		return NewS3Storage(ctx, cfg)
	case config.StorageBackendLocal:
		return &LocalStorage{Dir: cfg.Storage.LocalDir}, nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "uploads", "storage",
			"unknown storage backend "+cfg.Storage.Backend, nil)
	}
}
