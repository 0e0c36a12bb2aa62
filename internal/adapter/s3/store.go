package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
)

// API is the subset of the S3 client used by Store.
type API interface {
	GetObject(ctx context.Context, params *awss3.GetObjectInput, optFns ...func(*awss3.Options)) (*awss3.GetObjectOutput, error)
}

// Store implements dataset.ObjectStore on top of S3.
type Store struct {
	api    API
	logger *slog.Logger
}

// NewStore creates an S3 object store around an existing client.
func NewStore(api API, logger *slog.Logger) *Store {
	return &Store{api: api, logger: logger}
}

// NewFromConfig creates a Store with a client built from ambient AWS configuration.
func NewFromConfig(cfg aws.Config, logger *slog.Logger) *Store {
	return NewStore(awss3.NewFromConfig(cfg), logger)
}

// Open fetches "<bucket>/<key>". Missing buckets or keys and transport
// failures are reported as domain.ErrSourceUnavailable.
func (s *Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	bucket, key, err := SplitPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSourceUnavailable, err)
	}

	out, err := s.api.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		switch {
		case errors.As(err, &noKey), errors.As(err, &noBucket):
			return nil, fmt.Errorf("%w: s3://%s/%s does not exist", domain.ErrSourceUnavailable, bucket, key)
		default:
			return nil, fmt.Errorf("%w: get s3://%s/%s: %w", domain.ErrSourceUnavailable, bucket, key, err)
		}
	}

	s.logger.Debug("s3 object opened", "bucket", bucket, "key", key, "content_length", aws.ToInt64(out.ContentLength))
	return out.Body, nil
}

// SplitPath splits "<bucket>/<key>" (an "s3://" prefix is allowed).
func SplitPath(path string) (bucket, key string, err error) {
	p := strings.TrimPrefix(path, "s3://")
	p = strings.TrimPrefix(p, "/")
	bucket, key, ok := strings.Cut(p, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("invalid object path %q: want <bucket>/<key>", path)
	}
	return bucket, key, nil
}
