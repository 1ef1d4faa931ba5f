package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"secureeye/internal/platform/config"
	"secureeye/pkg/platform/sentinel"
)

// S3Store persists images in an S3-compatible bucket. Every call runs under
// its own deadline so a stalled backend cannot hold a request open.
type S3Store struct {
	client  *minio.Client
	bucket  string
	baseURL string
	timeout time.Duration
}

// NewS3 builds the client and ensures the bucket exists.
func NewS3(ctx context.Context, cfg config.StorageConfig) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	exists, err := client.BucketExists(checkCtx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(checkCtx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return &S3Store{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket),
		timeout: cfg.Timeout,
	}, nil
}

// Put uploads the bytes under a fresh uuid key.
func (s *S3Store) Put(ctx context.Context, data []byte) (ImageRef, error) {
	key := uuid.NewString() + ".png"

	ctx, cancel := s.boundCtx(ctx)
	defer cancel()

	_, err := s.client.PutObject(ctx, s.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/png"})
	if err != nil {
		return ImageRef{}, fmt.Errorf("put object %s: %v: %w", key, err, backendErr(err))
	}

	return ImageRef{
		Key: key,
		URL: s.baseURL + "/" + key,
	}, nil
}

// Get downloads the bytes back by key.
func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := s.boundCtx(ctx)
	defer cancel()

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %s: %v: %w", key, err, backendErr(err))
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("read object %s: %v: %w", key, err, backendErr(err))
	}
	return data, nil
}

// boundCtx caps how long one backend call may run. A zero timeout leaves the
// caller's context as is.
func (s *S3Store) boundCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

// backendErr classifies a backend failure as a timeout or plain
// unavailability.
func backendErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return sentinel.ErrTimeout
	}
	return sentinel.ErrUnavailable
}
