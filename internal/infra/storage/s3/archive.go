package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"leihbar/internal/app/policies"
)

// Archive stores rendered contract documents in an S3-compatible bucket.
// Contracts are private records, so the bucket is never opened for public
// read; the returned URL is for operators, not for direct download.
type Archive struct {
	bucket         string
	baseURL        string
	client         *minio.Client
	logger         *slog.Logger
	bucketInitOnce sync.Once
	bucketInitErr  error
}

// NewArchive configures the archive using the provided endpoint and credentials.
func NewArchive(endpoint string, useSSL bool, accessKey, secretKey, bucket, baseURL string, logger *slog.Logger) (*Archive, error) {
	cleanEndpoint := strings.TrimSpace(endpoint)
	if cleanEndpoint == "" {
		return nil, errors.New("s3: endpoint is required")
	}
	if bucket = strings.TrimSpace(bucket); bucket == "" {
		return nil, errors.New("s3: bucket is required")
	}

	opts := &minio.Options{
		Creds:  credentials.NewStaticV4(strings.TrimSpace(accessKey), strings.TrimSpace(secretKey), ""),
		Secure: useSSL,
	}
	minioClient, err := minio.New(parseEndpoint(cleanEndpoint), opts)
	if err != nil {
		return nil, fmt.Errorf("s3: create client: %w", err)
	}

	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = cleanEndpoint
	}

	return &Archive{
		bucket:  bucket,
		baseURL: strings.TrimRight(base, "/"),
		client:  minioClient,
		logger:  logger,
	}, nil
}

// Store writes the document under the given key and returns its location.
func (a *Archive) Store(ctx context.Context, key string, document []byte) (string, error) {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("s3: object key is required")
	}
	if len(document) == 0 {
		return "", errors.New("s3: empty document")
	}
	if err := a.ensureBucket(ctx); err != nil {
		return "", err
	}

	reader := bytes.NewReader(document)
	_, err := a.client.PutObject(ctx, a.bucket, key, reader, int64(len(document)), minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("s3: put object: %w", err)
	}

	location := a.objectURL(key)
	if a.logger != nil {
		a.logger.Info("contract archived", "bucket", a.bucket, "key", key)
	}
	return location, nil
}

// NoopArchive fails fast when S3 is unavailable.
type NoopArchive struct{}

func (NoopArchive) Store(_ context.Context, _ string, _ []byte) (string, error) {
	return "", errors.New("s3 archive is not configured")
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	a.bucketInitOnce.Do(func() {
		exists, err := a.client.BucketExists(ctx, a.bucket)
		if err != nil {
			a.bucketInitErr = fmt.Errorf("s3: check bucket: %w", err)
			return
		}
		if exists {
			return
		}
		if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
			a.bucketInitErr = fmt.Errorf("s3: create bucket: %w", err)
		}
	})
	return a.bucketInitErr
}

func (a *Archive) objectURL(key string) string {
	return fmt.Sprintf("%s/%s/%s", a.baseURL, a.bucket, strings.TrimLeft(key, "/"))
}

func parseEndpoint(endpoint string) string {
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		return parsed.Host
	}
	return endpoint
}

var _ policies.DocumentArchive = (*Archive)(nil)
var _ policies.DocumentArchive = NoopArchive{}
