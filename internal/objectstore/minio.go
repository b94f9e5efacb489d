package objectstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"sochow/internal/config"
	"sochow/pkg/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store keeps uploaded images (payment receipts, the menu board) in a MinIO
// bucket. The object key is the stable reference string stored in the
// database; the image bytes are never inspected.
type Store struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

func Connect(ctx context.Context, cfg *config.MinIO, log *logger.Logger) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio bucket create: %w", err)
		}
	}

	log.Info("startup", "minio_connected", "Connected to MinIO")
	return &Store{client: client, bucket: cfg.Bucket, logger: log}, nil
}

// Upload stores the object and returns its key as the reference string.
func (s *Store) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("minio put %s: %w", key, err)
	}
	return key, nil
}

// PresignURL returns a short-lived GET URL for a stored reference, used by
// the management dashboard to display receipt images.
func (s *Store) PresignURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("minio presign %s: %w", key, err)
	}
	return u.String(), nil
}
