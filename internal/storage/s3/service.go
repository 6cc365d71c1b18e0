package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/orbitads/orbit/backend/internal/apperrors"
	"github.com/orbitads/orbit/backend/internal/config"
	"github.com/orbitads/orbit/backend/internal/storage"
)

// Service implements the storage.ObjectStore interface over an
// S3-compatible endpoint
type Service struct {
	client *minio.Client
	bucket string
	logger storage.Logger
}

// NewService creates a new S3 service instance
func NewService(cfg *config.S3Config, logger storage.Logger) (*Service, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  miniocreds.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %v", err)
	}

	return &Service{
		client: client,
		bucket: cfg.Bucket,
		logger: logger,
	}, nil
}

// Put uploads size bytes from r under key
func (s *Service) Put(ctx context.Context, r io.Reader, size int64, key, contentType string, metadata map[string]string) (*storage.PutResult, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: metadata,
	})
	if err != nil {
		return nil, apperrors.NewStorageUploadError(key, err)
	}

	s.logger.LogInfo("Object uploaded", map[string]interface{}{
		"bucket": s.bucket,
		"key":    key,
		"size":   info.Size,
	})

	return &storage.PutResult{Key: key, Size: info.Size}, nil
}

// Presign returns a time-limited read URL for key
func (s *Service) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s: %w", key, err)
	}
	return u.String(), nil
}

// Delete removes an object from the bucket
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return apperrors.NewStorageDeleteError(key, err)
	}
	return nil
}

// Stat fetches object metadata
func (s *Service) Stat(ctx context.Context, key string) (*storage.ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return nil, apperrors.NewNotFoundError("object", key)
		}
		return nil, fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	return &storage.ObjectInfo{
		Key:          key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
		Metadata:     info.UserMetadata,
	}, nil
}

// Close closes any open S3 connections and resources
func (s *Service) Close() error {
	// The minio client keeps no long-lived connections that need teardown
	return nil
}
