package gcp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/yungbote/facefit-backend/internal/pkg/logger"
)

// ScanImageStore archives raw scan uploads.
type ScanImageStore interface {
	Put(ctx context.Context, userID uuid.UUID, scanID uuid.UUID, format string, data []byte) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

type bucketStore struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
}

func NewScanImageStore(log *logger.Logger, bucketName string) (ScanImageStore, error) {
	bucketName = strings.TrimSpace(bucketName)
	if bucketName == "" {
		return nil, fmt.Errorf("missing scan bucket name")
	}
	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	client, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &bucketStore{
		log:    log.With("service", "ScanImageStore", "bucket", bucketName),
		client: client,
		bucket: bucketName,
	}, nil
}

func ScanImageKey(userID, scanID uuid.UUID, format string) string {
	ext := strings.ToLower(strings.TrimSpace(format))
	if ext == "" || ext == "jpeg" {
		ext = "jpg"
	}
	return fmt.Sprintf("scans/%s/%s.%s", userID, scanID, ext)
}

func (s *bucketStore) Put(ctx context.Context, userID uuid.UUID, scanID uuid.UUID, format string, data []byte) (string, error) {
	key := ScanImageKey(userID, scanID, format)
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentTypeForKey(key)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	s.log.Debug("Archived scan image", "key", key, "bytes", len(data))
	return key, nil
}

func (s *bucketStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open GCS object %q: %w", key, err)
	}
	return rc, nil
}

func (s *bucketStore) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && err != storage.ErrObjectNotExist {
		return fmt.Errorf("failed to delete GCS object %q: %w", key, err)
	}
	return nil
}

// NopScanImageStore is used when no bucket is configured.
type NopScanImageStore struct{}

func (NopScanImageStore) Put(context.Context, uuid.UUID, uuid.UUID, string, []byte) (string, error) {
	return "", nil
}

func (NopScanImageStore) Get(_ context.Context, key string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("scan image %q: archive disabled", key)
}

func (NopScanImageStore) Delete(context.Context, string) error { return nil }

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
