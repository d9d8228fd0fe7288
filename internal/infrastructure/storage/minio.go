package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"kinex-backend/internal/config"
)

// S3Storage ký presigned URL và xóa object trên S3 (hoặc MinIO).
// Bytes của file không bao giờ đi qua server.
type S3Storage struct {
	client        *minio.Client
	bucket        string
	region        string
	acl           string
	publicBaseURL string
}

// NewS3Storage khởi tạo client; không gọi network
func NewS3Storage(cfg config.S3Config) (*S3Storage, error) {
	if !cfg.Configured() {
		return nil, fmt.Errorf("s3 storage is not configured")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 client: %w", err)
	}

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Storage{
		client:        client,
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		acl:           cfg.ObjectACL,
		publicBaseURL: base,
	}, nil
}

// EnsureBucket tạo bucket nếu chưa có (dùng cho MinIO local)
func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// PresignPut trả về URL cho phép PUT đúng một object trong khoảng expiry.
// Content-Type được ký nên client phải gửi đúng header đó.
func (s *S3Storage) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	params := url.Values{}
	if s.acl != "" {
		params.Set("x-amz-acl", s.acl)
	}
	headers := http.Header{}
	headers.Set("Content-Type", contentType)

	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, key, expiry, params, headers)
	if err != nil {
		return "", fmt.Errorf("failed to presign put: %w", err)
	}
	return u.String(), nil
}

// PublicURL: URL đọc công khai của object
func (s *S3Storage) PublicURL(key string) string {
	return s.publicBaseURL + "/" + key
}

// KeyFromURL là phép ngược của PublicURL; false nếu URL không thuộc bucket này
func (s *S3Storage) KeyFromURL(rawURL string) (string, bool) {
	prefix := s.publicBaseURL + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, prefix)
	if key == "" {
		return "", false
	}
	return key, true
}

// Delete xóa một object
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}
