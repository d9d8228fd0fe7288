package upload

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PresignExpiry: thời hạn của presigned PUT URL
const PresignExpiry = 60 * time.Second

type Service interface {
	// GetSignedURL presign một key mới và ghi nhận ownerID là chủ của key đó
	GetSignedURL(ctx context.Context, ownerID uuid.UUID, req SignedURLRequest) (*SignedURLResponse, error)
}

// Presigner là phần storage mà upload broker cần (S3Storage implement)
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, error)
	PublicURL(key string) string
}
