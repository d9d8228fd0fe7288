package upload

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Record(ctx context.Context, u *Upload) error

	// OwnedURLs lọc urls, chỉ giữ URL do ownerID upload
	OwnedURLs(ctx context.Context, ownerID uuid.UUID, urls []string) ([]string, error)
}
