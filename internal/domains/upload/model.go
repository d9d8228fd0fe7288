package upload

import (
	"time"

	"github.com/google/uuid"
)

// Upload ghi lại key đã được presign và user đã xin nó.
// Chỉ owner mới có thể khiến object bị dọn khi ảnh bị thay thế.
type Upload struct {
	Key       string
	OwnerID   uuid.UUID
	FileURL   string
	CreatedAt time.Time
}
