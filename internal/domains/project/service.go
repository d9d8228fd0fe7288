package project

import (
	"context"

	"github.com/google/uuid"
)

type Service interface {
	Create(ctx context.Context, ownerID uuid.UUID, req CreateProjectRequest) (*Project, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]Project, error)

	// Get/Update nhận projectID dạng string; id sai format -> ErrProjectNotFound
	Get(ctx context.Context, ownerID uuid.UUID, projectID string) (*Project, error)
	Update(ctx context.Context, ownerID uuid.UUID, projectID string, req UpdateProjectRequest) (*Project, error)
}

// UploadRegistry cho biết URL nào do ownerID upload qua presigned URL
type UploadRegistry interface {
	OwnedURLs(ctx context.Context, ownerID uuid.UUID, urls []string) ([]string, error)
}

// UploadCleaner xóa (bất đồng bộ) các object không còn được tham chiếu
type UploadCleaner interface {
	ScheduleDelete(ctx context.Context, projectID string, urls []string) error
}
