package project

import (
	"context"

	"github.com/google/uuid"
)

// UpdateResult: project sau khi update và characters trước đó
// (PreviousCharacters chỉ có khi request gửi characters)
type UpdateResult struct {
	Project            *Project
	PreviousCharacters []Character
}

// Repository: mọi query đều scope theo owner
type Repository interface {
	Create(ctx context.Context, p *Project) error

	// ListByOwner sắp xếp updatedAt DESC
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Project, error)

	// FindOwned - ErrProjectNotFound nếu không có hoặc không thuộc owner
	FindOwned(ctx context.Context, ownerID, projectID uuid.UUID) (*Project, error)

	// UpdateOwned thay thế đúng các field được gửi và bump updated_at, trong một statement
	UpdateOwned(ctx context.Context, ownerID, projectID uuid.UUID, req UpdateProjectRequest) (*UpdateResult, error)

	// ImageURLReferenced: có character nào (của bất kỳ project nào) còn dùng url không
	ImageURLReferenced(ctx context.Context, url string) (bool, error)
}
