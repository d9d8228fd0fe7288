// Package workflow chạy 4 bước dựng project phía client:
// Ingest -> Characters -> ScenePrompts -> ForgeImage (+ AttachCharacterImage).
//
// Mỗi bước độc lập, tự persist qua partial update và chỉ đọc dữ liệu đang có trên project.
// Các vòng generate chạy tuần tự, không retry; lỗi đầu tiên dừng cả batch và không lưu gì.
package workflow

import (
	"context"
	"fmt"

	"kinex-backend/internal/domains/project"
	"kinex-backend/internal/domains/upload"
	"kinex-backend/internal/genai"
)

// ProjectSaver persist một partial update (API client trong production)
type ProjectSaver interface {
	UpdateProject(ctx context.Context, id string, req project.UpdateProjectRequest) (*project.Project, error)
}

// Uploader xin presigned URL rồi PUT bytes thẳng lên storage
type Uploader interface {
	GetSignedURL(ctx context.Context, req upload.SignedURLRequest) (*upload.SignedURLResponse, error)
	PutObject(ctx context.Context, uploadURL, contentType string, data []byte) error
}

// ValidationError: input của bước không dùng được, chưa có request nào được gửi
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type Runner struct {
	saver    ProjectSaver
	provider genai.Provider
	uploader Uploader
}

// New; provider chỉ cần cho các bước generate, uploader chỉ cần cho AttachCharacterImage
func New(saver ProjectSaver, provider genai.Provider, uploader Uploader) *Runner {
	return &Runner{saver: saver, provider: provider, uploader: uploader}
}

func (r *Runner) requireProvider() error {
	if r.provider == nil {
		return invalid("No generative provider configured; set a provider and API key first")
	}
	return nil
}

func (r *Runner) save(ctx context.Context, p *project.Project, req project.UpdateProjectRequest) (*project.Project, error) {
	saved, err := r.saver.UpdateProject(ctx, p.ID.String(), req)
	if err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}
	return saved, nil
}
