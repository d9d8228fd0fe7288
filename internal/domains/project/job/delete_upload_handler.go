package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"kinex-backend/internal/shared"
)

// ObjectDeleter: storage.S3Storage
type ObjectDeleter interface {
	Delete(ctx context.Context, key string) error
}

// ReferenceChecker: project.Repository
type ReferenceChecker interface {
	ImageURLReferenced(ctx context.Context, url string) (bool, error)
}

// DeleteUploadHandler xóa object ảnh character đã bị thay thế
type DeleteUploadHandler struct {
	storage ObjectDeleter
	refs    ReferenceChecker
}

func NewDeleteUploadHandler(storage ObjectDeleter, refs ReferenceChecker) *DeleteUploadHandler {
	return &DeleteUploadHandler{storage: storage, refs: refs}
}

func (h *DeleteUploadHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.DeleteObjectPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal DeleteObject payload")
		return fmt.Errorf("unmarshal payload: %w: %v", asynq.SkipRetry, err)
	}
	if payload.Key == "" || payload.URL == "" {
		return fmt.Errorf("empty key or url: %w", asynq.SkipRetry)
	}

	// Task chạy trễ 10 phút; URL có thể đã được gắn lại vào một character
	referenced, err := h.refs.ImageURLReferenced(ctx, payload.URL)
	if err != nil {
		return fmt.Errorf("check references: %w", err)
	}
	if referenced {
		log.Info().
			Str("key", payload.Key).
			Str("project_id", payload.ProjectID).
			Msg("Uploaded object still referenced, skip delete")
		return nil
	}

	if err := h.storage.Delete(ctx, payload.Key); err != nil {
		log.Error().
			Err(err).
			Str("key", payload.Key).
			Str("project_id", payload.ProjectID).
			Msg("Failed to delete uploaded object")
		return fmt.Errorf("delete object: %w", err)
	}

	log.Info().
		Str("key", payload.Key).
		Str("project_id", payload.ProjectID).
		Msg("Uploaded object deleted")
	return nil
}
