package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"kinex-backend/internal/shared"
)

// KeyResolver maps a public object URL back to its storage key.
type KeyResolver interface {
	KeyFromURL(rawURL string) (string, bool)
}

// UploadCleaner enqueue task xóa các object đã bị thay thế trong project.
// URL không thuộc bucket của mình (vd: URL do provider trả về) bị bỏ qua.
type UploadCleaner struct {
	client   *asynq.Client
	resolver KeyResolver
}

func NewUploadCleaner(redisAddr, password string, db int, resolver KeyResolver) *UploadCleaner {
	return &UploadCleaner{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: password,
			DB:       db,
		}),
		resolver: resolver,
	}
}

// ScheduleDelete enqueue một task cho mỗi URL thuộc bucket
func (u *UploadCleaner) ScheduleDelete(ctx context.Context, projectID string, urls []string) error {
	for _, raw := range urls {
		key, ok := u.resolver.KeyFromURL(raw)
		if !ok {
			continue
		}

		payload, err := json.Marshal(shared.DeleteObjectPayload{Key: key, URL: raw, ProjectID: projectID})
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}

		task := asynq.NewTask(shared.TypeDeleteUploadedObject, payload)
		info, err := u.client.EnqueueContext(ctx, task,
			asynq.Queue(shared.QueueLow),
			asynq.MaxRetry(3),
			// Cho client cũ đang giữ URL thêm thời gian trước khi xóa
			asynq.ProcessIn(10*time.Minute),
			asynq.TaskID("delete:"+key),
		)
		if err != nil {
			if errors.Is(err, asynq.ErrTaskIDConflict) {
				continue
			}
			return fmt.Errorf("enqueue delete %s: %w", key, err)
		}

		log.Debug().Str("task_id", info.ID).Str("key", key).Msg("[Queue] Delete scheduled")
	}
	return nil
}

func (u *UploadCleaner) Close() error {
	return u.client.Close()
}
