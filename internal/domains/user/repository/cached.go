package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"kinex-backend/internal/domains/user"
	"kinex-backend/pkg/cache"
)

// cachedRepository: cache-aside cho FindByID (GET /auth/me chạy mỗi lần SPA load).
// User không bao giờ bị sửa nên không cần invalidate; TTL chỉ để giới hạn bộ nhớ.
// Password hash không được đưa vào cache: user trả về từ cache hit có PasswordHash rỗng,
// login luôn đi qua FindByEmail.
// Lỗi cache chỉ log, luôn fallback về DB.
type cachedRepository struct {
	next  user.Repository
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedRepository(next user.Repository, c cache.Cache, ttl time.Duration) user.Repository {
	if c == nil {
		return next
	}
	return &cachedRepository{next: next, cache: c, ttl: ttl}
}

func userKey(id uuid.UUID) string {
	return "user:" + id.String()
}

func (r *cachedRepository) Create(ctx context.Context, u *user.User) error {
	return r.next.Create(ctx, u)
}

func (r *cachedRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var hit user.User
	found, err := r.cache.Get(ctx, userKey(id), &hit)
	if err != nil {
		log.Warn().Err(err).Str("user_id", id.String()).Msg("[CACHE] get failed")
	}
	if found && hit.ID == id {
		return &hit, nil
	}

	u, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, userKey(id), u, r.ttl); err != nil {
		log.Warn().Err(err).Str("user_id", id.String()).Msg("[CACHE] set failed")
	}
	return u, nil
}

func (r *cachedRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.next.FindByEmail(ctx, email)
}

func (r *cachedRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.next.ExistsByEmail(ctx, email)
}
