package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository định nghĩa contract cho data access layer.
// Implementations: Postgres (pgx), SQLite, và cache-aside decorator (Redis).
type Repository interface {
	// Create tạo user mới
	// Returns: ErrEmailAlreadyExists nếu email đã tồn tại (unique index)
	Create(ctx context.Context, user *User) error

	// FindByID - Returns: ErrUserNotFound
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail tìm theo email đã normalize - Returns: ErrUserNotFound
	FindByEmail(ctx context.Context, email string) (*User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
