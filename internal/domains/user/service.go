package user

import (
	"context"

	"github.com/google/uuid"
)

// Service định nghĩa business logic cho authentication
type Service interface {
	// Register tạo user, trả token 7 ngày
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)

	// Login - ErrInvalidCredentials cho cả unknown email và sai password
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)

	// GetProfile - ErrUserNotFound nếu token hợp lệ nhưng user không còn
	GetProfile(ctx context.Context, userID uuid.UUID) (*UserDTO, error)
}
