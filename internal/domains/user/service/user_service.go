package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kinex-backend/internal/domains/user"
	"kinex-backend/pkg/jwt"
)

// bcrypt cost = 12: balance giữa security và performance
const DefaultBcryptCost = 12

// bcryptMaxBytes: bcrypt chỉ dùng 72 byte đầu của input
const bcryptMaxBytes = 72

// bcryptInput: password dài hơn 72 byte được SHA-256 (hex) trước khi đưa vào bcrypt
func bcryptInput(password string) []byte {
	if len(password) <= bcryptMaxBytes {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(hex.EncodeToString(sum[:]))
}

// userService implement user.Service interface
type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
	cost       int

	// dummyHash dùng khi email không tồn tại để login tốn cùng thời gian
	dummyHash []byte
}

// NewUserService tạo service instance; cost <= 0 dùng DefaultBcryptCost
func NewUserService(repo user.Repository, jwtManager *jwt.Manager, cost int) (user.Service, error) {
	if cost <= 0 {
		cost = DefaultBcryptCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("kinex-timing-equalizer"), cost)
	if err != nil {
		return nil, fmt.Errorf("init dummy hash: %w", err)
	}

	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		cost:       cost,
		dummyHash:  dummy,
	}, nil
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.AuthResponse, error) {
	// 1. NORMALIZE + VALIDATE
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. BUSINESS RULE: email chưa được dùng
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, user.ErrEmailAlreadyExists
	}

	// 3. HASH PASSWORD
	passwordHash, err := bcrypt.GenerateFromPassword(bcryptInput(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. PERSIST (unique index vẫn có thể trả ErrEmailAlreadyExists khi race)
	now := time.Now().UTC()
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Name:         req.Name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			return nil, user.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// 5. ISSUE TOKEN
	return s.issue(newUser)
}

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.AuthResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			// Vẫn chạy bcrypt để không lộ email có tồn tại qua thời gian phản hồi
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, bcryptInput(req.Password))
			return nil, user.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), bcryptInput(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	return s.issue(u)
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) issue(u *user.User) (*user.AuthResponse, error) {
	token, err := s.jwtManager.GenerateToken(u.ID.String(), u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &user.AuthResponse{
		Token: token,
		User:  u.ToDTO(),
	}, nil
}
