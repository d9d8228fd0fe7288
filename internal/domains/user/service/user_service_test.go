package service

import (
	"context"
	"strings"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"kinex-backend/internal/domains/user"
	"kinex-backend/internal/domains/user/repository"
	"kinex-backend/internal/testutil"
	"kinex-backend/pkg/jwt"
)

func newTestService(t *testing.T) (user.Service, *jwt.Manager) {
	t.Helper()

	manager := jwt.NewManager("test-secret", 0)
	svc, err := NewUserService(repository.NewSQLiteRepository(testutil.NewSQLite(t)), manager, bcrypt.MinCost)
	require.NoError(t, err)
	return svc, manager
}

func strPtr(s string) *string { return &s }

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, manager := newTestService(t)

	resp, err := svc.Register(ctx, user.RegisterRequest{
		Email:    "  Jane@Example.COM ",
		Password: "correct-horse",
		Name:     strPtr(" Jane "),
	})
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", resp.User.Email)
	require.NotNil(t, resp.User.Name)
	assert.Equal(t, "Jane", *resp.User.Name)

	claims, err := manager.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID.String(), claims.Subject)
	assert.Equal(t, "jane@example.com", claims.Email)

	t.Run("duplicate email conflicts", func(t *testing.T) {
		_, err := svc.Register(ctx, user.RegisterRequest{Email: "JANE@example.com", Password: "another-pass"})
		assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
	})
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name  string
		req   user.RegisterRequest
		field string
	}{
		{"missing email", user.RegisterRequest{Password: "password1"}, "email"},
		{"malformed email", user.RegisterRequest{Email: "not-an-email", Password: "password1"}, "email"},
		{"short password", user.RegisterRequest{Email: "a@b.co", Password: "short"}, "password"},
		{"blank name", user.RegisterRequest{Email: "a@b.co", Password: "password1", Name: strPtr("   ")}, "name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.req)
			require.Error(t, err)

			var verrs validation.Errors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, tt.field)
		})
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, manager := newTestService(t)

	reg, err := svc.Register(ctx, user.RegisterRequest{Email: "john@example.com", Password: "password123"})
	require.NoError(t, err)

	t.Run("success with different email casing", func(t *testing.T) {
		resp, err := svc.Login(ctx, user.LoginRequest{Email: "John@Example.com", Password: "password123"})
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID, resp.User.ID)

		claims, err := manager.ValidateToken(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, reg.User.ID.String(), claims.Subject)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, wrongPass := svc.Login(ctx, user.LoginRequest{Email: "john@example.com", Password: "wrong-password"})
		_, unknown := svc.Login(ctx, user.LoginRequest{Email: "ghost@example.com", Password: "password123"})

		require.ErrorIs(t, wrongPass, user.ErrInvalidCredentials)
		require.ErrorIs(t, unknown, user.ErrInvalidCredentials)
		assert.Equal(t, wrongPass.Error(), unknown.Error())
	})
}

func TestLongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	long := strings.Repeat("p", 80)
	_, err := svc.Register(ctx, user.RegisterRequest{Email: "long@example.com", Password: long})
	require.NoError(t, err)

	_, err = svc.Login(ctx, user.LoginRequest{Email: "long@example.com", Password: long})
	require.NoError(t, err)

	// byte thứ 73 trở đi vẫn có ý nghĩa
	_, err = svc.Login(ctx, user.LoginRequest{Email: "long@example.com", Password: strings.Repeat("p", 79) + "q"})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)

	_, err = svc.Login(ctx, user.LoginRequest{Email: "long@example.com", Password: strings.Repeat("p", 72)})
	assert.ErrorIs(t, err, user.ErrInvalidCredentials)
}

func TestBcryptInput(t *testing.T) {
	assert.Equal(t, []byte("password123"), bcryptInput("password123"))
	assert.Equal(t, []byte(strings.Repeat("x", 72)), bcryptInput(strings.Repeat("x", 72)))
	assert.Len(t, bcryptInput(strings.Repeat("x", 73)), 64)
	assert.NotEqual(t, bcryptInput(strings.Repeat("x", 73)), bcryptInput(strings.Repeat("x", 74)))
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	reg, err := svc.Register(ctx, user.RegisterRequest{Email: "me@example.com", Password: "password123"})
	require.NoError(t, err)

	dto, err := svc.GetProfile(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", dto.Email)

	_, err = svc.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}
