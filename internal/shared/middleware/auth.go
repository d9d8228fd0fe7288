package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"kinex-backend/internal/shared/response"
	"kinex-backend/pkg/jwt"
)

const (
	ContextUserID    = "userID"
	ContextUserEmail = "userEmail"
)

// AuthMiddleware xác thực Bearer token và set userID (uuid.UUID) vào context.
// Mọi lỗi đều trả cùng một 401 không nói rõ lý do.
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract token từ "Bearer <token>"
		authHeader := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Unauthorized(c, "Unauthorized")
			return
		}

		// 2. Verify và parse JWT
		claims, err := jwtManager.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString("request_id")).Msg("token rejected")
			response.Unauthorized(c, "Unauthorized")
			return
		}

		// 3. sub phải là UUID
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			response.Unauthorized(c, "Unauthorized")
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextUserEmail, claims.Email)
		c.Next()
	}
}

// GetUserID đọc userID do AuthMiddleware set
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
