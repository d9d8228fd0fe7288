package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"kinex-backend/internal/domains/user"
	"kinex-backend/internal/shared/middleware"
	"kinex-backend/internal/shared/response"
)

// UserHandler xử lý HTTP requests cho auth
type UserHandler struct {
	service user.Service
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register xử lý POST /api/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	// STEP 1: PARSE REQUEST BODY
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// STEP 2: CALL SERVICE LAYER (normalize + validate + hash + persist)
	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	// STEP 3: 201 Created
	response.JSON(c, http.StatusCreated, resp)
}

// Login xử lý POST /api/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, resp)
}

// Me xử lý GET /api/auth/me (cần AuthMiddleware)
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	dto, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		// Token hợp lệ nhưng user không còn: coi như chưa xác thực
		if errors.Is(err, user.ErrUserNotFound) {
			response.Unauthorized(c, "Unauthorized")
			return
		}
		h.handleError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, user.MeResponse{User: *dto})
}

// handleError map domain errors thành HTTP status codes
func (h *UserHandler) handleError(c *gin.Context, err error) {
	switch {
	// 400 Bad Request
	case response.IsValidationError(err):
		response.ValidationFailed(c, err)

	// 401 Unauthorized - cùng message cho mọi lỗi đăng nhập
	case errors.Is(err, user.ErrInvalidCredentials):
		response.Unauthorized(c, "Invalid credentials")

	// 409 Conflict
	case errors.Is(err, user.ErrEmailAlreadyExists):
		response.Conflict(c, "Email already in use")

	// 500 Internal Server Error
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("auth request failed")
		response.InternalServerError(c, "Internal server error")
	}
}
