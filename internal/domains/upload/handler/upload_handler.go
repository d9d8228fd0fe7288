package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"kinex-backend/internal/domains/upload"
	"kinex-backend/internal/shared/middleware"
	"kinex-backend/internal/shared/response"
)

type UploadHandler struct {
	service upload.Service
}

func NewUploadHandler(service upload.Service) *UploadHandler {
	return &UploadHandler{service: service}
}

// GetSignedURL xử lý POST /api/upload/get-signed-url
func (h *UploadHandler) GetSignedURL(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req upload.SignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.service.GetSignedURL(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.JSON(c, http.StatusOK, resp)
}

func (h *UploadHandler) handleError(c *gin.Context, err error) {
	switch {
	case response.IsValidationError(err):
		response.ValidationFailed(c, err)

	case errors.Is(err, upload.ErrStorageNotConfigured):
		response.ErrorResponse(c, http.StatusInternalServerError, response.CodeNotConfigured, "Storage is not configured")

	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("signed url request failed")
		response.InternalServerError(c, "Failed to create upload URL")
	}
}
