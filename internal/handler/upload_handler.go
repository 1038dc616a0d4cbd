package handler

import (
	"net/http"

	"github.com/dafibh/huddle/huddle-backend/internal/middleware"
	"github.com/dafibh/huddle/huddle-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// UploadHandler hands out presigned upload URLs for message attachments
type UploadHandler struct {
	uploadService *service.UploadService
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// CreateUploadRequest represents the upload request body
type CreateUploadRequest struct {
	ContentType string `json:"contentType"`
}

// CreateUpload godoc
// @Summary Get a presigned upload URL
// @Description The client PUTs the image to uploadUrl, then posts a message with image set to storageId
// @Tags uploads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUploadRequest true "Image content type"
// @Success 201 {object} storage.UploadTarget
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 503 {object} ProblemDetails
// @Router /uploads [post]
func (h *UploadHandler) CreateUpload(c echo.Context) error {
	if h.uploadService == nil || !h.uploadService.IsEnabled() {
		return NewUnavailableError(c, "Uploads are disabled (storage not configured)")
	}

	var req CreateUploadRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	caller := middleware.GetCallerID(c)
	target, err := h.uploadService.GenerateUploadURL(c.Request().Context(), caller, req.ContentType)
	if err != nil {
		return respondError(c, err, "create upload URL")
	}

	log.Info().
		Str("caller_id", caller.String()).
		Str("storage_id", target.StorageID).
		Msg("Upload URL issued")

	return c.JSON(http.StatusCreated, target)
}
