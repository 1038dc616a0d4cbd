package handler

import (
	"net/http"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/dafibh/huddle/huddle-backend/internal/middleware"
	"github.com/dafibh/huddle/huddle-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ChannelHandler handles channel-related HTTP requests
type ChannelHandler struct {
	channelService *service.ChannelService
}

// NewChannelHandler creates a new ChannelHandler
func NewChannelHandler(channelService *service.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// ChannelRequest represents the create and update channel request body
type ChannelRequest struct {
	Name string `json:"name"`
}

// CreateChannel handles POST /api/v1/workspaces/:id/channels
func (h *ChannelHandler) CreateChannel(c echo.Context) error {
	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	var req ChannelRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	id, err := h.channelService.Create(c.Request().Context(), middleware.GetCallerID(c), workspaceID, req.Name)
	if err != nil {
		return respondError(c, err, "create channel")
	}
	return respondCreated(c, id)
}

// GetChannels handles GET /api/v1/workspaces/:id/channels
func (h *ChannelHandler) GetChannels(c echo.Context) error {
	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	channels, err := h.channelService.List(c.Request().Context(), middleware.GetCallerID(c), workspaceID)
	if err != nil {
		return respondError(c, err, "list channels")
	}
	if channels == nil {
		channels = []*domain.Channel{}
	}
	return c.JSON(http.StatusOK, channels)
}

// GetChannel handles GET /api/v1/channels/:id
func (h *ChannelHandler) GetChannel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	channel, err := h.channelService.GetByID(c.Request().Context(), middleware.GetCallerID(c), id)
	if err != nil {
		return respondError(c, err, "get channel")
	}
	return c.JSON(http.StatusOK, channel)
}

// UpdateChannel handles PATCH /api/v1/channels/:id
func (h *ChannelHandler) UpdateChannel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	var req ChannelRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	updated, err := h.channelService.Update(c.Request().Context(), middleware.GetCallerID(c), id, req.Name)
	if err != nil {
		return respondError(c, err, "update channel")
	}
	return respondID(c, updated)
}

// DeleteChannel handles DELETE /api/v1/channels/:id
func (h *ChannelHandler) DeleteChannel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	removed, err := h.channelService.Remove(c.Request().Context(), middleware.GetCallerID(c), id)
	if err != nil {
		return respondError(c, err, "delete channel")
	}
	return respondID(c, removed)
}
