package handler

import (
	"net/http"

	"github.com/dafibh/huddle/huddle-backend/internal/middleware"
	"github.com/dafibh/huddle/huddle-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ConversationHandler handles direct-conversation HTTP requests
type ConversationHandler struct {
	conversationService *service.ConversationService
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(conversationService *service.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

// CreateConversationRequest names the other participant
type CreateConversationRequest struct {
	MemberID string `json:"memberId"`
}

// CreateOrGetConversation handles POST /api/v1/workspaces/:id/conversations.
// Asking twice for the same pair, in either order, returns the same id.
func (h *ConversationHandler) CreateOrGetConversation(c echo.Context) error {
	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	var req CreateConversationRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	memberID, err := uuid.Parse(req.MemberID)
	if err != nil {
		return invalidIDError(c, "memberId")
	}

	id, err := h.conversationService.CreateOrGet(c.Request().Context(), middleware.GetCallerID(c), workspaceID, memberID)
	if err != nil {
		return respondError(c, err, "create conversation")
	}
	return respondID(c, id)
}

// GetConversation handles GET /api/v1/conversations/:id
func (h *ConversationHandler) GetConversation(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	conversation, err := h.conversationService.GetByID(c.Request().Context(), middleware.GetCallerID(c), id)
	if err != nil {
		return respondError(c, err, "get conversation")
	}
	return c.JSON(http.StatusOK, conversation)
}
