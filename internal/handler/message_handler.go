package handler

import (
	"net/http"
	"strconv"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/dafibh/huddle/huddle-backend/internal/middleware"
	"github.com/dafibh/huddle/huddle-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MessageHandler handles message and reaction HTTP requests
type MessageHandler struct {
	messageService  *service.MessageService
	reactionService *service.ReactionService
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messageService *service.MessageService, reactionService *service.ReactionService) *MessageHandler {
	return &MessageHandler{
		messageService:  messageService,
		reactionService: reactionService,
	}
}

// CreateMessageRequest represents the create message request body.
// Exactly one of channelId, conversationId or parentMessageId locates the
// message; a reply may also name its channel or conversation.
type CreateMessageRequest struct {
	WorkspaceID     uuid.UUID  `json:"workspaceId"`
	Body            string     `json:"body"`
	Image           *string    `json:"image,omitempty"`
	ChannelID       *uuid.UUID `json:"channelId,omitempty"`
	ConversationID  *uuid.UUID `json:"conversationId,omitempty"`
	ParentMessageID *uuid.UUID `json:"parentMessageId,omitempty"`
}

// UpdateMessageRequest represents the edit message request body
type UpdateMessageRequest struct {
	Body string `json:"body"`
}

// ToggleReactionRequest represents the toggle reaction request body
type ToggleReactionRequest struct {
	Value string `json:"value"`
}

// CreateMessage godoc
// @Summary Post a message
// @Description Posts to a channel, a conversation, or a thread as the caller's member
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateMessageRequest true "Message"
// @Success 201 {object} IDResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /messages [post]
func (h *MessageHandler) CreateMessage(c echo.Context) error {
	var req CreateMessageRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	id, err := h.messageService.Create(c.Request().Context(), middleware.GetCallerID(c), service.CreateMessageInput{
		WorkspaceID:     req.WorkspaceID,
		Body:            req.Body,
		Image:           req.Image,
		ChannelID:       req.ChannelID,
		ConversationID:  req.ConversationID,
		ParentMessageID: req.ParentMessageID,
	})
	if err != nil {
		return respondError(c, err, "create message")
	}
	return respondCreated(c, id)
}

// GetMessages godoc
// @Summary List messages
// @Description One page of a channel, conversation, or thread, newest first
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param channelId query string false "Channel ID"
// @Param conversationId query string false "Conversation ID"
// @Param parentMessageId query string false "Parent message ID"
// @Param numItems query int false "Page size (default 20, max 100)"
// @Param cursor query string false "Continue cursor from the previous page"
// @Success 200 {object} domain.MessagePage
// @Failure 400 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /messages [get]
func (h *MessageHandler) GetMessages(c echo.Context) error {
	var filter domain.MessageFilter
	var err error
	if filter.ChannelID, err = parseOptionalID(c, "channelId"); err != nil {
		return invalidIDError(c, "channelId")
	}
	if filter.ConversationID, err = parseOptionalID(c, "conversationId"); err != nil {
		return invalidIDError(c, "conversationId")
	}
	if filter.ParentMessageID, err = parseOptionalID(c, "parentMessageId"); err != nil {
		return invalidIDError(c, "parentMessageId")
	}

	opts := domain.PaginationOpts{Cursor: c.QueryParam("cursor")}
	if raw := c.QueryParam("numItems"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "numItems", Message: "Must be a positive integer"},
			})
		}
		opts.NumItems = n
	}

	page, err := h.messageService.List(c.Request().Context(), middleware.GetCallerID(c), filter, opts)
	if err != nil {
		return respondError(c, err, "list messages")
	}
	return c.JSON(http.StatusOK, page)
}

// GetMessage godoc
// @Summary Get a message
// @Description Returns null when the message is missing or not visible
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} domain.MessageView
// @Failure 400 {object} ProblemDetails
// @Router /messages/{id} [get]
func (h *MessageHandler) GetMessage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	view, err := h.messageService.GetByID(c.Request().Context(), middleware.GetCallerID(c), id)
	if err != nil {
		return respondError(c, err, "get message")
	}
	return c.JSON(http.StatusOK, view)
}

// UpdateMessage godoc
// @Summary Edit a message
// @Description Only the author may edit
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Param request body UpdateMessageRequest true "New body"
// @Success 200 {object} IDResponse
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /messages/{id} [patch]
func (h *MessageHandler) UpdateMessage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	var req UpdateMessageRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	updated, err := h.messageService.Update(c.Request().Context(), middleware.GetCallerID(c), id, req.Body)
	if err != nil {
		return respondError(c, err, "update message")
	}
	return respondID(c, updated)
}

// DeleteMessage godoc
// @Summary Delete a message
// @Description Only the author may delete; reactions go with it, replies stay
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} IDResponse
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /messages/{id} [delete]
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	removed, err := h.messageService.Remove(c.Request().Context(), middleware.GetCallerID(c), id)
	if err != nil {
		return respondError(c, err, "delete message")
	}
	return respondID(c, removed)
}

// ToggleReaction godoc
// @Summary Toggle a reaction
// @Description Adds the caller's reaction, or removes it if already present
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Param request body ToggleReactionRequest true "Reaction value"
// @Success 200 {object} IDResponse
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Failure 404 {object} ProblemDetails
// @Router /messages/{id}/reactions [post]
func (h *MessageHandler) ToggleReaction(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	var req ToggleReactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	reactionID, err := h.reactionService.Toggle(c.Request().Context(), middleware.GetCallerID(c), id, req.Value)
	if err != nil {
		return respondError(c, err, "toggle reaction")
	}
	return respondID(c, reactionID)
}
