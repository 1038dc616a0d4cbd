package handler

import (
	"net/http"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/dafibh/huddle/huddle-backend/internal/middleware"
	"github.com/dafibh/huddle/huddle-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// MemberHandler handles member-related HTTP requests
type MemberHandler struct {
	memberService *service.MemberService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(memberService *service.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// UpdateRoleRequest represents the update role request body
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// GetMembers handles GET /api/v1/workspaces/:id/members
func (h *MemberHandler) GetMembers(c echo.Context) error {
	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	members, err := h.memberService.List(c.Request().Context(), middleware.GetCallerID(c), workspaceID)
	if err != nil {
		return respondError(c, err, "list members")
	}
	if members == nil {
		members = []*domain.MemberWithUser{}
	}
	return c.JSON(http.StatusOK, members)
}

// GetCurrentMember handles GET /api/v1/workspaces/:id/members/current
func (h *MemberHandler) GetCurrentMember(c echo.Context) error {
	workspaceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	member, err := h.memberService.Current(c.Request().Context(), middleware.GetCallerID(c), workspaceID)
	if err != nil {
		return respondError(c, err, "get current member")
	}
	return c.JSON(http.StatusOK, member)
}

// GetMember handles GET /api/v1/members/:id
func (h *MemberHandler) GetMember(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	member, err := h.memberService.GetByID(c.Request().Context(), middleware.GetCallerID(c), id)
	if err != nil {
		return respondError(c, err, "get member")
	}
	return c.JSON(http.StatusOK, member)
}

// UpdateMemberRole handles PATCH /api/v1/members/:id
func (h *MemberHandler) UpdateMemberRole(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	updated, err := h.memberService.UpdateRole(c.Request().Context(), middleware.GetCallerID(c), id, domain.Role(req.Role))
	if err != nil {
		return respondError(c, err, "update member role")
	}
	return respondID(c, updated)
}

// DeleteMember handles DELETE /api/v1/members/:id
func (h *MemberHandler) DeleteMember(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	removed, err := h.memberService.Remove(c.Request().Context(), middleware.GetCallerID(c), id)
	if err != nil {
		return respondError(c, err, "remove member")
	}
	return respondID(c, removed)
}
