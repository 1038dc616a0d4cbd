package handler

import (
	"net/http"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/dafibh/huddle/huddle-backend/internal/middleware"
	"github.com/dafibh/huddle/huddle-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// WorkspaceHandler handles workspace-related HTTP requests
type WorkspaceHandler struct {
	workspaceService *service.WorkspaceService
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceService *service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// WorkspaceNameRequest is the body of create and rename
type WorkspaceNameRequest struct {
	Name string `json:"name"`
}

// JoinWorkspaceRequest is the body of join
type JoinWorkspaceRequest struct {
	JoinCode string `json:"joinCode"`
}

// CreateWorkspace godoc
// @Summary Create a workspace
// @Description Creates a workspace with the caller as admin and a "general" channel
// @Tags workspaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body WorkspaceNameRequest true "Workspace name"
// @Success 201 {object} IDResponse
// @Failure 400 {object} ProblemDetails
// @Failure 401 {object} ProblemDetails
// @Router /workspaces [post]
func (h *WorkspaceHandler) CreateWorkspace(c echo.Context) error {
	var req WorkspaceNameRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	id, err := h.workspaceService.Create(c.Request().Context(), middleware.GetCallerID(c), req.Name)
	if err != nil {
		return respondError(c, err, "create workspace")
	}
	return respondCreated(c, id)
}

// GetWorkspaces godoc
// @Summary List the caller's workspaces
// @Tags workspaces
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Workspace
// @Router /workspaces [get]
func (h *WorkspaceHandler) GetWorkspaces(c echo.Context) error {
	workspaces, err := h.workspaceService.List(c.Request().Context(), middleware.GetCallerID(c))
	if err != nil {
		return respondError(c, err, "list workspaces")
	}
	if workspaces == nil {
		workspaces = []*domain.Workspace{}
	}
	return c.JSON(http.StatusOK, workspaces)
}

// GetWorkspace godoc
// @Summary Get a workspace
// @Description Returns null unless the caller is a member
// @Tags workspaces
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Success 200 {object} domain.Workspace
// @Failure 400 {object} ProblemDetails
// @Router /workspaces/{id} [get]
func (h *WorkspaceHandler) GetWorkspace(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	workspace, err := h.workspaceService.GetByID(c.Request().Context(), middleware.GetCallerID(c), id)
	if err != nil {
		return respondError(c, err, "get workspace")
	}
	return c.JSON(http.StatusOK, workspace)
}

// GetWorkspaceInfo godoc
// @Summary Get a workspace's public info
// @Description Name and membership flag, shown on the join screen
// @Tags workspaces
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Success 200 {object} domain.WorkspaceInfo
// @Failure 401 {object} ProblemDetails
// @Router /workspaces/{id}/info [get]
func (h *WorkspaceHandler) GetWorkspaceInfo(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	info, err := h.workspaceService.GetInfoByID(c.Request().Context(), middleware.GetCallerID(c), id)
	if err != nil {
		return respondError(c, err, "get workspace info")
	}
	return c.JSON(http.StatusOK, info)
}

// RenameWorkspace godoc
// @Summary Rename a workspace
// @Tags workspaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Param request body WorkspaceNameRequest true "New name"
// @Success 200 {object} IDResponse
// @Failure 400 {object} ProblemDetails
// @Failure 403 {object} ProblemDetails
// @Router /workspaces/{id} [patch]
func (h *WorkspaceHandler) RenameWorkspace(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	var req WorkspaceNameRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	renamed, err := h.workspaceService.Rename(c.Request().Context(), middleware.GetCallerID(c), id, req.Name)
	if err != nil {
		return respondError(c, err, "rename workspace")
	}
	return respondID(c, renamed)
}

// DeleteWorkspace godoc
// @Summary Delete a workspace
// @Description Removes the workspace and everything in it
// @Tags workspaces
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Success 200 {object} IDResponse
// @Failure 403 {object} ProblemDetails
// @Router /workspaces/{id} [delete]
func (h *WorkspaceHandler) DeleteWorkspace(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	removed, err := h.workspaceService.Remove(c.Request().Context(), middleware.GetCallerID(c), id)
	if err != nil {
		return respondError(c, err, "delete workspace")
	}
	return respondID(c, removed)
}

// JoinWorkspace godoc
// @Summary Join a workspace with its join code
// @Tags workspaces
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Param request body JoinWorkspaceRequest true "Join code"
// @Success 200 {object} IDResponse
// @Failure 404 {object} ProblemDetails
// @Failure 409 {object} ProblemDetails
// @Router /workspaces/{id}/join [post]
func (h *WorkspaceHandler) JoinWorkspace(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	var req JoinWorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	joined, err := h.workspaceService.Join(c.Request().Context(), middleware.GetCallerID(c), id, req.JoinCode)
	if err != nil {
		return respondError(c, err, "join workspace")
	}
	return respondID(c, joined)
}

// RegenerateJoinCode godoc
// @Summary Replace a workspace's join code
// @Tags workspaces
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workspace ID"
// @Success 200 {object} IDResponse
// @Failure 403 {object} ProblemDetails
// @Router /workspaces/{id}/join-code [post]
func (h *WorkspaceHandler) RegenerateJoinCode(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return invalidIDError(c, "id")
	}

	updated, err := h.workspaceService.NewJoinCode(c.Request().Context(), middleware.GetCallerID(c), id)
	if err != nil {
		return respondError(c, err, "regenerate join code")
	}
	return respondID(c, updated)
}
