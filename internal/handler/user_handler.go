package handler

import (
	"net/http"

	"github.com/dafibh/huddle/huddle-backend/internal/middleware"
	"github.com/dafibh/huddle/huddle-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	identityService *service.IdentityService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(identityService *service.IdentityService) *UserHandler {
	return &UserHandler{identityService: identityService}
}

// GetCurrentUser godoc
// @Summary Get the signed-in user
// @Description Returns null for anonymous requests
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User
// @Router /users/me [get]
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	user, err := h.identityService.Current(c.Request().Context(), middleware.GetCallerID(c))
	if err != nil {
		return respondError(c, err, "get current user")
	}
	return c.JSON(http.StatusOK, user)
}
