package handler

import (
	"errors"
	"net/http"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/dafibh/huddle/huddle-backend/internal/middleware"
	"github.com/dafibh/huddle/huddle-backend/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// ProblemDetails represents an RFC 7807 Problem Details response
type ProblemDetails struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   []ValidationError `json:"errors,omitempty"`
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// IDResponse is returned by every mutation
type IDResponse struct {
	ID uuid.UUID `json:"id"`
}

// Error types
const (
	ErrorTypeValidation   = "https://huddle.app/errors/validation"
	ErrorTypeNotFound     = "https://huddle.app/errors/not-found"
	ErrorTypeUnauthorized = "https://huddle.app/errors/unauthorized"
	ErrorTypeForbidden    = "https://huddle.app/errors/forbidden"
	ErrorTypeConflict     = "https://huddle.app/errors/conflict"
	ErrorTypeUnavailable  = "https://huddle.app/errors/unavailable"
	ErrorTypeInternal     = "https://huddle.app/errors/internal"
)

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, detail string, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ProblemDetails{
		Type:     ErrorTypeValidation,
		Title:    "Validation Error",
		Status:   http.StatusBadRequest,
		Detail:   detail,
		Instance: c.Request().URL.Path,
		Errors:   errors,
	})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ProblemDetails{
		Type:     ErrorTypeNotFound,
		Title:    "Not Found",
		Status:   http.StatusNotFound,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnauthorizedError creates an unauthorized error response
func NewUnauthorizedError(c echo.Context, detail string) error {
	return c.JSON(http.StatusUnauthorized, ProblemDetails{
		Type:     ErrorTypeUnauthorized,
		Title:    "Unauthorized",
		Status:   http.StatusUnauthorized,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewForbiddenError creates a forbidden error response
func NewForbiddenError(c echo.Context, detail string) error {
	return c.JSON(http.StatusForbidden, ProblemDetails{
		Type:     ErrorTypeForbidden,
		Title:    "Forbidden",
		Status:   http.StatusForbidden,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewConflictError creates a conflict error response
func NewConflictError(c echo.Context, detail string) error {
	return c.JSON(http.StatusConflict, ProblemDetails{
		Type:     ErrorTypeConflict,
		Title:    "Conflict",
		Status:   http.StatusConflict,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewUnavailableError creates a service unavailable error response
func NewUnavailableError(c echo.Context, detail string) error {
	return c.JSON(http.StatusServiceUnavailable, ProblemDetails{
		Type:     ErrorTypeUnavailable,
		Title:    "Service Unavailable",
		Status:   http.StatusServiceUnavailable,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, ProblemDetails{
		Type:     ErrorTypeInternal,
		Title:    "Internal Server Error",
		Status:   http.StatusInternalServerError,
		Detail:   detail,
		Instance: c.Request().URL.Path,
	})
}

var notFoundErrors = []error{
	domain.ErrUserNotFound,
	domain.ErrWorkspaceNotFound,
	domain.ErrMemberNotFound,
	domain.ErrChannelNotFound,
	domain.ErrConversationNotFound,
	domain.ErrMessageNotFound,
	domain.ErrParentNotFound,
	domain.ErrReactionNotFound,
}

var conflictErrors = []error{
	domain.ErrInvalidJoinCode,
	domain.ErrAlreadyMember,
	domain.ErrAdminCannotBeRemoved,
	domain.ErrCannotRemoveSelf,
	domain.ErrAlreadyExists,
}

// validationFields maps validation errors to the request field they concern
var validationFields = []struct {
	err   error
	field string
}{
	{domain.ErrNameRequired, "name"},
	{domain.ErrNameTooLong, "name"},
	{domain.ErrInvalidChannelName, "name"},
	{domain.ErrBodyRequired, "body"},
	{domain.ErrReactionRequired, "value"},
	{domain.ErrInvalidRole, "role"},
	{domain.ErrInvalidCursor, "cursor"},
	{service.ErrInvalidFormat, "contentType"},
	{service.ErrInvalidStorageID, "image"},
	{domain.ErrInvalidInput, ""},
}

// respondError maps a service error to a problem response. Unauthorized
// becomes 401 for anonymous callers and 403 for identified ones.
func respondError(c echo.Context, err error, action string) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		if middleware.GetCallerID(c) == uuid.Nil {
			return NewUnauthorizedError(c, err.Error())
		}
		return NewForbiddenError(c, err.Error())
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			return NewNotFoundError(c, target.Error())
		}
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return NewConflictError(c, target.Error())
		}
	}
	for _, v := range validationFields {
		if errors.Is(err, v.err) {
			var fields []ValidationError
			if v.field != "" {
				fields = []ValidationError{{Field: v.field, Message: v.err.Error()}}
			}
			return NewValidationError(c, "Validation failed", fields)
		}
	}
	if errors.Is(err, service.ErrStorageNotConfigured) {
		return NewUnavailableError(c, err.Error())
	}

	log.Error().Err(err).
		Str("caller_id", middleware.GetCallerID(c).String()).
		Str("subject", middleware.GetSubject(c)).
		Str("path", c.Request().URL.Path).
		Msg("Failed to " + action)
	return NewInternalError(c, "Failed to "+action)
}

// invalidIDError reports a malformed UUID parameter
func invalidIDError(c echo.Context, name string) error {
	return NewValidationError(c, "Invalid ID", []ValidationError{
		{Field: name, Message: "Must be a valid UUID"},
	})
}

// parseOptionalID reads an optional UUID query parameter
func parseOptionalID(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func respondCreated(c echo.Context, id uuid.UUID) error {
	return c.JSON(http.StatusCreated, IDResponse{ID: id})
}

func respondID(c echo.Context, id uuid.UUID) error {
	return c.JSON(http.StatusOK, IDResponse{ID: id})
}
