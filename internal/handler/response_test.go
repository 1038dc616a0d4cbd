package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/dafibh/huddle/huddle-backend/internal/middleware"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func newErrorContext(caller uuid.UUID, subject string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/things", nil)
	ctx := req.Context()
	if caller != uuid.Nil {
		ctx = middleware.WithCaller(ctx, caller)
	}
	if subject != "" {
		ctx = context.WithValue(ctx, middleware.SubjectKey, subject)
	}
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req.WithContext(ctx), rec), rec
}

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		caller   uuid.UUID
		err      error
		expected int
	}{
		{"anonymous unauthorized", uuid.Nil, domain.ErrUnauthorized, http.StatusUnauthorized},
		{"caller unauthorized", uuid.New(), domain.ErrUnauthorized, http.StatusForbidden},
		{"not found", uuid.New(), domain.ErrChannelNotFound, http.StatusNotFound},
		{"conflict", uuid.New(), domain.ErrAdminCannotBeRemoved, http.StatusConflict},
		{"validation", uuid.New(), domain.ErrNameRequired, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newErrorContext(tt.caller, "")
			_ = respondError(c, tt.err, "load thing")
			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestRespondError_InternalLogsSubject(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })

	c, rec := newErrorContext(uuid.New(), "auth0|alice")
	_ = respondError(c, errors.New("connection reset"), "load thing")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to load thing", decodeProblem(t, rec).Detail)
	assert.Contains(t, buf.String(), `"subject":"auth0|alice"`)
	assert.Contains(t, buf.String(), `"path":"/api/v1/things"`)
}
