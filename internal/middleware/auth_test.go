package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dafibh/huddle/huddle-backend/internal/auth"
	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type stubValidator struct {
	identity *TokenIdentity
	err      error
	seen     string
}

func (v *stubValidator) Validate(_ context.Context, token string) (*TokenIdentity, error) {
	v.seen = token
	return v.identity, v.err
}

type stubResolver struct {
	user    *domain.User
	err     error
	subject string
	name    *string
	image   *string
}

func (r *stubResolver) Resolve(_ context.Context, subject, _ string, name, image *string) (*domain.User, error) {
	r.subject, r.name, r.image = subject, name, image
	return r.user, r.err
}

func serveIdentify(t *testing.T, m *AuthMiddleware, header string) (*httptest.ResponseRecorder, uuid.UUID, string, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var caller uuid.UUID
	var subject string
	called := false
	handler := m.Identify()(func(c echo.Context) error {
		called = true
		caller = GetCallerID(c)
		subject = GetSubject(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, caller, subject, called
}

func TestIdentify_NoHeaderIsAnonymous(t *testing.T) {
	v := &stubValidator{}
	m := NewAuthMiddleware(v, &stubResolver{})

	rec, caller, _, called := serveIdentify(t, m, "")
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uuid.Nil, caller)
	assert.Empty(t, v.seen)
}

func TestIdentify_ResolvesCaller(t *testing.T) {
	user := &domain.User{ID: uuid.New()}
	v := &stubValidator{identity: &TokenIdentity{Subject: "auth0|ada", Email: "ada@example.com", Name: "Ada"}}
	r := &stubResolver{user: user}
	m := NewAuthMiddleware(v, r)

	rec, caller, subject, called := serveIdentify(t, m, "Bearer abc.def.ghi")
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc.def.ghi", v.seen)
	assert.Equal(t, user.ID, caller)
	assert.Equal(t, "auth0|ada", subject)
	require.NotNil(t, r.name)
	assert.Equal(t, "Ada", *r.name)
	assert.Nil(t, r.image)
}

func TestIdentify_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		validator *stubValidator
		resolver  *stubResolver
		status    int
	}{
		{
			name:      "malformed header",
			header:    "Token abc",
			validator: &stubValidator{},
			resolver:  &stubResolver{},
			status:    http.StatusUnauthorized,
		},
		{
			name:      "empty bearer",
			header:    "Bearer   ",
			validator: &stubValidator{},
			resolver:  &stubResolver{},
			status:    http.StatusUnauthorized,
		},
		{
			name:      "invalid token",
			header:    "Bearer bad",
			validator: &stubValidator{err: errors.New("expired")},
			resolver:  &stubResolver{},
			status:    http.StatusUnauthorized,
		},
		{
			name:      "blank subject",
			header:    "Bearer ok",
			validator: &stubValidator{identity: &TokenIdentity{}},
			resolver:  &stubResolver{err: domain.ErrUnauthorized},
			status:    http.StatusUnauthorized,
		},
		{
			name:      "store failure",
			header:    "Bearer ok",
			validator: &stubValidator{identity: &TokenIdentity{Subject: "auth0|ada"}},
			resolver:  &stubResolver{err: errors.New("db down")},
			status:    http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(tt.validator, tt.resolver)
			rec, _, _, called := serveIdentify(t, m, tt.header)
			assert.False(t, called)
			assert.Equal(t, tt.status, rec.Code)

			var body problemDetails
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Equal(t, "/api/v1/users/me", body.Instance)
		})
	}
}

func TestLocalValidator(t *testing.T) {
	v := NewLocalValidator("huddle", testSecret)

	token, err := auth.GenerateToken("local|ada", "ada@example.com", "Ada", "huddle", testSecret, time.Hour)
	require.NoError(t, err)

	identity, err := v.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "local|ada", identity.Subject)
	assert.Equal(t, "ada@example.com", identity.Email)
	assert.Equal(t, "Ada", identity.Name)

	other, err := auth.GenerateToken("local|ada", "", "", "someone-else", testSecret, time.Hour)
	require.NoError(t, err)
	_, err = v.Validate(context.Background(), other)
	assert.Error(t, err)
}

func TestRequireCaller(t *testing.T) {
	e := echo.New()
	handler := RequireCaller()(func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/uploads", nil)
	req = req.WithContext(WithCaller(req.Context(), uuid.New()))
	rec = httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestGetCallerID_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, uuid.Nil, GetCallerID(c))
	assert.Empty(t, GetSubject(c))
}
