package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/dafibh/huddle/huddle-backend/internal/auth"
	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// CustomClaims contains the custom claims from Auth0 JWT
type CustomClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Validate implements validator.CustomClaims
func (c CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const (
	// CallerIDKey is the context key for the resolved user ID
	CallerIDKey contextKey = "caller_id"
	// SubjectKey is the context key for the token subject
	SubjectKey contextKey = "subject"
)

// TokenIdentity is what a verified token says about its bearer
type TokenIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// TokenValidator verifies a bearer token
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*TokenIdentity, error)
}

// IdentityResolver maps a verified token to a user
type IdentityResolver interface {
	Resolve(ctx context.Context, subject, email string, name, image *string) (*domain.User, error)
}

// Auth0Validator verifies RS256 tokens against the tenant's JWKS
type Auth0Validator struct {
	validator *validator.Validator
}

// NewAuth0Validator creates a validator for the given Auth0 tenant
func NewAuth0Validator(domain, audience string) (*Auth0Validator, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, err
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &CustomClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, err
	}

	return &Auth0Validator{validator: jwtValidator}, nil
}

// Validate implements TokenValidator
func (v *Auth0Validator) Validate(ctx context.Context, token string) (*TokenIdentity, error) {
	claims, err := v.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	validated, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", claims)
	}

	identity := &TokenIdentity{Subject: validated.RegisteredClaims.Subject}
	if custom, ok := validated.CustomClaims.(*CustomClaims); ok {
		identity.Email = custom.Email
		identity.Name = custom.Name
		identity.Picture = custom.Picture
	}
	return identity, nil
}

// LocalValidator verifies HS256 tokens issued by the token command
type LocalValidator struct {
	issuer string
	secret string
}

// NewLocalValidator creates a validator for locally signed tokens
func NewLocalValidator(issuer, secret string) *LocalValidator {
	return &LocalValidator{issuer: issuer, secret: secret}
}

// Validate implements TokenValidator
func (v *LocalValidator) Validate(_ context.Context, token string) (*TokenIdentity, error) {
	claims, err := auth.ParseToken(token, v.issuer, v.secret)
	if err != nil {
		return nil, err
	}
	return &TokenIdentity{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}

// AuthMiddleware attaches the caller's identity to each request
type AuthMiddleware struct {
	validator  TokenValidator
	identities IdentityResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(tokenValidator TokenValidator, identities IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{
		validator:  tokenValidator,
		identities: identities,
	}
}

// Identify returns an Echo middleware that resolves the bearer token to a
// caller. Requests without an Authorization header proceed anonymously;
// handlers decide what an anonymous caller may see.
func (m *AuthMiddleware) Identify() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			// Check Bearer prefix
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
				return unauthorizedError(c, "Invalid authorization header format")
			}

			ctx := c.Request().Context()
			identity, err := m.validator.Validate(ctx, strings.TrimSpace(parts[1]))
			if err != nil {
				log.Debug().Err(err).Msg("Token validation failed")
				return unauthorizedError(c, "Invalid token")
			}

			user, err := m.identities.Resolve(ctx, identity.Subject, identity.Email,
				optional(identity.Name), optional(identity.Picture))
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					return unauthorizedError(c, "Token has no subject")
				}
				log.Error().Err(err).Str("subject", identity.Subject).Msg("Failed to resolve caller")
				return internalError(c)
			}

			ctx = context.WithValue(ctx, SubjectKey, identity.Subject)
			ctx = context.WithValue(ctx, CallerIDKey, user.ID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}

// RequireCaller rejects anonymous requests with 401
func RequireCaller() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if GetCallerID(c) == uuid.Nil {
				return unauthorizedError(c, "Authentication required")
			}
			return next(c)
		}
	}
}

// GetCallerID extracts the caller's user ID from the context, or uuid.Nil
func GetCallerID(c echo.Context) uuid.UUID {
	if id, ok := c.Request().Context().Value(CallerIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetSubject extracts the token subject from the context
func GetSubject(c echo.Context) string {
	if subject, ok := c.Request().Context().Value(SubjectKey).(string); ok {
		return subject
	}
	return ""
}

// WithCaller returns ctx carrying the given caller, for tests and internal calls
func WithCaller(ctx context.Context, caller uuid.UUID) context.Context {
	return context.WithValue(ctx, CallerIDKey, caller)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
