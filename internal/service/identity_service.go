package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// IdentityService maps verified token subjects to users
type IdentityService struct {
	userRepo domain.UserRepository
}

// NewIdentityService creates a new IdentityService
func NewIdentityService(userRepo domain.UserRepository) *IdentityService {
	return &IdentityService{userRepo: userRepo}
}

// Resolve returns the user for a verified token subject, creating it on
// first sight and refreshing profile fields from the claims.
func (s *IdentityService) Resolve(ctx context.Context, subject, email string, name, image *string) (*domain.User, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, domain.ErrUnauthorized
	}

	user, err := s.userRepo.CreateOrGetBySubject(ctx, subject, email, nonEmpty(name), nonEmpty(image))
	if err != nil {
		log.Error().Err(err).Str("subject", subject).Msg("Failed to create or get user")
		return nil, err
	}
	return user, nil
}

// Current returns the caller's user, or nil when there is no caller
func (s *IdentityService) Current(ctx context.Context, caller uuid.UUID) (*domain.User, error) {
	if caller == uuid.Nil {
		return nil, nil
	}
	user, err := s.userRepo.GetByID(ctx, caller)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
