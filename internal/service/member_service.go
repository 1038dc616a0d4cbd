package service

import (
	"context"
	"errors"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MemberService handles membership reads, role changes, and removal
type MemberService struct {
	memberRepo domain.MemberRepository
	userRepo   domain.UserRepository
	authority  *MembershipAuthority
	cascade    *Cascade
}

// NewMemberService creates a new MemberService
func NewMemberService(memberRepo domain.MemberRepository, userRepo domain.UserRepository, authority *MembershipAuthority, cascade *Cascade) *MemberService {
	return &MemberService{
		memberRepo: memberRepo,
		userRepo:   userRepo,
		authority:  authority,
		cascade:    cascade,
	}
}

// Current returns the caller's own member record in the workspace, or nil
func (s *MemberService) Current(ctx context.Context, caller, workspaceID uuid.UUID) (*domain.Member, error) {
	return s.authority.Find(ctx, workspaceID, caller)
}

// List returns every member of the workspace with its user. Members whose
// user no longer exists are left out.
func (s *MemberService) List(ctx context.Context, caller, workspaceID uuid.UUID) ([]*domain.MemberWithUser, error) {
	current, err := s.authority.Find(ctx, workspaceID, caller)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return []*domain.MemberWithUser{}, nil
	}

	members, err := s.memberRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.MemberWithUser, 0, len(members))
	for _, m := range members {
		user, err := s.userRepo.GetByID(ctx, m.UserID)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, &domain.MemberWithUser{Member: *m, User: user})
	}
	return result, nil
}

// GetByID returns a member with its user when the caller shares its workspace
func (s *MemberService) GetByID(ctx context.Context, caller, memberID uuid.UUID) (*domain.MemberWithUser, error) {
	if caller == uuid.Nil {
		return nil, nil
	}
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, nil
		}
		return nil, err
	}
	current, err := s.authority.Find(ctx, member.WorkspaceID, caller)
	if err != nil || current == nil {
		return nil, err
	}
	user, err := s.userRepo.GetByID(ctx, member.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.MemberWithUser{Member: *member, User: user}, nil
}

// UpdateRole changes a member's role. Only admins of the member's workspace may do it.
func (s *MemberService) UpdateRole(ctx context.Context, caller, memberID uuid.UUID, role domain.Role) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	if !role.IsValid() {
		return uuid.Nil, domain.ErrInvalidRole
	}
	target, err := s.getTarget(ctx, memberID)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := s.authority.RequireAdmin(ctx, target.WorkspaceID, caller); err != nil {
		return uuid.Nil, err
	}
	if err := s.memberRepo.UpdateRole(ctx, memberID, role); err != nil {
		return uuid.Nil, err
	}

	log.Info().Str("member_id", memberID.String()).Str("role", string(role)).Msg("Member role updated")
	return memberID, nil
}

// Remove deletes a member with its messages, reactions, and conversations.
// Only admins of the member's workspace may remove, and admins can never be
// removed.
func (s *MemberService) Remove(ctx context.Context, caller, memberID uuid.UUID) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	target, err := s.getTarget(ctx, memberID)
	if err != nil {
		return uuid.Nil, err
	}
	current, err := s.authority.RequireAdmin(ctx, target.WorkspaceID, caller)
	if err != nil {
		return uuid.Nil, err
	}
	if target.IsAdmin() {
		return uuid.Nil, domain.ErrAdminCannotBeRemoved
	}
	if current.ID == target.ID {
		return uuid.Nil, domain.ErrCannotRemoveSelf
	}

	if err := s.cascade.Member(ctx, memberID); err != nil {
		return uuid.Nil, err
	}

	log.Info().Str("workspace_id", target.WorkspaceID.String()).Str("member_id", memberID.String()).Msg("Member removed")
	return memberID, nil
}

// getTarget loads the member being acted on. A missing target is reported
// as ErrUnauthorized so callers cannot discover member ids.
func (s *MemberService) getTarget(ctx context.Context, memberID uuid.UUID) (*domain.Member, error) {
	target, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return target, nil
}
