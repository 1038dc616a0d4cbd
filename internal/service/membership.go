package service

import (
	"context"
	"errors"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
)

// MembershipAuthority decides whether a user may act inside a workspace.
// Every write checks it after resolving the caller and before touching the
// target entity.
type MembershipAuthority struct {
	memberRepo domain.MemberRepository
}

// NewMembershipAuthority creates a new MembershipAuthority
func NewMembershipAuthority(memberRepo domain.MemberRepository) *MembershipAuthority {
	return &MembershipAuthority{memberRepo: memberRepo}
}

// Find returns the user's member record in the workspace, or nil
func (a *MembershipAuthority) Find(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	member, err := a.memberRepo.GetByWorkspaceAndUser(ctx, workspaceID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return member, nil
}

// RequireMember fails with ErrUnauthorized unless the user is a member
func (a *MembershipAuthority) RequireMember(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error) {
	member, err := a.Find(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, domain.ErrUnauthorized
	}
	return member, nil
}

// RequireAdmin fails with ErrUnauthorized unless the user is an admin member
func (a *MembershipAuthority) RequireAdmin(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error) {
	member, err := a.RequireMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !member.IsAdmin() {
		return nil, domain.ErrUnauthorized
	}
	return member, nil
}
