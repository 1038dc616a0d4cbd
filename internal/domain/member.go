package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role is a member's permission level inside a workspace
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Member is a user's presence in one workspace
type Member struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

// IsAdmin reports whether the member holds the admin role
func (m *Member) IsAdmin() bool {
	return m != nil && m.Role == RoleAdmin
}

// MemberWithUser pairs a member with its user profile
type MemberWithUser struct {
	Member
	User *User `json:"user"`
}

// MemberRepository defines the interface for member persistence operations
type MemberRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Member, error)
	GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*Member, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*Member, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Member, error)
	// Create returns ErrAlreadyExists when the user already has a member
	// row in the workspace.
	Create(ctx context.Context, member *Member) (*Member, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error)
}
