package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Conversation is a direct-message stream between two members
type Conversation struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	MemberOneID uuid.UUID `json:"memberOneId"`
	MemberTwoID uuid.UUID `json:"memberTwoId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Involves reports whether the member is one side of the conversation
func (c *Conversation) Involves(memberID uuid.UUID) bool {
	return c.MemberOneID == memberID || c.MemberTwoID == memberID
}

// ConversationRepository defines the interface for conversation persistence operations
type ConversationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	// FindByMembers matches the pair in either order.
	FindByMembers(ctx context.Context, workspaceID, memberA, memberB uuid.UUID) (*Conversation, error)
	Create(ctx context.Context, conversation *Conversation) (*Conversation, error)
	DeleteByMember(ctx context.Context, memberID uuid.UUID) (int64, error)
	DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error)
}
