package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message is a stored chat message. Exactly one of ChannelID and
// ConversationID locates it, except for thread replies in a channel which
// carry ChannelID and ParentMessageID.
type Message struct {
	ID              uuid.UUID  `json:"id"`
	Body            string     `json:"body"`
	Image           *string    `json:"image,omitempty"`
	MemberID        uuid.UUID  `json:"memberId"`
	WorkspaceID     uuid.UUID  `json:"workspaceId"`
	ChannelID       *uuid.UUID `json:"channelId,omitempty"`
	ConversationID  *uuid.UUID `json:"conversationId,omitempty"`
	ParentMessageID *uuid.UUID `json:"parentMessageId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// MessageFilter scopes a listing. Fields are compared for exact equality,
// so a nil field only matches messages where that column is unset.
type MessageFilter struct {
	ChannelID       *uuid.UUID
	ConversationID  *uuid.UUID
	ParentMessageID *uuid.UUID
}

// ThreadStats describes the direct replies to a message
type ThreadStats struct {
	Count     int
	LastReply *Message
}

// MessageView is the read model of a message returned to clients
type MessageView struct {
	ID              uuid.UUID         `json:"id"`
	Body            string            `json:"body"`
	Image           *string           `json:"image,omitempty"`
	MemberID        uuid.UUID         `json:"memberId"`
	WorkspaceID     uuid.UUID         `json:"workspaceId"`
	ChannelID       *uuid.UUID        `json:"channelId,omitempty"`
	ConversationID  *uuid.UUID        `json:"conversationId,omitempty"`
	ParentMessageID *uuid.UUID        `json:"parentMessageId,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       *time.Time        `json:"updatedAt,omitempty"`
	Member          *Member           `json:"member"`
	User            *User             `json:"user"`
	Reactions       []ReactionSummary `json:"reactions"`
	Thread          *ThreadSummary    `json:"thread,omitempty"`
}

// ThreadSummary is the reply count and last-reply author shown under a message
type ThreadSummary struct {
	Count     int     `json:"count"`
	Image     *string `json:"image"`
	Name      string  `json:"name"`
	Timestamp int64   `json:"timeStamp"`
}

// MessagePage is one page of composed messages, newest first
type MessagePage struct {
	Page           []*MessageView `json:"page"`
	IsDone         bool           `json:"isDone"`
	ContinueCursor string         `json:"continueCursor"`
}

// MessageRepository defines the interface for message persistence operations
type MessageRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	Create(ctx context.Context, message *Message) (*Message, error)
	UpdateBody(ctx context.Context, id uuid.UUID, body string, updatedAt time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns up to limit messages matching filter, newest first,
	// strictly older than after when it is set.
	List(ctx context.Context, filter MessageFilter, after *Cursor, limit int) ([]*Message, error)
	GetThreadStats(ctx context.Context, parentID uuid.UUID) (*ThreadStats, error)
	DeleteByChannel(ctx context.Context, channelID uuid.UUID) (int64, error)
	DeleteByMember(ctx context.Context, memberID uuid.UUID) (int64, error)
	DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error)
}
