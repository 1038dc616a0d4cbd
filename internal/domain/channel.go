package domain

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DefaultChannelName is the channel every new workspace starts with
const DefaultChannelName = "general"

// Channel is a named, many-party message stream within a workspace
type Channel struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NormalizeChannelName collapses whitespace runs to single hyphens and
// lowercases the result.
func NormalizeChannelName(name string) (string, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(name), "-"))
	n := utf8.RuneCountInString(normalized)
	if n < MinChannelNameLength || n > MaxChannelNameLength {
		return "", ErrInvalidChannelName
	}
	return normalized, nil
}

// ChannelRepository defines the interface for channel persistence operations
type ChannelRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Channel, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*Channel, error)
	Create(ctx context.Context, channel *Channel) (*Channel, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error)
}
