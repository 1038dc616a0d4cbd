package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JoinCodeLength is the length of a workspace join code
const JoinCodeLength = 6

// Workspace is the top-level tenant that owns members, channels, and messages
type Workspace struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Name      string    `json:"name"`
	JoinCode  string    `json:"joinCode"`
	CreatedAt time.Time `json:"createdAt"`
}

// WorkspaceInfo is the pre-join view of a workspace
type WorkspaceInfo struct {
	Name     string `json:"name"`
	IsMember bool   `json:"isMember"`
}

// WorkspaceRepository defines the interface for workspace persistence operations
type WorkspaceRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Workspace, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Workspace, error)
	Create(ctx context.Context, workspace *Workspace) (*Workspace, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) error
	UpdateJoinCode(ctx context.Context, id uuid.UUID, joinCode string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
