package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Reaction is one member's reaction value on a message
type Reaction struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspaceId"`
	MessageID   uuid.UUID `json:"messageId"`
	MemberID    uuid.UUID `json:"memberId"`
	Value       string    `json:"value"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ReactionSummary aggregates all reactions of one value on a message
type ReactionSummary struct {
	Value     string      `json:"value"`
	Count     int         `json:"count"`
	MemberIDs []uuid.UUID `json:"memberIds"`
}

// AggregateReactions groups reactions by value in first-seen order. Count is
// the number of distinct members that used the value.
func AggregateReactions(reactions []*Reaction) []ReactionSummary {
	summaries := make([]ReactionSummary, 0, len(reactions))
	index := make(map[string]int)
	seen := make(map[string]map[uuid.UUID]struct{})

	for _, r := range reactions {
		i, ok := index[r.Value]
		if !ok {
			i = len(summaries)
			index[r.Value] = i
			seen[r.Value] = make(map[uuid.UUID]struct{})
			summaries = append(summaries, ReactionSummary{Value: r.Value, MemberIDs: []uuid.UUID{}})
		}
		if _, dup := seen[r.Value][r.MemberID]; dup {
			continue
		}
		seen[r.Value][r.MemberID] = struct{}{}
		summaries[i].MemberIDs = append(summaries[i].MemberIDs, r.MemberID)
		summaries[i].Count++
	}

	return summaries
}

// ReactionRepository defines the interface for reaction persistence operations
type ReactionRepository interface {
	Find(ctx context.Context, messageID, memberID uuid.UUID, value string) (*Reaction, error)
	ListByMessage(ctx context.Context, messageID uuid.UUID) ([]*Reaction, error)
	// Create returns ErrAlreadyExists when the member already reacted to the
	// message with the same value.
	Create(ctx context.Context, reaction *Reaction) (*Reaction, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByMessage(ctx context.Context, messageID uuid.UUID) (int64, error)
	// DeleteByChannel removes reactions on every message in the channel.
	DeleteByChannel(ctx context.Context, channelID uuid.UUID) (int64, error)
	DeleteByMember(ctx context.Context, memberID uuid.UUID) (int64, error)
	DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error)
}
