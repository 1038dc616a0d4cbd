package service

import (
	"context"
	"fmt"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Cascade removes an entity together with everything that references it.
// Each policy runs in one transaction and deletes children one batch per
// entity type before the parent row.
type Cascade struct {
	tx               domain.Transactor
	workspaceRepo    domain.WorkspaceRepository
	memberRepo       domain.MemberRepository
	channelRepo      domain.ChannelRepository
	conversationRepo domain.ConversationRepository
	messageRepo      domain.MessageRepository
	reactionRepo     domain.ReactionRepository
}

// NewCascade creates a new Cascade
func NewCascade(
	tx domain.Transactor,
	workspaceRepo domain.WorkspaceRepository,
	memberRepo domain.MemberRepository,
	channelRepo domain.ChannelRepository,
	conversationRepo domain.ConversationRepository,
	messageRepo domain.MessageRepository,
	reactionRepo domain.ReactionRepository,
) *Cascade {
	return &Cascade{
		tx:               tx,
		workspaceRepo:    workspaceRepo,
		memberRepo:       memberRepo,
		channelRepo:      channelRepo,
		conversationRepo: conversationRepo,
		messageRepo:      messageRepo,
		reactionRepo:     reactionRepo,
	}
}

type deleteStep struct {
	name string
	fn   func(ctx context.Context, id uuid.UUID) (int64, error)
}

// run executes steps in order inside a transaction and logs what each removed
func (c *Cascade) run(ctx context.Context, kind string, id uuid.UUID, steps []deleteStep, final func(ctx context.Context, id uuid.UUID) error) error {
	return c.tx.WithinTx(ctx, func(ctx context.Context) error {
		event := log.Debug().Str("cascade", kind).Str("id", id.String())
		for _, step := range steps {
			n, err := step.fn(ctx, id)
			if err != nil {
				return fmt.Errorf("cascade %s: %s: %w", kind, step.name, err)
			}
			event = event.Int64(step.name, n)
		}
		if err := final(ctx, id); err != nil {
			return fmt.Errorf("cascade %s: %w", kind, err)
		}
		event.Msg("Cascade delete complete")
		return nil
	})
}

// Workspace deletes every reaction, message, conversation, channel, and
// member of the workspace, then the workspace row last.
func (c *Cascade) Workspace(ctx context.Context, workspaceID uuid.UUID) error {
	return c.run(ctx, "workspace", workspaceID, []deleteStep{
		{"reactions", c.reactionRepo.DeleteByWorkspace},
		{"messages", c.messageRepo.DeleteByWorkspace},
		{"conversations", c.conversationRepo.DeleteByWorkspace},
		{"channels", c.channelRepo.DeleteByWorkspace},
		{"members", c.memberRepo.DeleteByWorkspace},
	}, c.workspaceRepo.Delete)
}

// Channel deletes every message in the channel and their reactions, then the channel
func (c *Cascade) Channel(ctx context.Context, channelID uuid.UUID) error {
	return c.run(ctx, "channel", channelID, []deleteStep{
		{"reactions", c.reactionRepo.DeleteByChannel},
		{"messages", c.messageRepo.DeleteByChannel},
	}, c.channelRepo.Delete)
}

// Member deletes the member's reactions, messages, and conversations, then the member
func (c *Cascade) Member(ctx context.Context, memberID uuid.UUID) error {
	return c.run(ctx, "member", memberID, []deleteStep{
		{"reactions", c.reactionRepo.DeleteByMember},
		{"messages", c.messageRepo.DeleteByMember},
		{"conversations", c.conversationRepo.DeleteByMember},
	}, c.memberRepo.Delete)
}

// Message deletes the message's reactions, then the message. Thread replies
// are kept.
func (c *Cascade) Message(ctx context.Context, messageID uuid.UUID) error {
	return c.run(ctx, "message", messageID, []deleteStep{
		{"reactions", c.reactionRepo.DeleteByMessage},
	}, c.messageRepo.Delete)
}
