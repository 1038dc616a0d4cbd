package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// composeConcurrency bounds how many messages of one page are composed at once
const composeConcurrency = 8

// CreateMessageInput contains the data for posting a message
type CreateMessageInput struct {
	WorkspaceID     uuid.UUID
	Body            string
	Image           *string
	ChannelID       *uuid.UUID
	ConversationID  *uuid.UUID
	ParentMessageID *uuid.UUID
}

// MessageService stores messages and composes their read model
type MessageService struct {
	messageRepo      domain.MessageRepository
	memberRepo       domain.MemberRepository
	userRepo         domain.UserRepository
	channelRepo      domain.ChannelRepository
	conversationRepo domain.ConversationRepository
	reactionRepo     domain.ReactionRepository
	authority        *MembershipAuthority
	cascade          *Cascade
	uploads          *UploadService
	now              func() time.Time
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messageRepo domain.MessageRepository,
	memberRepo domain.MemberRepository,
	userRepo domain.UserRepository,
	channelRepo domain.ChannelRepository,
	conversationRepo domain.ConversationRepository,
	reactionRepo domain.ReactionRepository,
	authority *MembershipAuthority,
	cascade *Cascade,
	uploads *UploadService,
) *MessageService {
	return &MessageService{
		messageRepo:      messageRepo,
		memberRepo:       memberRepo,
		userRepo:         userRepo,
		channelRepo:      channelRepo,
		conversationRepo: conversationRepo,
		reactionRepo:     reactionRepo,
		authority:        authority,
		cascade:          cascade,
		uploads:          uploads,
		now:              time.Now,
	}
}

// Create posts a message as the caller's own member. A reply that names only
// its parent inherits the parent's conversation.
func (s *MessageService) Create(ctx context.Context, caller uuid.UUID, input CreateMessageInput) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	body := strings.TrimSpace(input.Body)
	if body == "" {
		return uuid.Nil, domain.ErrBodyRequired
	}
	if input.Image != nil {
		if err := ValidateStorageID(*input.Image); err != nil {
			return uuid.Nil, err
		}
	}

	member, err := s.authority.RequireMember(ctx, input.WorkspaceID, caller)
	if err != nil {
		return uuid.Nil, err
	}

	channelID, conversationID := input.ChannelID, input.ConversationID
	if channelID != nil && conversationID != nil {
		return uuid.Nil, domain.ErrInvalidInput
	}

	if input.ParentMessageID != nil {
		parent, err := s.messageRepo.GetByID(ctx, *input.ParentMessageID)
		if err != nil {
			if errors.Is(err, domain.ErrMessageNotFound) {
				return uuid.Nil, domain.ErrParentNotFound
			}
			return uuid.Nil, err
		}
		if parent.WorkspaceID != input.WorkspaceID {
			return uuid.Nil, domain.ErrParentNotFound
		}
		if channelID == nil && conversationID == nil {
			conversationID = parent.ConversationID
		}
	} else if channelID == nil && conversationID == nil {
		return uuid.Nil, domain.ErrInvalidInput
	}

	if channelID != nil {
		ch, err := s.channelRepo.GetByID(ctx, *channelID)
		if err != nil {
			return uuid.Nil, err
		}
		if ch.WorkspaceID != input.WorkspaceID {
			return uuid.Nil, domain.ErrChannelNotFound
		}
	}
	if conversationID != nil {
		conv, err := s.conversationRepo.GetByID(ctx, *conversationID)
		if err != nil {
			return uuid.Nil, err
		}
		if conv.WorkspaceID != input.WorkspaceID {
			return uuid.Nil, domain.ErrConversationNotFound
		}
		if !conv.Involves(member.ID) {
			return uuid.Nil, domain.ErrUnauthorized
		}
	}

	msg, err := s.messageRepo.Create(ctx, &domain.Message{
		Body:            body,
		Image:           input.Image,
		MemberID:        member.ID,
		WorkspaceID:     input.WorkspaceID,
		ChannelID:       channelID,
		ConversationID:  conversationID,
		ParentMessageID: input.ParentMessageID,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return msg.ID, nil
}

// Update replaces the body of a message. Only its author may do it.
func (s *MessageService) Update(ctx context.Context, caller, messageID uuid.UUID, body string) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return uuid.Nil, domain.ErrBodyRequired
	}
	if _, err := s.requireAuthor(ctx, caller, messageID); err != nil {
		return uuid.Nil, err
	}
	if err := s.messageRepo.UpdateBody(ctx, messageID, body, s.now().UTC()); err != nil {
		return uuid.Nil, err
	}
	return messageID, nil
}

// Remove deletes a message and its reactions. Only its author may do it.
func (s *MessageService) Remove(ctx context.Context, caller, messageID uuid.UUID) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	msg, err := s.requireAuthor(ctx, caller, messageID)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.cascade.Message(ctx, messageID); err != nil {
		return uuid.Nil, err
	}

	if msg.Image != nil {
		if err := s.uploads.Delete(ctx, *msg.Image); err != nil {
			log.Warn().Err(err).Str("message_id", messageID.String()).Msg("Failed to delete message attachment")
		}
	}
	return messageID, nil
}

// GetByID returns the composed message when the caller is a member of its
// workspace, else nil. Conversation messages are returned to participants only.
func (s *MessageService) GetByID(ctx context.Context, caller, messageID uuid.UUID) (*domain.MessageView, error) {
	if caller == uuid.Nil {
		return nil, nil
	}
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, domain.ErrMessageNotFound) {
			return nil, nil
		}
		return nil, err
	}
	member, err := s.authority.Find(ctx, msg.WorkspaceID, caller)
	if err != nil || member == nil {
		return nil, err
	}
	ok, err := canSeeMessage(ctx, s.conversationRepo, msg, member.ID)
	if err != nil || !ok {
		return nil, err
	}
	return s.compose(ctx, msg, false)
}

// canSeeMessage reports whether a workspace member may see msg. Conversation
// messages are limited to the two participants.
func canSeeMessage(ctx context.Context, conversations domain.ConversationRepository, msg *domain.Message, memberID uuid.UUID) (bool, error) {
	if msg.ConversationID == nil {
		return true, nil
	}
	conv, err := conversations.GetByID(ctx, *msg.ConversationID)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			return false, nil
		}
		return false, err
	}
	return conv.Involves(memberID), nil
}

// List returns one page of a channel, a conversation, or a thread, newest
// first. Callers outside the scope's workspace get an empty page.
func (s *MessageService) List(ctx context.Context, caller uuid.UUID, filter domain.MessageFilter, opts domain.PaginationOpts) (*domain.MessagePage, error) {
	if filter.ChannelID == nil && filter.ConversationID == nil && filter.ParentMessageID == nil {
		return nil, domain.ErrInvalidInput
	}
	cursor, err := domain.DecodeCursor(opts.Cursor)
	if err != nil {
		return nil, err
	}
	if caller == uuid.Nil {
		return emptyPage(), nil
	}

	if filter.ChannelID == nil && filter.ConversationID == nil {
		parent, err := s.messageRepo.GetByID(ctx, *filter.ParentMessageID)
		if err != nil {
			if errors.Is(err, domain.ErrMessageNotFound) {
				return nil, domain.ErrParentNotFound
			}
			return nil, err
		}
		filter.ConversationID = parent.ConversationID
	}

	visible, err := s.canRead(ctx, caller, filter)
	if err != nil {
		return nil, err
	}
	if !visible {
		return emptyPage(), nil
	}

	limit := opts.Limit()
	messages, err := s.messageRepo.List(ctx, filter, cursor, limit+1)
	if err != nil {
		return nil, err
	}
	isDone := len(messages) <= limit
	if !isDone {
		messages = messages[:limit]
	}

	views, err := s.composeAll(ctx, messages)
	if err != nil {
		return nil, err
	}

	page := &domain.MessagePage{Page: views, IsDone: isDone}
	if !isDone {
		last := messages[len(messages)-1]
		page.ContinueCursor = domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}
	return page, nil
}

// canRead reports whether the caller may see the listing scope. Channel and
// thread scopes need membership; conversations need the caller to be one of
// the two participants.
func (s *MessageService) canRead(ctx context.Context, caller uuid.UUID, filter domain.MessageFilter) (bool, error) {
	var workspaceID uuid.UUID
	var conv *domain.Conversation

	switch {
	case filter.ConversationID != nil:
		c, err := s.conversationRepo.GetByID(ctx, *filter.ConversationID)
		if err != nil {
			if errors.Is(err, domain.ErrConversationNotFound) {
				return false, nil
			}
			return false, err
		}
		workspaceID, conv = c.WorkspaceID, c
	case filter.ChannelID != nil:
		ch, err := s.channelRepo.GetByID(ctx, *filter.ChannelID)
		if err != nil {
			if errors.Is(err, domain.ErrChannelNotFound) {
				return false, nil
			}
			return false, err
		}
		workspaceID = ch.WorkspaceID
	default:
		parent, err := s.messageRepo.GetByID(ctx, *filter.ParentMessageID)
		if err != nil {
			if errors.Is(err, domain.ErrMessageNotFound) {
				return false, nil
			}
			return false, err
		}
		workspaceID = parent.WorkspaceID
	}

	member, err := s.authority.Find(ctx, workspaceID, caller)
	if err != nil || member == nil {
		return false, err
	}
	if conv != nil && !conv.Involves(member.ID) {
		return false, nil
	}
	return true, nil
}

// composeAll composes every message in parallel and keeps page order.
// Messages that cannot be composed are dropped.
func (s *MessageService) composeAll(ctx context.Context, messages []*domain.Message) ([]*domain.MessageView, error) {
	composed := make([]*domain.MessageView, len(messages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(composeConcurrency)
	for i, msg := range messages {
		i, msg := i, msg
		g.Go(func() error {
			view, err := s.compose(gctx, msg, true)
			if err != nil {
				return err
			}
			composed[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]*domain.MessageView, 0, len(composed))
	for _, v := range composed {
		if v != nil {
			views = append(views, v)
		}
	}
	return views, nil
}

// compose builds the read model of one message. It returns nil when the
// author's member or user record is gone.
func (s *MessageService) compose(ctx context.Context, msg *domain.Message, withThread bool) (*domain.MessageView, error) {
	member, user, err := s.author(ctx, msg.MemberID)
	if err != nil || member == nil {
		return nil, err
	}

	reactions, err := s.reactionRepo.ListByMessage(ctx, msg.ID)
	if err != nil {
		return nil, err
	}

	view := &domain.MessageView{
		ID:              msg.ID,
		Body:            msg.Body,
		Image:           s.uploads.ResolveURL(ctx, msg.Image),
		MemberID:        msg.MemberID,
		WorkspaceID:     msg.WorkspaceID,
		ChannelID:       msg.ChannelID,
		ConversationID:  msg.ConversationID,
		ParentMessageID: msg.ParentMessageID,
		CreatedAt:       msg.CreatedAt,
		UpdatedAt:       msg.UpdatedAt,
		Member:          member,
		User:            user,
		Reactions:       domain.AggregateReactions(reactions),
	}

	if withThread {
		thread, err := s.threadSummary(ctx, msg.ID)
		if err != nil {
			return nil, err
		}
		view.Thread = thread
	}
	return view, nil
}

// threadSummary describes the direct replies to a message. The summary is
// zero when there are no replies or the last reply's author is gone.
func (s *MessageService) threadSummary(ctx context.Context, messageID uuid.UUID) (*domain.ThreadSummary, error) {
	stats, err := s.messageRepo.GetThreadStats(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if stats.Count == 0 || stats.LastReply == nil {
		return &domain.ThreadSummary{}, nil
	}

	member, user, err := s.author(ctx, stats.LastReply.MemberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return &domain.ThreadSummary{}, nil
	}

	return &domain.ThreadSummary{
		Count:     stats.Count,
		Image:     user.Image,
		Name:      user.DisplayName(),
		Timestamp: stats.LastReply.CreatedAt.UnixMilli(),
	}, nil
}

// author resolves a member and its user. Both are nil when either is missing.
func (s *MessageService) author(ctx context.Context, memberID uuid.UUID) (*domain.Member, *domain.User, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, domain.ErrMemberNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	user, err := s.userRepo.GetByID(ctx, member.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return member, user, nil
}

// requireAuthor loads a message and fails with ErrUnauthorized unless the
// caller's member in its workspace wrote it.
func (s *MessageService) requireAuthor(ctx context.Context, caller, messageID uuid.UUID) (*domain.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	member, err := s.authority.Find(ctx, msg.WorkspaceID, caller)
	if err != nil {
		return nil, err
	}
	if member == nil || member.ID != msg.MemberID {
		return nil, domain.ErrUnauthorized
	}
	return msg, nil
}

func emptyPage() *domain.MessagePage {
	return &domain.MessagePage{Page: []*domain.MessageView{}, IsDone: true}
}
