package service

import (
	"context"
	"errors"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
)

// ConversationService finds or creates direct-message conversations
type ConversationService struct {
	conversationRepo domain.ConversationRepository
	memberRepo       domain.MemberRepository
	authority        *MembershipAuthority
}

// NewConversationService creates a new ConversationService
func NewConversationService(conversationRepo domain.ConversationRepository, memberRepo domain.MemberRepository, authority *MembershipAuthority) *ConversationService {
	return &ConversationService{
		conversationRepo: conversationRepo,
		memberRepo:       memberRepo,
		authority:        authority,
	}
}

// CreateOrGet returns the conversation between the caller and memberID,
// creating it on first use. Argument order never produces a second row.
func (s *ConversationService) CreateOrGet(ctx context.Context, caller, workspaceID, memberID uuid.UUID) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}

	current, err := s.authority.Find(ctx, workspaceID, caller)
	if err != nil {
		return uuid.Nil, err
	}
	if current == nil {
		return uuid.Nil, domain.ErrMemberNotFound
	}
	other, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		return uuid.Nil, err
	}
	if other.WorkspaceID != workspaceID {
		return uuid.Nil, domain.ErrMemberNotFound
	}

	existing, err := s.find(ctx, workspaceID, current.ID, other.ID)
	if err != nil || existing != nil {
		return idOf(existing), err
	}

	created, err := s.conversationRepo.Create(ctx, &domain.Conversation{
		WorkspaceID: workspaceID,
		MemberOneID: current.ID,
		MemberTwoID: other.ID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// lost a race with an identical request
			existing, err := s.find(ctx, workspaceID, current.ID, other.ID)
			return idOf(existing), err
		}
		return uuid.Nil, err
	}
	return created.ID, nil
}

// GetByID returns a conversation the caller takes part in, or nil
func (s *ConversationService) GetByID(ctx context.Context, caller, conversationID uuid.UUID) (*domain.Conversation, error) {
	if caller == uuid.Nil {
		return nil, nil
	}
	conv, err := s.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			return nil, nil
		}
		return nil, err
	}
	member, err := s.authority.Find(ctx, conv.WorkspaceID, caller)
	if err != nil || member == nil || !conv.Involves(member.ID) {
		return nil, err
	}
	return conv, nil
}

func (s *ConversationService) find(ctx context.Context, workspaceID, a, b uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.conversationRepo.FindByMembers(ctx, workspaceID, a, b)
	if err != nil {
		if errors.Is(err, domain.ErrConversationNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return conv, nil
}

func idOf(c *domain.Conversation) uuid.UUID {
	if c == nil {
		return uuid.Nil
	}
	return c.ID
}
