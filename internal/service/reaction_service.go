package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
)

// ReactionService toggles reactions on messages
type ReactionService struct {
	reactionRepo     domain.ReactionRepository
	messageRepo      domain.MessageRepository
	conversationRepo domain.ConversationRepository
	authority        *MembershipAuthority
}

// NewReactionService creates a new ReactionService
func NewReactionService(reactionRepo domain.ReactionRepository, messageRepo domain.MessageRepository, conversationRepo domain.ConversationRepository, authority *MembershipAuthority) *ReactionService {
	return &ReactionService{
		reactionRepo:     reactionRepo,
		messageRepo:      messageRepo,
		conversationRepo: conversationRepo,
		authority:        authority,
	}
}

// Toggle removes the caller's reaction with this value when it exists and
// adds it otherwise. It returns the id of the removed or created reaction.
func (s *ReactionService) Toggle(ctx context.Context, caller, messageID uuid.UUID, value string) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return uuid.Nil, domain.ErrReactionRequired
	}
	if utf8.RuneCountInString(value) > domain.MaxReactionValueLength {
		return uuid.Nil, domain.ErrInvalidInput
	}

	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return uuid.Nil, err
	}
	member, err := s.authority.RequireMember(ctx, msg.WorkspaceID, caller)
	if err != nil {
		return uuid.Nil, err
	}
	ok, err := canSeeMessage(ctx, s.conversationRepo, msg, member.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}

	existing, err := s.find(ctx, messageID, member.ID, value)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		if err := s.reactionRepo.Delete(ctx, existing.ID); err != nil {
			return uuid.Nil, err
		}
		return existing.ID, nil
	}

	created, err := s.reactionRepo.Create(ctx, &domain.Reaction{
		WorkspaceID: msg.WorkspaceID,
		MessageID:   messageID,
		MemberID:    member.ID,
		Value:       value,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// a concurrent toggle inserted the same row first
			existing, err := s.find(ctx, messageID, member.ID, value)
			if err != nil || existing == nil {
				return uuid.Nil, err
			}
			return existing.ID, nil
		}
		return uuid.Nil, err
	}
	return created.ID, nil
}

func (s *ReactionService) find(ctx context.Context, messageID, memberID uuid.UUID, value string) (*domain.Reaction, error) {
	r, err := s.reactionRepo.Find(ctx, messageID, memberID, value)
	if err != nil {
		if errors.Is(err, domain.ErrReactionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r, nil
}
