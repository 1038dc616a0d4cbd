package service

import (
	"context"
	"errors"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ChannelService handles channel lifecycle inside a workspace
type ChannelService struct {
	channelRepo domain.ChannelRepository
	authority   *MembershipAuthority
	cascade     *Cascade
}

// NewChannelService creates a new ChannelService
func NewChannelService(channelRepo domain.ChannelRepository, authority *MembershipAuthority, cascade *Cascade) *ChannelService {
	return &ChannelService{
		channelRepo: channelRepo,
		authority:   authority,
		cascade:     cascade,
	}
}

// Create adds a channel with a normalized name. Admin only.
func (s *ChannelService) Create(ctx context.Context, caller, workspaceID uuid.UUID, name string) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	if _, err := s.authority.RequireAdmin(ctx, workspaceID, caller); err != nil {
		return uuid.Nil, err
	}
	normalized, err := domain.NormalizeChannelName(name)
	if err != nil {
		return uuid.Nil, err
	}

	ch, err := s.channelRepo.Create(ctx, &domain.Channel{WorkspaceID: workspaceID, Name: normalized})
	if err != nil {
		return uuid.Nil, err
	}

	log.Info().Str("workspace_id", workspaceID.String()).Str("channel_id", ch.ID.String()).Str("name", ch.Name).Msg("Channel created")
	return ch.ID, nil
}

// Update renames a channel, normalizing the name the same way Create does
func (s *ChannelService) Update(ctx context.Context, caller, channelID uuid.UUID, name string) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	ch, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := s.authority.RequireAdmin(ctx, ch.WorkspaceID, caller); err != nil {
		return uuid.Nil, err
	}
	normalized, err := domain.NormalizeChannelName(name)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.channelRepo.UpdateName(ctx, channelID, normalized); err != nil {
		return uuid.Nil, err
	}
	return channelID, nil
}

// Remove deletes a channel and all of its messages
func (s *ChannelService) Remove(ctx context.Context, caller, channelID uuid.UUID) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	ch, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := s.authority.RequireAdmin(ctx, ch.WorkspaceID, caller); err != nil {
		return uuid.Nil, err
	}
	if err := s.cascade.Channel(ctx, channelID); err != nil {
		return uuid.Nil, err
	}

	log.Info().Str("workspace_id", ch.WorkspaceID.String()).Str("channel_id", channelID.String()).Msg("Channel removed")
	return channelID, nil
}

// List returns the workspace's channels, or nothing when the caller is not a member
func (s *ChannelService) List(ctx context.Context, caller, workspaceID uuid.UUID) ([]*domain.Channel, error) {
	member, err := s.authority.Find(ctx, workspaceID, caller)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return []*domain.Channel{}, nil
	}
	return s.channelRepo.ListByWorkspace(ctx, workspaceID)
}

// GetByID returns the channel when the caller is a member of its workspace
func (s *ChannelService) GetByID(ctx context.Context, caller, channelID uuid.UUID) (*domain.Channel, error) {
	if caller == uuid.Nil {
		return nil, nil
	}
	ch, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, domain.ErrChannelNotFound) {
			return nil, nil
		}
		return nil, err
	}
	member, err := s.authority.Find(ctx, ch.WorkspaceID, caller)
	if err != nil || member == nil {
		return nil, err
	}
	return ch, nil
}
