package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/dafibh/huddle/huddle-backend/internal/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// WorkspaceService handles workspace lifecycle and join codes
type WorkspaceService struct {
	tx            domain.Transactor
	workspaceRepo domain.WorkspaceRepository
	memberRepo    domain.MemberRepository
	channelRepo   domain.ChannelRepository
	authority     *MembershipAuthority
	cascade       *Cascade
}

// NewWorkspaceService creates a new WorkspaceService
func NewWorkspaceService(
	tx domain.Transactor,
	workspaceRepo domain.WorkspaceRepository,
	memberRepo domain.MemberRepository,
	channelRepo domain.ChannelRepository,
	authority *MembershipAuthority,
	cascade *Cascade,
) *WorkspaceService {
	return &WorkspaceService{
		tx:            tx,
		workspaceRepo: workspaceRepo,
		memberRepo:    memberRepo,
		channelRepo:   channelRepo,
		authority:     authority,
		cascade:       cascade,
	}
}

// Create makes a workspace owned by the caller, with the caller as its first
// admin and a "general" channel. All three rows are written atomically.
func (s *WorkspaceService) Create(ctx context.Context, caller uuid.UUID, name string) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	name, err := validateWorkspaceName(name)
	if err != nil {
		return uuid.Nil, err
	}
	joinCode, err := util.GenerateJoinCode(domain.JoinCodeLength)
	if err != nil {
		return uuid.Nil, err
	}

	var workspaceID uuid.UUID
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		ws, err := s.workspaceRepo.Create(ctx, &domain.Workspace{
			UserID:   caller,
			Name:     name,
			JoinCode: joinCode,
		})
		if err != nil {
			return err
		}
		if _, err := s.memberRepo.Create(ctx, &domain.Member{
			UserID:      caller,
			WorkspaceID: ws.ID,
			Role:        domain.RoleAdmin,
		}); err != nil {
			return err
		}
		if _, err := s.channelRepo.Create(ctx, &domain.Channel{
			WorkspaceID: ws.ID,
			Name:        domain.DefaultChannelName,
		}); err != nil {
			return err
		}
		workspaceID = ws.ID
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	log.Info().Str("workspace_id", workspaceID.String()).Str("user_id", caller.String()).Msg("Workspace created")
	return workspaceID, nil
}

// Join redeems a join code and makes the caller a regular member
func (s *WorkspaceService) Join(ctx context.Context, caller, workspaceID uuid.UUID, joinCode string) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}

	ws, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return uuid.Nil, err
	}
	if !util.MatchJoinCode(ws.JoinCode, joinCode) {
		return uuid.Nil, domain.ErrInvalidJoinCode
	}

	existing, err := s.authority.Find(ctx, workspaceID, caller)
	if err != nil {
		return uuid.Nil, err
	}
	if existing != nil {
		return uuid.Nil, domain.ErrAlreadyMember
	}

	_, err = s.memberRepo.Create(ctx, &domain.Member{
		UserID:      caller,
		WorkspaceID: workspaceID,
		Role:        domain.RoleMember,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return uuid.Nil, domain.ErrAlreadyMember
		}
		return uuid.Nil, err
	}

	log.Info().Str("workspace_id", workspaceID.String()).Str("user_id", caller.String()).Msg("User joined workspace")
	return workspaceID, nil
}

// NewJoinCode rotates the join code. The old code stops working immediately.
func (s *WorkspaceService) NewJoinCode(ctx context.Context, caller, workspaceID uuid.UUID) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	if _, err := s.authority.RequireAdmin(ctx, workspaceID, caller); err != nil {
		return uuid.Nil, err
	}

	joinCode, err := util.GenerateJoinCode(domain.JoinCodeLength)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.workspaceRepo.UpdateJoinCode(ctx, workspaceID, joinCode); err != nil {
		return uuid.Nil, err
	}
	return workspaceID, nil
}

// Rename changes the workspace name
func (s *WorkspaceService) Rename(ctx context.Context, caller, workspaceID uuid.UUID, name string) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	if _, err := s.authority.RequireAdmin(ctx, workspaceID, caller); err != nil {
		return uuid.Nil, err
	}
	name, err := validateWorkspaceName(name)
	if err != nil {
		return uuid.Nil, err
	}
	if err := s.workspaceRepo.UpdateName(ctx, workspaceID, name); err != nil {
		return uuid.Nil, err
	}
	return workspaceID, nil
}

// Remove deletes the workspace and everything scoped to it
func (s *WorkspaceService) Remove(ctx context.Context, caller, workspaceID uuid.UUID) (uuid.UUID, error) {
	if caller == uuid.Nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	if _, err := s.authority.RequireAdmin(ctx, workspaceID, caller); err != nil {
		return uuid.Nil, err
	}
	if err := s.cascade.Workspace(ctx, workspaceID); err != nil {
		return uuid.Nil, err
	}

	log.Info().Str("workspace_id", workspaceID.String()).Str("user_id", caller.String()).Msg("Workspace removed")
	return workspaceID, nil
}

// GetInfoByID returns the name and the caller's membership status without
// requiring membership. It is what a join screen shows.
func (s *WorkspaceService) GetInfoByID(ctx context.Context, caller, workspaceID uuid.UUID) (*domain.WorkspaceInfo, error) {
	if caller == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	ws, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	member, err := s.authority.Find(ctx, workspaceID, caller)
	if err != nil {
		return nil, err
	}
	return &domain.WorkspaceInfo{Name: ws.Name, IsMember: member != nil}, nil
}

// GetByID returns the workspace when the caller is a member, else nil
func (s *WorkspaceService) GetByID(ctx context.Context, caller, workspaceID uuid.UUID) (*domain.Workspace, error) {
	member, err := s.authority.Find(ctx, workspaceID, caller)
	if err != nil || member == nil {
		return nil, err
	}
	ws, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrWorkspaceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return ws, nil
}

// List returns every workspace the caller belongs to
func (s *WorkspaceService) List(ctx context.Context, caller uuid.UUID) ([]*domain.Workspace, error) {
	if caller == uuid.Nil {
		return []*domain.Workspace{}, nil
	}
	return s.workspaceRepo.ListByUser(ctx, caller)
}

func validateWorkspaceName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrNameRequired
	}
	if utf8.RuneCountInString(name) > domain.MaxWorkspaceNameLength {
		return "", domain.ErrNameTooLong
	}
	return name, nil
}
