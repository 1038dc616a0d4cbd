package service

import (
	"testing"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelService_Create_NormalizesName(t *testing.T) {
	s := newTestServices()
	ws, admin, _ := s.store.SeedWorkspace("Acme")

	id, err := s.channels.Create(ctx, admin.UserID, ws.ID, "  Product   Launch ")
	require.NoError(t, err)

	ch, err := s.store.Channels.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "product-launch", ch.Name)
	assert.Equal(t, ws.ID, ch.WorkspaceID)
}

func TestChannelService_Create_AdminOnly(t *testing.T) {
	s := newTestServices()
	ws, _, _ := s.store.SeedWorkspace("Acme")
	_, regular := s.store.AddMember(ws.ID, "Bob", domain.RoleMember)
	outsider := s.store.AddUser("Eve")

	_, err := s.channels.Create(ctx, regular.UserID, ws.ID, "random")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.channels.Create(ctx, outsider.ID, ws.ID, "random")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.channels.Create(ctx, uuid.Nil, ws.ID, "random")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestChannelService_Create_InvalidName(t *testing.T) {
	s := newTestServices()
	ws, admin, _ := s.store.SeedWorkspace("Acme")

	_, err := s.channels.Create(ctx, admin.UserID, ws.ID, " a ")
	assert.ErrorIs(t, err, domain.ErrInvalidChannelName)
}

func TestChannelService_Update_NormalizesName(t *testing.T) {
	s := newTestServices()
	_, admin, general := s.store.SeedWorkspace("Acme")

	_, err := s.channels.Update(ctx, admin.UserID, general.ID, "Team  Chat")
	require.NoError(t, err)
	assert.Equal(t, "team-chat", general.Name)
}

func TestChannelService_Update_AdminOnly(t *testing.T) {
	s := newTestServices()
	ws, _, general := s.store.SeedWorkspace("Acme")
	_, regular := s.store.AddMember(ws.ID, "Bob", domain.RoleMember)

	_, err := s.channels.Update(ctx, regular.UserID, general.ID, "renamed")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "general", general.Name)
}

func TestChannelService_Remove_DeletesOnlyItsMessages(t *testing.T) {
	s := newTestServices()
	ws, admin, general := s.store.SeedWorkspace("Acme")
	random := s.store.Channels.AddChannel(ws.ID, "random")

	inGeneral := s.store.Messages.AddMessage(&domain.Message{Body: "a", MemberID: admin.ID, WorkspaceID: ws.ID, ChannelID: &general.ID})
	s.store.Messages.AddMessage(&domain.Message{Body: "b", MemberID: admin.ID, WorkspaceID: ws.ID, ChannelID: &general.ID})
	kept := s.store.Messages.AddMessage(&domain.Message{Body: "c", MemberID: admin.ID, WorkspaceID: ws.ID, ChannelID: &random.ID})
	s.store.Reactions.AddReaction(ws.ID, inGeneral.ID, admin.ID, "👍")
	keptReaction := s.store.Reactions.AddReaction(ws.ID, kept.ID, admin.ID, "👍")

	_, err := s.channels.Remove(ctx, admin.UserID, general.ID)
	require.NoError(t, err)

	_, err = s.store.Channels.GetByID(ctx, general.ID)
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)
	require.Len(t, s.store.Messages.Messages, 1)
	assert.Contains(t, s.store.Messages.Messages, kept.ID)
	require.Len(t, s.store.Reactions.Reactions, 1)
	assert.Contains(t, s.store.Reactions.Reactions, keptReaction.ID)
}

func TestChannelService_Remove_Failures(t *testing.T) {
	s := newTestServices()
	ws, admin, general := s.store.SeedWorkspace("Acme")
	_, regular := s.store.AddMember(ws.ID, "Bob", domain.RoleMember)

	_, err := s.channels.Remove(ctx, regular.UserID, general.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.channels.Remove(ctx, admin.UserID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrChannelNotFound)
}

func TestChannelService_List(t *testing.T) {
	s := newTestServices()
	ws, _, general := s.store.SeedWorkspace("Acme")
	_, regular := s.store.AddMember(ws.ID, "Bob", domain.RoleMember)
	outsider := s.store.AddUser("Eve")

	list, err := s.channels.List(ctx, regular.UserID, ws.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, general.ID, list[0].ID)

	list, err = s.channels.List(ctx, outsider.ID, ws.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = s.channels.List(ctx, uuid.Nil, ws.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestChannelService_GetByID(t *testing.T) {
	s := newTestServices()
	_, admin, general := s.store.SeedWorkspace("Acme")
	outsider := s.store.AddUser("Eve")

	ch, err := s.channels.GetByID(ctx, admin.UserID, general.ID)
	require.NoError(t, err)
	assert.Equal(t, general.ID, ch.ID)

	ch, err = s.channels.GetByID(ctx, outsider.ID, general.ID)
	require.NoError(t, err)
	assert.Nil(t, ch)

	ch, err = s.channels.GetByID(ctx, admin.UserID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, ch)
}
