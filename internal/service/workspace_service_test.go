package service

import (
	"testing"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/dafibh/huddle/huddle-backend/internal/util"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceService_Create_SeedsAdminAndGeneral(t *testing.T) {
	s := newTestServices()
	owner := s.store.AddUser("Ada")

	id, err := s.workspaces.Create(ctx, owner.ID, "  Acme  ")
	require.NoError(t, err)

	ws, err := s.store.Workspaces.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Acme", ws.Name)
	assert.Equal(t, owner.ID, ws.UserID)
	assert.Len(t, ws.JoinCode, domain.JoinCodeLength)
	assert.True(t, util.IsJoinCode(ws.JoinCode, domain.JoinCodeLength))

	member, err := s.store.Members.GetByWorkspaceAndUser(ctx, id, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, member.Role)

	channels, err := s.store.Channels.ListByWorkspace(ctx, id)
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, "general", channels[0].Name)

	assert.Equal(t, 1, s.store.Tx.Calls)
}

func TestWorkspaceService_Create_NoCaller(t *testing.T) {
	s := newTestServices()

	_, err := s.workspaces.Create(ctx, uuid.Nil, "Acme")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, s.store.Workspaces.Workspaces)
}

func TestWorkspaceService_Create_InvalidName(t *testing.T) {
	s := newTestServices()
	owner := s.store.AddUser("Ada")

	_, err := s.workspaces.Create(ctx, owner.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	long := make([]byte, domain.MaxWorkspaceNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	_, err = s.workspaces.Create(ctx, owner.ID, string(long))
	assert.ErrorIs(t, err, domain.ErrNameTooLong)
}

func TestWorkspaceService_Join(t *testing.T) {
	s := newTestServices()
	ws, _, _ := s.store.SeedWorkspace("Acme")
	joiner := s.store.AddUser("Bob")

	id, err := s.workspaces.Join(ctx, joiner.ID, ws.ID, "ABC123")
	require.NoError(t, err)
	assert.Equal(t, ws.ID, id)

	member, err := s.store.Members.GetByWorkspaceAndUser(ctx, ws.ID, joiner.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, member.Role)
}

func TestWorkspaceService_Join_Twice(t *testing.T) {
	s := newTestServices()
	ws, _, _ := s.store.SeedWorkspace("Acme")
	joiner := s.store.AddUser("Bob")

	_, err := s.workspaces.Join(ctx, joiner.ID, ws.ID, "abc123")
	require.NoError(t, err)
	before := len(s.store.Members.Members)

	_, err = s.workspaces.Join(ctx, joiner.ID, ws.ID, "abc123")
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)
	assert.Equal(t, "Already a member of this workspace", err.Error())
	assert.Len(t, s.store.Members.Members, before)
}

func TestWorkspaceService_Join_RaceMapsToAlreadyMember(t *testing.T) {
	s := newTestServices()
	ws, _, _ := s.store.SeedWorkspace("Acme")
	joiner := s.store.AddUser("Bob")
	s.store.Members.CreateFn = func(*domain.Member) (*domain.Member, error) {
		return nil, domain.ErrAlreadyExists
	}

	_, err := s.workspaces.Join(ctx, joiner.ID, ws.ID, "abc123")
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)
}

func TestWorkspaceService_Join_Failures(t *testing.T) {
	s := newTestServices()
	ws, _, _ := s.store.SeedWorkspace("Acme")
	joiner := s.store.AddUser("Bob")

	tests := []struct {
		name        string
		caller      uuid.UUID
		workspaceID uuid.UUID
		code        string
		want        error
	}{
		{"no caller", uuid.Nil, ws.ID, "abc123", domain.ErrUnauthorized},
		{"missing workspace", joiner.ID, uuid.New(), "abc123", domain.ErrWorkspaceNotFound},
		{"wrong code", joiner.ID, ws.ID, "zzz999", domain.ErrInvalidJoinCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.workspaces.Join(ctx, tt.caller, tt.workspaceID, tt.code)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWorkspaceService_NewJoinCode(t *testing.T) {
	s := newTestServices()
	ws, admin, _ := s.store.SeedWorkspace("Acme")
	_, regular := s.store.AddMember(ws.ID, "Bob", domain.RoleMember)

	_, err := s.workspaces.NewJoinCode(ctx, regular.UserID, ws.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "abc123", ws.JoinCode)

	_, err = s.workspaces.NewJoinCode(ctx, admin.UserID, ws.ID)
	require.NoError(t, err)
	assert.True(t, util.IsJoinCode(ws.JoinCode, domain.JoinCodeLength))

	outsider := s.store.AddUser("Eve")
	if ws.JoinCode != "abc123" {
		_, err = s.workspaces.Join(ctx, outsider.ID, ws.ID, "abc123")
		assert.ErrorIs(t, err, domain.ErrInvalidJoinCode)
	}
}

func TestWorkspaceService_Rename(t *testing.T) {
	s := newTestServices()
	ws, admin, _ := s.store.SeedWorkspace("Acme")
	_, regular := s.store.AddMember(ws.ID, "Bob", domain.RoleMember)

	_, err := s.workspaces.Rename(ctx, regular.UserID, ws.ID, "Hacked")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.workspaces.Rename(ctx, admin.UserID, ws.ID, " Acme Corp ")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", ws.Name)
}

func TestWorkspaceService_Remove_CascadesEverything(t *testing.T) {
	s := newTestServices()
	ws, admin, general := s.store.SeedWorkspace("Acme")
	_, bob := s.store.AddMember(ws.ID, "Bob", domain.RoleMember)
	conv, err := s.store.Conversations.Create(ctx, &domain.Conversation{WorkspaceID: ws.ID, MemberOneID: admin.ID, MemberTwoID: bob.ID})
	require.NoError(t, err)
	msg := s.store.Messages.AddMessage(&domain.Message{Body: "hi", MemberID: admin.ID, WorkspaceID: ws.ID, ChannelID: &general.ID})
	dm := s.store.Messages.AddMessage(&domain.Message{Body: "psst", MemberID: bob.ID, WorkspaceID: ws.ID, ConversationID: &conv.ID})
	s.store.Reactions.AddReaction(ws.ID, msg.ID, bob.ID, "👍")
	s.store.Reactions.AddReaction(ws.ID, dm.ID, admin.ID, "😀")

	other, _, otherChannel := s.store.SeedWorkspace("Other")
	otherMsg := s.store.Messages.AddMessage(&domain.Message{Body: "keep", MemberID: admin.ID, WorkspaceID: other.ID, ChannelID: &otherChannel.ID})

	_, err = s.workspaces.Remove(ctx, bob.UserID, ws.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = s.workspaces.Remove(ctx, admin.UserID, ws.ID)
	require.NoError(t, err)

	_, err = s.store.Workspaces.GetByID(ctx, ws.ID)
	assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
	members, _ := s.store.Members.ListByWorkspace(ctx, ws.ID)
	assert.Empty(t, members)
	channels, _ := s.store.Channels.ListByWorkspace(ctx, ws.ID)
	assert.Empty(t, channels)
	for _, c := range s.store.Conversations.Conversations {
		assert.NotEqual(t, ws.ID, c.WorkspaceID)
	}
	for _, m := range s.store.Messages.Messages {
		assert.NotEqual(t, ws.ID, m.WorkspaceID)
	}
	for _, r := range s.store.Reactions.Reactions {
		assert.NotEqual(t, ws.ID, r.WorkspaceID)
	}

	_, err = s.store.Messages.GetByID(ctx, otherMsg.ID)
	assert.NoError(t, err)
}

func TestWorkspaceService_GetInfoByID(t *testing.T) {
	s := newTestServices()
	ws, admin, _ := s.store.SeedWorkspace("Acme")
	outsider := s.store.AddUser("Eve")

	_, err := s.workspaces.GetInfoByID(ctx, uuid.Nil, ws.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	info, err := s.workspaces.GetInfoByID(ctx, outsider.ID, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, &domain.WorkspaceInfo{Name: "Acme", IsMember: false}, info)

	info, err = s.workspaces.GetInfoByID(ctx, admin.UserID, ws.ID)
	require.NoError(t, err)
	assert.True(t, info.IsMember)

	info, err = s.workspaces.GetInfoByID(ctx, outsider.ID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestWorkspaceService_GetByID_MembersOnly(t *testing.T) {
	s := newTestServices()
	ws, admin, _ := s.store.SeedWorkspace("Acme")
	outsider := s.store.AddUser("Eve")

	got, err := s.workspaces.GetByID(ctx, admin.UserID, ws.ID)
	require.NoError(t, err)
	assert.Equal(t, ws.ID, got.ID)

	got, err = s.workspaces.GetByID(ctx, outsider.ID, ws.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = s.workspaces.GetByID(ctx, uuid.Nil, ws.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestWorkspaceService_List(t *testing.T) {
	s := newTestServices()
	ws, admin, _ := s.store.SeedWorkspace("Acme")
	s.store.SeedWorkspace("Other")

	list, err := s.workspaces.List(ctx, admin.UserID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, ws.ID, list[0].ID)

	list, err = s.workspaces.List(ctx, uuid.Nil)
	require.NoError(t, err)
	assert.Empty(t, list)
}
