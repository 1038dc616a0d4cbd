package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMembers(t *testing.T) {
	s := newTestServer(t)
	ws, admin, _ := s.store.SeedWorkspace("Acme")
	s.store.AddMember(ws.ID, "Bob", domain.RoleMember)
	eve := s.store.AddUser("Eve")

	rec := s.do(http.MethodGet, "/api/v1/workspaces/"+ws.ID.String()+"/members", "", admin.UserID)
	require.Equal(t, http.StatusOK, rec.Code)
	var members []domain.MemberWithUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &members))
	require.Len(t, members, 2)
	for _, m := range members {
		require.NotNil(t, m.User)
		assert.Equal(t, m.UserID, m.User.ID)
	}

	rec = s.do(http.MethodGet, "/api/v1/workspaces/"+ws.ID.String()+"/members", "", eve.ID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestGetCurrentMember(t *testing.T) {
	s := newTestServer(t)
	ws, admin, _ := s.store.SeedWorkspace("Acme")

	rec := s.do(http.MethodGet, "/api/v1/workspaces/"+ws.ID.String()+"/members/current", "", admin.UserID)
	require.Equal(t, http.StatusOK, rec.Code)
	var member domain.Member
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &member))
	assert.Equal(t, admin.ID, member.ID)
	assert.Equal(t, domain.RoleAdmin, member.Role)

	rec = s.do(http.MethodGet, "/api/v1/workspaces/"+ws.ID.String()+"/members/current", "", uuid.Nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestUpdateMemberRole(t *testing.T) {
	s := newTestServer(t)
	ws, admin, _ := s.store.SeedWorkspace("Acme")
	bob, bobMember := s.store.AddMember(ws.ID, "Bob", domain.RoleMember)
	path := "/api/v1/members/" + bobMember.ID.String()

	rec := s.do(http.MethodPatch, path, `{"role":"admin"}`, bob.ID)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPatch, path, `{"role":"owner"}`, admin.UserID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	problem := decodeProblem(t, rec)
	require.Len(t, problem.Errors, 1)
	assert.Equal(t, "role", problem.Errors[0].Field)

	rec = s.do(http.MethodPatch, path, `{"role":"admin"}`, admin.UserID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, bobMember.ID, decodeID(t, rec))
	assert.Equal(t, domain.RoleAdmin, s.store.Members.Members[bobMember.ID].Role)
}

func TestDeleteMember(t *testing.T) {
	s := newTestServer(t)
	ws, admin, general := s.store.SeedWorkspace("Acme")
	bob, bobMember := s.store.AddMember(ws.ID, "Bob", domain.RoleMember)
	_, carol := s.store.AddMember(ws.ID, "Carol", domain.RoleMember)
	s.store.Messages.AddMessage(&domain.Message{Body: "hi", MemberID: bobMember.ID, WorkspaceID: ws.ID, ChannelID: &general.ID})

	rec := s.do(http.MethodDelete, "/api/v1/members/"+admin.ID.String(), "", admin.UserID)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Admin cannot be removed", decodeProblem(t, rec).Detail)

	rec = s.do(http.MethodDelete, "/api/v1/members/"+carol.ID.String(), "", bob.ID)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(http.MethodDelete, "/api/v1/members/"+bobMember.ID.String(), "", bob.ID)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, s.store.Members.Members, bobMember.ID)

	rec = s.do(http.MethodDelete, "/api/v1/members/"+bobMember.ID.String(), "", admin.UserID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, s.store.Members.Members, bobMember.ID)
	assert.Empty(t, s.store.Messages.Messages)

	rec = s.do(http.MethodGet, "/api/v1/members/"+bobMember.ID.String(), "", admin.UserID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}
