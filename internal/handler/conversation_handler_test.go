package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrGetConversation_Idempotent(t *testing.T) {
	s := newTestServer(t)
	ws, admin, _ := s.store.SeedWorkspace("Acme")
	bob, bobMember := s.store.AddMember(ws.ID, "Bob", domain.RoleMember)
	path := "/api/v1/workspaces/" + ws.ID.String() + "/conversations"

	rec := s.do(http.MethodPost, path, fmt.Sprintf(`{"memberId":%q}`, bobMember.ID), admin.UserID)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decodeID(t, rec)

	rec = s.do(http.MethodPost, path, fmt.Sprintf(`{"memberId":%q}`, admin.ID), bob.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first, decodeID(t, rec))
	assert.Len(t, s.store.Conversations.Conversations, 1)

	rec = s.do(http.MethodGet, "/api/v1/conversations/"+first.String(), "", bob.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	var conv domain.Conversation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &conv))
	assert.True(t, conv.Involves(admin.ID))
	assert.True(t, conv.Involves(bobMember.ID))
}

func TestConversation_Failures(t *testing.T) {
	s := newTestServer(t)
	ws, admin, _ := s.store.SeedWorkspace("Acme")
	_, bobMember := s.store.AddMember(ws.ID, "Bob", domain.RoleMember)
	carol, _ := s.store.AddMember(ws.ID, "Carol", domain.RoleMember)
	path := "/api/v1/workspaces/" + ws.ID.String() + "/conversations"

	rec := s.do(http.MethodPost, path, fmt.Sprintf(`{"memberId":%q}`, uuid.New()), admin.UserID)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Member not found", decodeProblem(t, rec).Detail)

	rec = s.do(http.MethodPost, path, `{"memberId":"nope"}`, admin.UserID)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, path, fmt.Sprintf(`{"memberId":%q}`, bobMember.ID), admin.UserID)
	require.Equal(t, http.StatusOK, rec.Code)
	id := decodeID(t, rec)

	rec = s.do(http.MethodGet, "/api/v1/conversations/"+id.String(), "", carol.ID)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}
