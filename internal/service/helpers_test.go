package service

import (
	"context"

	"github.com/dafibh/huddle/huddle-backend/internal/testutil"
)

type testServices struct {
	store         *testutil.MockStore
	authority     *MembershipAuthority
	cascade       *Cascade
	identity      *IdentityService
	workspaces    *WorkspaceService
	channels      *ChannelService
	members       *MemberService
	conversations *ConversationService
	messages      *MessageService
	reactions     *ReactionService
	uploads       *UploadService
}

func newTestServices() *testServices {
	store := testutil.NewMockStore()
	authority := NewMembershipAuthority(store.Members)
	cascade := NewCascade(store.Tx, store.Workspaces, store.Members, store.Channels, store.Conversations, store.Messages, store.Reactions)
	uploads := NewUploadService(store.Blobs)

	return &testServices{
		store:         store,
		authority:     authority,
		cascade:       cascade,
		identity:      NewIdentityService(store.Users),
		workspaces:    NewWorkspaceService(store.Tx, store.Workspaces, store.Members, store.Channels, authority, cascade),
		channels:      NewChannelService(store.Channels, authority, cascade),
		members:       NewMemberService(store.Members, store.Users, authority, cascade),
		conversations: NewConversationService(store.Conversations, store.Members, authority),
		messages:      NewMessageService(store.Messages, store.Members, store.Users, store.Channels, store.Conversations, store.Reactions, authority, cascade, uploads),
		reactions:     NewReactionService(store.Reactions, store.Messages, store.Conversations, authority),
		uploads:       uploads,
	}
}

var ctx = context.Background()
