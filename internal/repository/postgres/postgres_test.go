package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/dafibh/huddle/huddle-backend/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// newTestPool starts a throwaway Postgres, applies the schema and returns a pool
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("huddle"),
		tcpostgres.WithUsername("huddle"),
		tcpostgres.WithPassword("huddle"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	// running it twice must be harmless
	require.NoError(t, Migrate(ctx, pool))
	return pool
}

type fixture struct {
	users         *UserRepository
	workspaces    *WorkspaceRepository
	members       *MemberRepository
	channels      *ChannelRepository
	conversations *ConversationRepository
	messages      *MessageRepository
	reactions     *ReactionRepository
	tx            *TxManager
}

func newFixture(pool *pgxpool.Pool) *fixture {
	return &fixture{
		users:         NewUserRepository(pool),
		workspaces:    NewWorkspaceRepository(pool),
		members:       NewMemberRepository(pool),
		channels:      NewChannelRepository(pool),
		conversations: NewConversationRepository(pool),
		messages:      NewMessageRepository(pool),
		reactions:     NewReactionRepository(pool),
		tx:            NewTxManager(pool),
	}
}

func (f *fixture) user(t *testing.T, subject string) *domain.User {
	t.Helper()
	u, err := f.users.CreateOrGetBySubject(context.Background(), subject, subject+"@example.com", nil, nil)
	require.NoError(t, err)
	return u
}

func (f *fixture) workspace(t *testing.T, owner *domain.User) (*domain.Workspace, *domain.Member, *domain.Channel) {
	t.Helper()
	ctx := context.Background()
	ws, err := f.workspaces.Create(ctx, &domain.Workspace{UserID: owner.ID, Name: "Acme", JoinCode: "abc123"})
	require.NoError(t, err)
	admin, err := f.members.Create(ctx, &domain.Member{UserID: owner.ID, WorkspaceID: ws.ID, Role: domain.RoleAdmin})
	require.NoError(t, err)
	ch, err := f.channels.Create(ctx, &domain.Channel{WorkspaceID: ws.ID, Name: domain.DefaultChannelName})
	require.NoError(t, err)
	return ws, admin, ch
}

func (f *fixture) member(t *testing.T, ws *domain.Workspace, subject string) *domain.Member {
	t.Helper()
	m, err := f.members.Create(context.Background(), &domain.Member{UserID: f.user(t, subject).ID, WorkspaceID: ws.ID, Role: domain.RoleMember})
	require.NoError(t, err)
	return m
}

func (f *fixture) message(t *testing.T, msg *domain.Message) *domain.Message {
	t.Helper()
	created, err := f.messages.Create(context.Background(), msg)
	require.NoError(t, err)
	return created
}

func (f *fixture) react(t *testing.T, msg *domain.Message, member *domain.Member, value string) {
	t.Helper()
	_, err := f.reactions.Create(context.Background(), &domain.Reaction{WorkspaceID: msg.WorkspaceID, MessageID: msg.ID, MemberID: member.ID, Value: value})
	require.NoError(t, err)
}

func (f *fixture) conversation(t *testing.T, a, b *domain.Member) *domain.Conversation {
	t.Helper()
	conv, err := f.conversations.Create(context.Background(), &domain.Conversation{WorkspaceID: a.WorkspaceID, MemberOneID: a.ID, MemberTwoID: b.ID})
	require.NoError(t, err)
	return conv
}

func (f *fixture) cascade() *service.Cascade {
	return service.NewCascade(f.tx, f.workspaces, f.members, f.channels, f.conversations, f.messages, f.reactions)
}

// countRows runs a SELECT count(*) query with a single id argument
func countRows(t *testing.T, pool *pgxpool.Pool, query string, id uuid.UUID) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), query, id).Scan(&n))
	return n
}

func TestPostgresRepositories(t *testing.T) {
	pool := newTestPool(t)
	f := newFixture(pool)
	ctx := context.Background()

	t.Run("users are upserted by subject", func(t *testing.T) {
		name := "Ada"
		first, err := f.users.CreateOrGetBySubject(ctx, "auth0|ada", "ada@example.com", nil, nil)
		require.NoError(t, err)
		second, err := f.users.CreateOrGetBySubject(ctx, "auth0|ada", "ada@example.com", &name, nil)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		require.NotNil(t, second.Name)
		assert.Equal(t, "Ada", *second.Name)

		_, err = f.users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("one member row per user and workspace", func(t *testing.T) {
		owner := f.user(t, "owner-members")
		ws, _, _ := f.workspace(t, owner)

		_, err := f.members.Create(ctx, &domain.Member{UserID: owner.ID, WorkspaceID: ws.ID, Role: domain.RoleMember})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)

		listed, err := f.workspaces.ListByUser(ctx, owner.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, ws.ID, listed[0].ID)
	})

	t.Run("conversation pair is unordered", func(t *testing.T) {
		owner := f.user(t, "owner-dm")
		ws, admin, _ := f.workspace(t, owner)
		bob, err := f.members.Create(ctx, &domain.Member{UserID: f.user(t, "bob-dm").ID, WorkspaceID: ws.ID, Role: domain.RoleMember})
		require.NoError(t, err)

		conv, err := f.conversations.Create(ctx, &domain.Conversation{WorkspaceID: ws.ID, MemberOneID: admin.ID, MemberTwoID: bob.ID})
		require.NoError(t, err)

		found, err := f.conversations.FindByMembers(ctx, ws.ID, bob.ID, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, conv.ID, found.ID)

		_, err = f.conversations.Create(ctx, &domain.Conversation{WorkspaceID: ws.ID, MemberOneID: bob.ID, MemberTwoID: admin.ID})
		assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	})

	t.Run("message pages walk newest first", func(t *testing.T) {
		owner := f.user(t, "owner-pages")
		ws, admin, general := f.workspace(t, owner)
		for i := 0; i < 7; i++ {
			_, err := f.messages.Create(ctx, &domain.Message{Body: "m", MemberID: admin.ID, WorkspaceID: ws.ID, ChannelID: &general.ID})
			require.NoError(t, err)
		}
		filter := domain.MessageFilter{ChannelID: &general.ID}

		all, err := f.messages.List(ctx, filter, nil, 100)
		require.NoError(t, err)
		require.Len(t, all, 7)

		var walked []uuid.UUID
		var after *domain.Cursor
		for {
			page, err := f.messages.List(ctx, filter, after, 3)
			require.NoError(t, err)
			for _, m := range page {
				walked = append(walked, m.ID)
			}
			if len(page) < 3 {
				break
			}
			last := page[len(page)-1]
			after = &domain.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
		}

		want := make([]uuid.UUID, 0, len(all))
		for _, m := range all {
			want = append(want, m.ID)
		}
		assert.Equal(t, want, walked)
	})

	t.Run("thread stats and reply survival", func(t *testing.T) {
		owner := f.user(t, "owner-thread")
		ws, admin, general := f.workspace(t, owner)
		parent, err := f.messages.Create(ctx, &domain.Message{Body: "parent", MemberID: admin.ID, WorkspaceID: ws.ID, ChannelID: &general.ID})
		require.NoError(t, err)

		stats, err := f.messages.GetThreadStats(ctx, parent.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, stats.Count)
		assert.Nil(t, stats.LastReply)

		var last *domain.Message
		for i := 0; i < 3; i++ {
			last, err = f.messages.Create(ctx, &domain.Message{Body: "reply", MemberID: admin.ID, WorkspaceID: ws.ID, ChannelID: &general.ID, ParentMessageID: &parent.ID})
			require.NoError(t, err)
		}

		stats, err = f.messages.GetThreadStats(ctx, parent.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Count)
		require.NotNil(t, stats.LastReply)
		assert.Equal(t, last.ID, stats.LastReply.ID)

		require.NoError(t, f.messages.Delete(ctx, parent.ID))
		replies, err := f.messages.List(ctx, domain.MessageFilter{ChannelID: &general.ID, ParentMessageID: &parent.ID}, nil, 10)
		require.NoError(t, err)
		assert.Len(t, replies, 3)
	})

	t.Run("channel delete scopes reactions and messages", func(t *testing.T) {
		owner := f.user(t, "owner-cascade")
		ws, admin, general := f.workspace(t, owner)
		other, err := f.channels.Create(ctx, &domain.Channel{WorkspaceID: ws.ID, Name: "random"})
		require.NoError(t, err)

		doomed, err := f.messages.Create(ctx, &domain.Message{Body: "bye", MemberID: admin.ID, WorkspaceID: ws.ID, ChannelID: &other.ID})
		require.NoError(t, err)
		kept, err := f.messages.Create(ctx, &domain.Message{Body: "hi", MemberID: admin.ID, WorkspaceID: ws.ID, ChannelID: &general.ID})
		require.NoError(t, err)
		for _, m := range []*domain.Message{doomed, kept} {
			_, err := f.reactions.Create(ctx, &domain.Reaction{WorkspaceID: ws.ID, MessageID: m.ID, MemberID: admin.ID, Value: "👍"})
			require.NoError(t, err)
		}

		n, err := f.reactions.DeleteByChannel(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		n, err = f.messages.DeleteByChannel(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		require.NoError(t, f.channels.Delete(ctx, other.ID))

		left, err := f.reactions.ListByMessage(ctx, kept.ID)
		require.NoError(t, err)
		assert.Len(t, left, 1)
		_, err = f.messages.GetByID(ctx, doomed.ID)
		assert.ErrorIs(t, err, domain.ErrMessageNotFound)
	})

	t.Run("member cascade clears every row that references the member", func(t *testing.T) {
		owner := f.user(t, "owner-member-cascade")
		ws, admin, general := f.workspace(t, owner)
		bob := f.member(t, ws, "bob-member-cascade")
		carol := f.member(t, ws, "carol-member-cascade")

		bobPost := f.message(t, &domain.Message{Body: "from bob", MemberID: bob.ID, WorkspaceID: ws.ID, ChannelID: &general.ID})
		f.react(t, bobPost, admin, "👍")
		carolReply := f.message(t, &domain.Message{Body: "reply", MemberID: carol.ID, WorkspaceID: ws.ID, ChannelID: &general.ID, ParentMessageID: &bobPost.ID})
		adminPost := f.message(t, &domain.Message{Body: "from admin", MemberID: admin.ID, WorkspaceID: ws.ID, ChannelID: &general.ID})
		f.react(t, adminPost, bob, "🎉")
		f.react(t, adminPost, carol, "🎉")

		bobCarol := f.conversation(t, bob, carol)
		carolDM := f.message(t, &domain.Message{Body: "dm from carol", MemberID: carol.ID, WorkspaceID: ws.ID, ConversationID: &bobCarol.ID})
		f.react(t, carolDM, carol, "👀")
		f.react(t, carolDM, bob, "👀")
		f.message(t, &domain.Message{Body: "dm from bob", MemberID: bob.ID, WorkspaceID: ws.ID, ConversationID: &bobCarol.ID})

		adminBob := f.conversation(t, admin, bob)
		f.message(t, &domain.Message{Body: "dm from admin", MemberID: admin.ID, WorkspaceID: ws.ID, ConversationID: &adminBob.ID})
		adminCarol := f.conversation(t, admin, carol)
		keptDM := f.message(t, &domain.Message{Body: "kept", MemberID: carol.ID, WorkspaceID: ws.ID, ConversationID: &adminCarol.ID})

		require.NoError(t, f.cascade().Member(ctx, bob.ID))

		assert.Zero(t, countRows(t, pool, `SELECT count(*) FROM members WHERE id = $1`, bob.ID))
		assert.Zero(t, countRows(t, pool, `SELECT count(*) FROM messages WHERE member_id = $1`, bob.ID))
		assert.Zero(t, countRows(t, pool, `SELECT count(*) FROM reactions WHERE member_id = $1`, bob.ID))
		assert.Zero(t, countRows(t, pool, `SELECT count(*) FROM conversations WHERE member_one_id = $1 OR member_two_id = $1`, bob.ID))
		for _, conv := range []*domain.Conversation{bobCarol, adminBob} {
			assert.Zero(t, countRows(t, pool, `SELECT count(*) FROM messages WHERE conversation_id = $1`, conv.ID))
		}
		for _, msg := range []*domain.Message{bobPost, carolDM} {
			assert.Zero(t, countRows(t, pool, `SELECT count(*) FROM reactions WHERE message_id = $1`, msg.ID))
		}

		// rows that never referenced bob survive
		assert.Equal(t, 1, countRows(t, pool, `SELECT count(*) FROM reactions WHERE message_id = $1`, adminPost.ID))
		for _, msg := range []*domain.Message{carolReply, adminPost, keptDM} {
			_, err := f.messages.GetByID(ctx, msg.ID)
			assert.NoError(t, err)
		}
		_, err := f.conversations.GetByID(ctx, adminCarol.ID)
		assert.NoError(t, err)
		_, err = f.members.GetByID(ctx, carol.ID)
		assert.NoError(t, err)
	})

	t.Run("workspace cascade clears every table for the workspace", func(t *testing.T) {
		owner := f.user(t, "owner-workspace-cascade")
		ws, admin, general := f.workspace(t, owner)
		bob := f.member(t, ws, "bob-workspace-cascade")
		random, err := f.channels.Create(ctx, &domain.Channel{WorkspaceID: ws.ID, Name: "random"})
		require.NoError(t, err)

		post := f.message(t, &domain.Message{Body: "hello", MemberID: admin.ID, WorkspaceID: ws.ID, ChannelID: &general.ID})
		f.react(t, post, bob, "👍")
		reply := f.message(t, &domain.Message{Body: "reply", MemberID: bob.ID, WorkspaceID: ws.ID, ChannelID: &general.ID, ParentMessageID: &post.ID})
		f.react(t, reply, admin, "❤️")
		f.message(t, &domain.Message{Body: "elsewhere", MemberID: bob.ID, WorkspaceID: ws.ID, ChannelID: &random.ID})
		conv := f.conversation(t, admin, bob)
		dm := f.message(t, &domain.Message{Body: "dm", MemberID: bob.ID, WorkspaceID: ws.ID, ConversationID: &conv.ID})
		f.react(t, dm, admin, "👀")

		otherOwner := f.user(t, "owner-workspace-survivor")
		survivor, survivorAdmin, survivorGeneral := f.workspace(t, otherOwner)
		survivorPost := f.message(t, &domain.Message{Body: "still here", MemberID: survivorAdmin.ID, WorkspaceID: survivor.ID, ChannelID: &survivorGeneral.ID})
		f.react(t, survivorPost, survivorAdmin, "👍")

		require.NoError(t, f.cascade().Workspace(ctx, ws.ID))

		for _, table := range []string{"reactions", "messages", "conversations", "channels", "members"} {
			assert.Zero(t, countRows(t, pool, `SELECT count(*) FROM `+table+` WHERE workspace_id = $1`, ws.ID), table)
		}
		assert.Zero(t, countRows(t, pool, `SELECT count(*) FROM workspaces WHERE id = $1`, ws.ID))

		for _, table := range []string{"reactions", "messages", "channels", "members"} {
			assert.Equal(t, 1, countRows(t, pool, `SELECT count(*) FROM `+table+` WHERE workspace_id = $1`, survivor.ID), table)
		}
		_, err = f.workspaces.GetByID(ctx, survivor.ID)
		assert.NoError(t, err)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		owner := f.user(t, "owner-tx")
		boom := errors.New("boom")

		var created uuid.UUID
		err := f.tx.WithinTx(ctx, func(ctx context.Context) error {
			ws, err := f.workspaces.Create(ctx, &domain.Workspace{UserID: owner.ID, Name: "Doomed", JoinCode: "zzz999"})
			if err != nil {
				return err
			}
			created = ws.ID
			return boom
		})
		require.ErrorIs(t, err, boom)
		require.NotEqual(t, uuid.Nil, created)

		_, err = f.workspaces.GetByID(ctx, created)
		assert.ErrorIs(t, err, domain.ErrWorkspaceNotFound)
	})
}
