package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateReactions(t *testing.T) {
	u1, u2, u3 := uuid.New(), uuid.New(), uuid.New()
	msg := uuid.New()

	got := AggregateReactions([]*Reaction{
		{MessageID: msg, MemberID: u1, Value: "👍"},
		{MessageID: msg, MemberID: u2, Value: "👍"},
		{MessageID: msg, MemberID: u3, Value: "😀"},
	})

	assert.Equal(t, []ReactionSummary{
		{Value: "👍", Count: 2, MemberIDs: []uuid.UUID{u1, u2}},
		{Value: "😀", Count: 1, MemberIDs: []uuid.UUID{u3}},
	}, got)
}

func TestAggregateReactions_CountsDistinctMembers(t *testing.T) {
	u1 := uuid.New()

	got := AggregateReactions([]*Reaction{
		{MemberID: u1, Value: "🔥"},
		{MemberID: u1, Value: "🔥"},
	})

	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Count)
	assert.Equal(t, []uuid.UUID{u1}, got[0].MemberIDs)
}

func TestAggregateReactions_Empty(t *testing.T) {
	got := AggregateReactions(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNormalizeChannelName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"general", "general", false},
		{"  Product   Launch ", "product-launch", false},
		{"Q3\tPlanning\nNotes", "q3-planning-notes", false},
		{"ab", "", true},
		{"   ", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeChannelName(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidChannelName, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	long := make([]byte, MaxChannelNameLength+1)
	for i := range long {
		long[i] = 'x'
	}
	_, err := NormalizeChannelName(string(long))
	assert.ErrorIs(t, err, ErrInvalidChannelName)
}

func TestCursor_RoundTrip(t *testing.T) {
	c := Cursor{CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 6789, time.UTC), ID: uuid.New()}

	decoded, err := DecodeCursor(c.Encode())
	require.NoError(t, err)
	assert.True(t, c.CreatedAt.Equal(decoded.CreatedAt))
	assert.Equal(t, c.ID, decoded.ID)
}

func TestDecodeCursor_Invalid(t *testing.T) {
	decoded, err := DecodeCursor("")
	require.NoError(t, err)
	assert.Nil(t, decoded)

	for _, token := range []string{"!!", "bm9jb2xvbg", "MTIzOm5vdC1hLXV1aWQ", "YWJjOjEyMw"} {
		_, err := DecodeCursor(token)
		assert.ErrorIs(t, err, ErrInvalidCursor, token)
	}
}

func TestPaginationOpts_Limit(t *testing.T) {
	assert.Equal(t, DefaultPageSize, PaginationOpts{}.Limit())
	assert.Equal(t, 5, PaginationOpts{NumItems: 5}.Limit())
	assert.Equal(t, MaxPageSize, PaginationOpts{NumItems: 1000}.Limit())
}

func TestConversation_Involves(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	c := &Conversation{MemberOneID: a, MemberTwoID: b}
	assert.True(t, c.Involves(a))
	assert.True(t, c.Involves(b))
	assert.False(t, c.Involves(uuid.New()))
}

func TestRole_IsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleMember.IsValid())
	assert.False(t, Role("owner").IsValid())
}
