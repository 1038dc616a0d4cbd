package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
)

// Clock hands out strictly increasing timestamps so ordering in tests is stable
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a Clock starting at a fixed instant
func NewClock() *Clock {
	return &Clock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

// Next advances the clock by one millisecond and returns the new time
func (c *Clock) Next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

// MockTransactor runs fn directly. Mock repositories have no rollback.
type MockTransactor struct {
	Calls int
	Err   error
}

// WithinTx calls fn with the same context
func (m *MockTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	mu        sync.RWMutex
	clock     *Clock
	Users     map[uuid.UUID]*domain.User
	BySubject map[string]*domain.User
	CreateFn  func(subject, email string, name, image *string) (*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository(clock *Clock) *MockUserRepository {
	return &MockUserRepository{
		clock:     clock,
		Users:     make(map[uuid.UUID]*domain.User),
		BySubject: make(map[string]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if user, ok := m.Users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetBySubject retrieves a user by token subject
func (m *MockUserRepository) GetBySubject(_ context.Context, subject string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if user, ok := m.BySubject[subject]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetBySubject creates or refreshes a user by token subject
func (m *MockUserRepository) CreateOrGetBySubject(_ context.Context, subject, email string, name, image *string) (*domain.User, error) {
	if m.CreateFn != nil {
		return m.CreateFn(subject, email, name, image)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.BySubject[subject]; ok {
		if email != "" {
			user.Email = email
		}
		if name != nil {
			user.Name = name
		}
		if image != nil {
			user.Image = image
		}
		return user, nil
	}
	now := m.clock.Next()
	user := &domain.User{
		ID:        uuid.New(),
		Subject:   subject,
		Email:     email,
		Name:      name,
		Image:     image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.Users[user.ID] = user
	m.BySubject[subject] = user
	return user, nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Subject == "" {
		user.Subject = "test|" + user.ID.String()
	}
	m.Users[user.ID] = user
	m.BySubject[user.Subject] = user
	return user
}

// RemoveUser deletes a user (helper for tests)
func (m *MockUserRepository) RemoveUser(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.Users[id]; ok {
		delete(m.BySubject, user.Subject)
		delete(m.Users, id)
	}
}

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	mu         sync.RWMutex
	clock      *Clock
	members    *MockMemberRepository
	Workspaces map[uuid.UUID]*domain.Workspace
	CreateFn   func(workspace *domain.Workspace) (*domain.Workspace, error)
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository. ListByUser
// reads memberships from members.
func NewMockWorkspaceRepository(clock *Clock, members *MockMemberRepository) *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		clock:      clock,
		members:    members,
		Workspaces: make(map[uuid.UUID]*domain.Workspace),
	}
}

// GetByID retrieves a workspace by ID
func (m *MockWorkspaceRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Workspace, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ws, ok := m.Workspaces[id]; ok {
		return ws, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// ListByUser returns the workspaces a user is a member of
func (m *MockWorkspaceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Workspace, error) {
	memberships, err := m.members.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Workspace, 0, len(memberships))
	for _, mb := range memberships {
		if ws, ok := m.Workspaces[mb.WorkspaceID]; ok {
			result = append(result, ws)
		}
	}
	return result, nil
}

// Create creates a new workspace
func (m *MockWorkspaceRepository) Create(_ context.Context, workspace *domain.Workspace) (*domain.Workspace, error) {
	if m.CreateFn != nil {
		return m.CreateFn(workspace)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	workspace.ID = uuid.New()
	workspace.CreatedAt = m.clock.Next()
	m.Workspaces[workspace.ID] = workspace
	return workspace, nil
}

// UpdateName renames a workspace
func (m *MockWorkspaceRepository) UpdateName(_ context.Context, id uuid.UUID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.Workspaces[id]
	if !ok {
		return domain.ErrWorkspaceNotFound
	}
	ws.Name = name
	return nil
}

// UpdateJoinCode replaces a workspace's join code
func (m *MockWorkspaceRepository) UpdateJoinCode(_ context.Context, id uuid.UUID, joinCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.Workspaces[id]
	if !ok {
		return domain.ErrWorkspaceNotFound
	}
	ws.JoinCode = joinCode
	return nil
}

// Delete removes a workspace
func (m *MockWorkspaceRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Workspaces[id]; !ok {
		return domain.ErrWorkspaceNotFound
	}
	delete(m.Workspaces, id)
	return nil
}

// MockMemberRepository is a mock implementation of domain.MemberRepository
type MockMemberRepository struct {
	mu       sync.RWMutex
	clock    *Clock
	Members  map[uuid.UUID]*domain.Member
	CreateFn func(member *domain.Member) (*domain.Member, error)
}

// NewMockMemberRepository creates a new MockMemberRepository
func NewMockMemberRepository(clock *Clock) *MockMemberRepository {
	return &MockMemberRepository{
		clock:   clock,
		Members: make(map[uuid.UUID]*domain.Member),
	}
}

// GetByID retrieves a member by ID
func (m *MockMemberRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if member, ok := m.Members[id]; ok {
		return member, nil
	}
	return nil, domain.ErrMemberNotFound
}

// GetByWorkspaceAndUser retrieves a user's member record in a workspace
func (m *MockMemberRepository) GetByWorkspaceAndUser(_ context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, member := range m.Members {
		if member.WorkspaceID == workspaceID && member.UserID == userID {
			return member, nil
		}
	}
	return nil, domain.ErrMemberNotFound
}

// ListByWorkspace returns a workspace's members, oldest first
func (m *MockMemberRepository) ListByWorkspace(_ context.Context, workspaceID uuid.UUID) ([]*domain.Member, error) {
	return m.filter(func(mb *domain.Member) bool { return mb.WorkspaceID == workspaceID }), nil
}

// ListByUser returns a user's memberships, oldest first
func (m *MockMemberRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]*domain.Member, error) {
	return m.filter(func(mb *domain.Member) bool { return mb.UserID == userID }), nil
}

func (m *MockMemberRepository) filter(keep func(*domain.Member) bool) []*domain.Member {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Member, 0)
	for _, member := range m.Members {
		if keep(member) {
			result = append(result, member)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result
}

// Create creates a new member, enforcing one member per (workspace, user)
func (m *MockMemberRepository) Create(_ context.Context, member *domain.Member) (*domain.Member, error) {
	if m.CreateFn != nil {
		return m.CreateFn(member)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.Members {
		if existing.WorkspaceID == member.WorkspaceID && existing.UserID == member.UserID {
			return nil, domain.ErrAlreadyExists
		}
	}
	member.ID = uuid.New()
	member.CreatedAt = m.clock.Next()
	m.Members[member.ID] = member
	return member, nil
}

// UpdateRole changes a member's role
func (m *MockMemberRepository) UpdateRole(_ context.Context, id uuid.UUID, role domain.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	member, ok := m.Members[id]
	if !ok {
		return domain.ErrMemberNotFound
	}
	member.Role = role
	return nil
}

// Delete removes a member
func (m *MockMemberRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Members[id]; !ok {
		return domain.ErrMemberNotFound
	}
	delete(m.Members, id)
	return nil
}

// DeleteByWorkspace removes every member of a workspace
func (m *MockMemberRepository) DeleteByWorkspace(_ context.Context, workspaceID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, member := range m.Members {
		if member.WorkspaceID == workspaceID {
			delete(m.Members, id)
			n++
		}
	}
	return n, nil
}

// AddMember adds a member to the mock repository (helper for tests)
func (m *MockMemberRepository) AddMember(workspaceID, userID uuid.UUID, role domain.Role) *domain.Member {
	m.mu.Lock()
	defer m.mu.Unlock()
	member := &domain.Member{
		ID:          uuid.New(),
		UserID:      userID,
		WorkspaceID: workspaceID,
		Role:        role,
		CreatedAt:   m.clock.Next(),
	}
	m.Members[member.ID] = member
	return member
}

// MockChannelRepository is a mock implementation of domain.ChannelRepository
type MockChannelRepository struct {
	mu       sync.RWMutex
	clock    *Clock
	Channels map[uuid.UUID]*domain.Channel
}

// NewMockChannelRepository creates a new MockChannelRepository
func NewMockChannelRepository(clock *Clock) *MockChannelRepository {
	return &MockChannelRepository{
		clock:    clock,
		Channels: make(map[uuid.UUID]*domain.Channel),
	}
}

// GetByID retrieves a channel by ID
func (m *MockChannelRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if ch, ok := m.Channels[id]; ok {
		return ch, nil
	}
	return nil, domain.ErrChannelNotFound
}

// ListByWorkspace returns a workspace's channels, oldest first
func (m *MockChannelRepository) ListByWorkspace(_ context.Context, workspaceID uuid.UUID) ([]*domain.Channel, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Channel, 0)
	for _, ch := range m.Channels {
		if ch.WorkspaceID == workspaceID {
			result = append(result, ch)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// Create creates a new channel
func (m *MockChannelRepository) Create(_ context.Context, channel *domain.Channel) (*domain.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	channel.ID = uuid.New()
	channel.CreatedAt = m.clock.Next()
	m.Channels[channel.ID] = channel
	return channel, nil
}

// UpdateName renames a channel
func (m *MockChannelRepository) UpdateName(_ context.Context, id uuid.UUID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.Channels[id]
	if !ok {
		return domain.ErrChannelNotFound
	}
	ch.Name = name
	return nil
}

// Delete removes a channel
func (m *MockChannelRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Channels[id]; !ok {
		return domain.ErrChannelNotFound
	}
	delete(m.Channels, id)
	return nil
}

// DeleteByWorkspace removes every channel of a workspace
func (m *MockChannelRepository) DeleteByWorkspace(_ context.Context, workspaceID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, ch := range m.Channels {
		if ch.WorkspaceID == workspaceID {
			delete(m.Channels, id)
			n++
		}
	}
	return n, nil
}

// AddChannel adds a channel to the mock repository (helper for tests)
func (m *MockChannelRepository) AddChannel(workspaceID uuid.UUID, name string) *domain.Channel {
	ch, _ := m.Create(context.Background(), &domain.Channel{WorkspaceID: workspaceID, Name: name})
	return ch
}

// MockConversationRepository is a mock implementation of domain.ConversationRepository.
// Deleting a conversation also deletes its messages, like the foreign key does.
type MockConversationRepository struct {
	mu            sync.RWMutex
	clock         *Clock
	messages      *MockMessageRepository
	Conversations map[uuid.UUID]*domain.Conversation
	CreateFn      func(conversation *domain.Conversation) (*domain.Conversation, error)
}

// NewMockConversationRepository creates a new MockConversationRepository
func NewMockConversationRepository(clock *Clock, messages *MockMessageRepository) *MockConversationRepository {
	return &MockConversationRepository{
		clock:         clock,
		messages:      messages,
		Conversations: make(map[uuid.UUID]*domain.Conversation),
	}
}

// GetByID retrieves a conversation by ID
func (m *MockConversationRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.Conversations[id]; ok {
		return c, nil
	}
	return nil, domain.ErrConversationNotFound
}

// FindByMembers matches the pair in either order
func (m *MockConversationRepository) FindByMembers(_ context.Context, workspaceID, memberA, memberB uuid.UUID) (*domain.Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c := m.findLocked(workspaceID, memberA, memberB); c != nil {
		return c, nil
	}
	return nil, domain.ErrConversationNotFound
}

func (m *MockConversationRepository) findLocked(workspaceID, a, b uuid.UUID) *domain.Conversation {
	for _, c := range m.Conversations {
		if c.WorkspaceID != workspaceID {
			continue
		}
		if (c.MemberOneID == a && c.MemberTwoID == b) || (c.MemberOneID == b && c.MemberTwoID == a) {
			return c
		}
	}
	return nil
}

// Create creates a new conversation, enforcing one per unordered pair
func (m *MockConversationRepository) Create(_ context.Context, conversation *domain.Conversation) (*domain.Conversation, error) {
	if m.CreateFn != nil {
		return m.CreateFn(conversation)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findLocked(conversation.WorkspaceID, conversation.MemberOneID, conversation.MemberTwoID) != nil {
		return nil, domain.ErrAlreadyExists
	}
	conversation.ID = uuid.New()
	conversation.CreatedAt = m.clock.Next()
	m.Conversations[conversation.ID] = conversation
	return conversation, nil
}

// DeleteByMember removes every conversation the member takes part in
func (m *MockConversationRepository) DeleteByMember(_ context.Context, memberID uuid.UUID) (int64, error) {
	return m.deleteWhere(func(c *domain.Conversation) bool { return c.Involves(memberID) }), nil
}

// DeleteByWorkspace removes every conversation of a workspace
func (m *MockConversationRepository) DeleteByWorkspace(_ context.Context, workspaceID uuid.UUID) (int64, error) {
	return m.deleteWhere(func(c *domain.Conversation) bool { return c.WorkspaceID == workspaceID }), nil
}

func (m *MockConversationRepository) deleteWhere(match func(*domain.Conversation) bool) int64 {
	m.mu.Lock()
	var removed []uuid.UUID
	for id, c := range m.Conversations {
		if match(c) {
			delete(m.Conversations, id)
			removed = append(removed, id)
		}
	}
	m.mu.Unlock()

	if m.messages != nil {
		for _, id := range removed {
			m.messages.deleteWhere(func(msg *domain.Message) bool {
				return msg.ConversationID != nil && *msg.ConversationID == id
			})
		}
	}
	return int64(len(removed))
}

// MockMessageRepository is a mock implementation of domain.MessageRepository.
// Deleting a message also deletes its reactions, like the foreign key does.
type MockMessageRepository struct {
	mu        sync.RWMutex
	clock     *Clock
	reactions *MockReactionRepository
	Messages  map[uuid.UUID]*domain.Message
	ListFn    func(filter domain.MessageFilter, after *domain.Cursor, limit int) ([]*domain.Message, error)
}

// NewMockMessageRepository creates a new MockMessageRepository
func NewMockMessageRepository(clock *Clock) *MockMessageRepository {
	return &MockMessageRepository{
		clock:    clock,
		Messages: make(map[uuid.UUID]*domain.Message),
	}
}

// GetByID retrieves a message by ID
func (m *MockMessageRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if msg, ok := m.Messages[id]; ok {
		return msg, nil
	}
	return nil, domain.ErrMessageNotFound
}

// Create creates a new message
func (m *MockMessageRepository) Create(_ context.Context, message *domain.Message) (*domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	message.ID = uuid.New()
	message.CreatedAt = m.clock.Next()
	m.Messages[message.ID] = message
	return message, nil
}

// UpdateBody replaces a message's body
func (m *MockMessageRepository) UpdateBody(_ context.Context, id uuid.UUID, body string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.Messages[id]
	if !ok {
		return domain.ErrMessageNotFound
	}
	msg.Body = body
	msg.UpdatedAt = &updatedAt
	return nil
}

// Delete removes a message
func (m *MockMessageRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.RLock()
	_, ok := m.Messages[id]
	m.mu.RUnlock()
	if !ok {
		return domain.ErrMessageNotFound
	}
	m.deleteWhere(func(msg *domain.Message) bool { return msg.ID == id })
	return nil
}

// List returns matching messages newest first, strictly older than after
func (m *MockMessageRepository) List(_ context.Context, filter domain.MessageFilter, after *domain.Cursor, limit int) ([]*domain.Message, error) {
	if m.ListFn != nil {
		return m.ListFn(filter, after, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Message, 0)
	for _, msg := range m.Messages {
		if !sameID(msg.ChannelID, filter.ChannelID) ||
			!sameID(msg.ConversationID, filter.ConversationID) ||
			!sameID(msg.ParentMessageID, filter.ParentMessageID) {
			continue
		}
		if after != nil && !olderThan(msg, after) {
			continue
		}
		result = append(result, msg)
	}
	sortNewestFirst(result)
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// GetThreadStats counts the direct replies to a message and returns the newest
func (m *MockMessageRepository) GetThreadStats(_ context.Context, parentID uuid.UUID) (*domain.ThreadStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	replies := make([]*domain.Message, 0)
	for _, msg := range m.Messages {
		if msg.ParentMessageID != nil && *msg.ParentMessageID == parentID {
			replies = append(replies, msg)
		}
	}
	stats := &domain.ThreadStats{Count: len(replies)}
	if len(replies) > 0 {
		sortNewestFirst(replies)
		stats.LastReply = replies[0]
	}
	return stats, nil
}

// DeleteByChannel removes every message in a channel
func (m *MockMessageRepository) DeleteByChannel(_ context.Context, channelID uuid.UUID) (int64, error) {
	return m.deleteWhere(func(msg *domain.Message) bool {
		return msg.ChannelID != nil && *msg.ChannelID == channelID
	}), nil
}

// DeleteByMember removes every message a member wrote
func (m *MockMessageRepository) DeleteByMember(_ context.Context, memberID uuid.UUID) (int64, error) {
	return m.deleteWhere(func(msg *domain.Message) bool { return msg.MemberID == memberID }), nil
}

// DeleteByWorkspace removes every message of a workspace
func (m *MockMessageRepository) DeleteByWorkspace(_ context.Context, workspaceID uuid.UUID) (int64, error) {
	return m.deleteWhere(func(msg *domain.Message) bool { return msg.WorkspaceID == workspaceID }), nil
}

func (m *MockMessageRepository) deleteWhere(match func(*domain.Message) bool) int64 {
	m.mu.Lock()
	var removed []uuid.UUID
	for id, msg := range m.Messages {
		if match(msg) {
			delete(m.Messages, id)
			removed = append(removed, id)
		}
	}
	m.mu.Unlock()

	if m.reactions != nil {
		for _, id := range removed {
			m.reactions.deleteWhere(func(r *domain.Reaction) bool { return r.MessageID == id })
		}
	}
	return int64(len(removed))
}

// AddMessage stores a message as-is with the next clock time (helper for tests)
func (m *MockMessageRepository) AddMessage(msg *domain.Message) *domain.Message {
	created, _ := m.Create(context.Background(), msg)
	return created
}

func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func olderThan(msg *domain.Message, c *domain.Cursor) bool {
	if msg.CreatedAt.Equal(c.CreatedAt) {
		return strings.Compare(msg.ID.String(), c.ID.String()) < 0
	}
	return msg.CreatedAt.Before(c.CreatedAt)
}

func sortNewestFirst(messages []*domain.Message) {
	sort.Slice(messages, func(i, j int) bool {
		if messages[i].CreatedAt.Equal(messages[j].CreatedAt) {
			return strings.Compare(messages[i].ID.String(), messages[j].ID.String()) > 0
		}
		return messages[i].CreatedAt.After(messages[j].CreatedAt)
	})
}

// MockReactionRepository is a mock implementation of domain.ReactionRepository
type MockReactionRepository struct {
	mu        sync.RWMutex
	clock     *Clock
	messages  *MockMessageRepository
	Reactions map[uuid.UUID]*domain.Reaction
	CreateFn  func(reaction *domain.Reaction) (*domain.Reaction, error)
}

// NewMockReactionRepository creates a new MockReactionRepository. Channel
// deletes look up message locations in messages.
func NewMockReactionRepository(clock *Clock, messages *MockMessageRepository) *MockReactionRepository {
	return &MockReactionRepository{
		clock:     clock,
		messages:  messages,
		Reactions: make(map[uuid.UUID]*domain.Reaction),
	}
}

// Find retrieves the reaction matching (message, member, value)
func (m *MockReactionRepository) Find(_ context.Context, messageID, memberID uuid.UUID, value string) (*domain.Reaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r := m.findLocked(messageID, memberID, value); r != nil {
		return r, nil
	}
	return nil, domain.ErrReactionNotFound
}

func (m *MockReactionRepository) findLocked(messageID, memberID uuid.UUID, value string) *domain.Reaction {
	for _, r := range m.Reactions {
		if r.MessageID == messageID && r.MemberID == memberID && r.Value == value {
			return r
		}
	}
	return nil
}

// ListByMessage returns a message's reactions, oldest first
func (m *MockReactionRepository) ListByMessage(_ context.Context, messageID uuid.UUID) ([]*domain.Reaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Reaction, 0)
	for _, r := range m.Reactions {
		if r.MessageID == messageID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// Create creates a new reaction, enforcing one per (message, member, value)
func (m *MockReactionRepository) Create(_ context.Context, reaction *domain.Reaction) (*domain.Reaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(reaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findLocked(reaction.MessageID, reaction.MemberID, reaction.Value) != nil {
		return nil, domain.ErrAlreadyExists
	}
	reaction.ID = uuid.New()
	reaction.CreatedAt = m.clock.Next()
	m.Reactions[reaction.ID] = reaction
	return reaction, nil
}

// Delete removes a reaction
func (m *MockReactionRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Reactions[id]; !ok {
		return domain.ErrReactionNotFound
	}
	delete(m.Reactions, id)
	return nil
}

// DeleteByMessage removes every reaction on a message
func (m *MockReactionRepository) DeleteByMessage(_ context.Context, messageID uuid.UUID) (int64, error) {
	return m.deleteWhere(func(r *domain.Reaction) bool { return r.MessageID == messageID }), nil
}

// DeleteByChannel removes reactions on every message in a channel
func (m *MockReactionRepository) DeleteByChannel(ctx context.Context, channelID uuid.UUID) (int64, error) {
	if m.messages == nil {
		return 0, fmt.Errorf("mock reaction repository has no message repository")
	}
	inChannel := make(map[uuid.UUID]bool)
	m.messages.mu.RLock()
	for id, msg := range m.messages.Messages {
		if msg.ChannelID != nil && *msg.ChannelID == channelID {
			inChannel[id] = true
		}
	}
	m.messages.mu.RUnlock()
	return m.deleteWhere(func(r *domain.Reaction) bool { return inChannel[r.MessageID] }), nil
}

// DeleteByMember removes every reaction a member made
func (m *MockReactionRepository) DeleteByMember(_ context.Context, memberID uuid.UUID) (int64, error) {
	return m.deleteWhere(func(r *domain.Reaction) bool { return r.MemberID == memberID }), nil
}

// DeleteByWorkspace removes every reaction of a workspace
func (m *MockReactionRepository) DeleteByWorkspace(_ context.Context, workspaceID uuid.UUID) (int64, error) {
	return m.deleteWhere(func(r *domain.Reaction) bool { return r.WorkspaceID == workspaceID }), nil
}

func (m *MockReactionRepository) deleteWhere(match func(*domain.Reaction) bool) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, r := range m.Reactions {
		if match(r) {
			delete(m.Reactions, id)
			n++
		}
	}
	return n
}

// AddReaction adds a reaction to the mock repository (helper for tests)
func (m *MockReactionRepository) AddReaction(workspaceID, messageID, memberID uuid.UUID, value string) *domain.Reaction {
	created, _ := m.Create(context.Background(), &domain.Reaction{
		WorkspaceID: workspaceID,
		MessageID:   messageID,
		MemberID:    memberID,
		Value:       value,
	})
	return created
}

// MockBlobStore is a mock implementation of storage.BlobStore
type MockBlobStore struct {
	mu        sync.Mutex
	BaseURL   string
	Uploads   map[string]string
	Deleted   []string
	GetURLErr error
	DeleteErr error
}

// NewMockBlobStore creates a new MockBlobStore
func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{
		BaseURL: "https://blobs.test",
		Uploads: make(map[string]string),
	}
}

// GenerateUploadURL records the key and returns a fake presigned URL
func (m *MockBlobStore) GenerateUploadURL(_ context.Context, objectKey, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads[objectKey] = contentType
	return m.BaseURL + "/" + objectKey + "?X-Amz-Signature=put", nil
}

// GetURL returns a fake presigned download URL
func (m *MockBlobStore) GetURL(_ context.Context, objectKey string) (string, error) {
	if m.GetURLErr != nil {
		return "", m.GetURLErr
	}
	return m.BaseURL + "/" + objectKey + "?X-Amz-Signature=get", nil
}

// Delete records the deleted key
func (m *MockBlobStore) Delete(_ context.Context, objectKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Deleted = append(m.Deleted, objectKey)
	return nil
}

// MockStore wires every mock repository together over one clock, with the
// same delete cascades the database foreign keys perform.
type MockStore struct {
	Clock         *Clock
	Tx            *MockTransactor
	Users         *MockUserRepository
	Workspaces    *MockWorkspaceRepository
	Members       *MockMemberRepository
	Channels      *MockChannelRepository
	Conversations *MockConversationRepository
	Messages      *MockMessageRepository
	Reactions     *MockReactionRepository
	Blobs         *MockBlobStore
}

// NewMockStore creates a MockStore
func NewMockStore() *MockStore {
	clock := NewClock()
	members := NewMockMemberRepository(clock)
	messages := NewMockMessageRepository(clock)
	reactions := NewMockReactionRepository(clock, messages)
	messages.reactions = reactions

	return &MockStore{
		Clock:         clock,
		Tx:            &MockTransactor{},
		Users:         NewMockUserRepository(clock),
		Workspaces:    NewMockWorkspaceRepository(clock, members),
		Members:       members,
		Channels:      NewMockChannelRepository(clock),
		Conversations: NewMockConversationRepository(clock, messages),
		Messages:      messages,
		Reactions:     reactions,
		Blobs:         NewMockBlobStore(),
	}
}

// SeedWorkspace creates a user, a workspace owned by it with an admin member,
// and a general channel (helper for tests)
func (s *MockStore) SeedWorkspace(name string) (*domain.Workspace, *domain.Member, *domain.Channel) {
	owner := s.AddUser(name + " owner")
	ws, _ := s.Workspaces.Create(context.Background(), &domain.Workspace{
		UserID:   owner.ID,
		Name:     name,
		JoinCode: "abc123",
	})
	admin := s.Members.AddMember(ws.ID, owner.ID, domain.RoleAdmin)
	general := s.Channels.AddChannel(ws.ID, domain.DefaultChannelName)
	return ws, admin, general
}

// AddUser creates a user with a display name (helper for tests)
func (s *MockStore) AddUser(name string) *domain.User {
	image := "https://img.test/" + strings.ReplaceAll(name, " ", "-") + ".png"
	return s.Users.AddUser(&domain.User{
		Email:     strings.ReplaceAll(name, " ", ".") + "@example.com",
		Name:      &name,
		Image:     &image,
		CreatedAt: s.Clock.Next(),
	})
}

// AddMember creates a user and makes it a member of the workspace (helper for tests)
func (s *MockStore) AddMember(workspaceID uuid.UUID, name string, role domain.Role) (*domain.User, *domain.Member) {
	user := s.AddUser(name)
	return user, s.Members.AddMember(workspaceID, user.ID, role)
}
