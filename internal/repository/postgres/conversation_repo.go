package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const conversationColumns = `id, workspace_id, member_one_id, member_two_id, created_at`

// ConversationRepository implements domain.ConversationRepository using PostgreSQL
type ConversationRepository struct {
	pool *pgxpool.Pool
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(pool *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{pool: pool}
}

// GetByID retrieves a conversation by its ID
func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id)
	c, err := scanConversation(row)
	if err != nil {
		return nil, notFound(err, domain.ErrConversationNotFound)
	}
	return c, nil
}

// FindByMembers looks up the conversation between two members in either order
func (r *ConversationRepository) FindByMembers(ctx context.Context, workspaceID, memberA, memberB uuid.UUID) (*domain.Conversation, error) {
	query := `
		SELECT ` + conversationColumns + `
		FROM conversations
		WHERE workspace_id = $1
		  AND ((member_one_id = $2 AND member_two_id = $3)
		    OR (member_one_id = $3 AND member_two_id = $2))
		LIMIT 1`

	c, err := scanConversation(conn(ctx, r.pool).QueryRow(ctx, query, workspaceID, memberA, memberB))
	if err != nil {
		return nil, notFound(err, domain.ErrConversationNotFound)
	}
	return c, nil
}

// Create inserts a conversation. An existing pair yields ErrAlreadyExists.
func (r *ConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error) {
	query := `
		INSERT INTO conversations (workspace_id, member_one_id, member_two_id)
		VALUES ($1, $2, $3)
		RETURNING ` + conversationColumns

	c, err := scanConversation(conn(ctx, r.pool).QueryRow(ctx, query,
		conversation.WorkspaceID, conversation.MemberOneID, conversation.MemberTwoID))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert conversation: %w", err)
	}
	return c, nil
}

// DeleteByMember removes every conversation the member is part of. Messages
// in those conversations go with them through ON DELETE CASCADE.
func (r *ConversationRepository) DeleteByMember(ctx context.Context, memberID uuid.UUID) (int64, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM conversations WHERE member_one_id = $1 OR member_two_id = $1`, memberID)
	if err != nil {
		return 0, fmt.Errorf("delete member conversations: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteByWorkspace removes every conversation of the workspace
func (r *ConversationRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM conversations WHERE workspace_id = $1`, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("delete workspace conversations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := row.Scan(&c.ID, &c.WorkspaceID, &c.MemberOneID, &c.MemberTwoID, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
