package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const messageColumns = `id, body, image, member_id, workspace_id, channel_id, conversation_id, parent_message_id, created_at, updated_at`

// MessageRepository implements domain.MessageRepository using PostgreSQL
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// GetByID retrieves a message by its ID
func (r *MessageRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+messageColumns+` FROM messages WHERE id = $1`, id)
	m, err := scanMessage(row)
	if err != nil {
		return nil, notFound(err, domain.ErrMessageNotFound)
	}
	return m, nil
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	query := `
		INSERT INTO messages (body, image, member_id, workspace_id, channel_id, conversation_id, parent_message_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + messageColumns

	m, err := scanMessage(conn(ctx, r.pool).QueryRow(ctx, query,
		message.Body,
		message.Image,
		message.MemberID,
		message.WorkspaceID,
		message.ChannelID,
		message.ConversationID,
		message.ParentMessageID,
	))
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return m, nil
}

// UpdateBody replaces the body and stamps updated_at
func (r *MessageRepository) UpdateBody(ctx context.Context, id uuid.UUID, body string, updatedAt time.Time) error {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE messages SET body = $2, updated_at = $3 WHERE id = $1`, id, body, updatedAt)
	if err != nil {
		return fmt.Errorf("update message: %w", err)
	}
	return requireAffected(tag, domain.ErrMessageNotFound)
}

// Delete removes one message. Its reactions go through ON DELETE CASCADE
// unless the caller already removed them.
func (r *MessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return requireAffected(tag, domain.ErrMessageNotFound)
}

// List returns one page of a scope, newest first.
//
// Each scope column is matched exactly: an unset filter field becomes
// "IS NULL" so channel roots never mix with their thread replies.
func (r *MessageRepository) List(ctx context.Context, filter domain.MessageFilter, after *domain.Cursor, limit int) ([]*domain.Message, error) {
	var (
		conds []string
		args  []any
	)
	scope := func(column string, value *uuid.UUID) {
		if value == nil {
			conds = append(conds, column+" IS NULL")
			return
		}
		args = append(args, *value)
		conds = append(conds, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	scope("channel_id", filter.ChannelID)
	scope("parent_message_id", filter.ParentMessageID)
	scope("conversation_id", filter.ConversationID)

	if after != nil {
		args = append(args, after.CreatedAt, after.ID)
		conds = append(conds, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT %s
		FROM messages
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d`, messageColumns, strings.Join(conds, " AND "), len(args))

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0, limit)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return messages, nil
}

// GetThreadStats counts the direct replies to parentID and returns the newest one
func (r *MessageRepository) GetThreadStats(ctx context.Context, parentID uuid.UUID) (*domain.ThreadStats, error) {
	query := `
		SELECT count(*) OVER (), ` + messageColumns + `
		FROM messages
		WHERE parent_message_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1`

	var (
		count int
		m     domain.Message
	)
	err := conn(ctx, r.pool).QueryRow(ctx, query, parentID).Scan(&count,
		&m.ID, &m.Body, &m.Image, &m.MemberID, &m.WorkspaceID,
		&m.ChannelID, &m.ConversationID, &m.ParentMessageID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &domain.ThreadStats{}, nil
		}
		return nil, fmt.Errorf("thread stats: %w", err)
	}
	return &domain.ThreadStats{Count: count, LastReply: &m}, nil
}

// DeleteByChannel removes every message in the channel, replies included
func (r *MessageRepository) DeleteByChannel(ctx context.Context, channelID uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, "channel_id", channelID)
}

// DeleteByMember removes every message the member authored
func (r *MessageRepository) DeleteByMember(ctx context.Context, memberID uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, "member_id", memberID)
}

// DeleteByWorkspace removes every message of the workspace
func (r *MessageRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	return r.deleteWhere(ctx, "workspace_id", workspaceID)
}

// deleteWhere is the bulk delete-by-foreign-key primitive. column is never user input.
func (r *MessageRepository) deleteWhere(ctx context.Context, column string, id uuid.UUID) (int64, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM messages WHERE `+column+` = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete messages by %s: %w", column, err)
	}
	return tag.RowsAffected(), nil
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var m domain.Message
	if err := row.Scan(&m.ID, &m.Body, &m.Image, &m.MemberID, &m.WorkspaceID,
		&m.ChannelID, &m.ConversationID, &m.ParentMessageID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
