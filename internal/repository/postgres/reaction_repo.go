package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const reactionColumns = `id, workspace_id, message_id, member_id, value, created_at`

// ReactionRepository implements domain.ReactionRepository using PostgreSQL
type ReactionRepository struct {
	pool *pgxpool.Pool
}

// NewReactionRepository creates a new ReactionRepository
func NewReactionRepository(pool *pgxpool.Pool) *ReactionRepository {
	return &ReactionRepository{pool: pool}
}

// Find looks up a member's reaction of a given value on a message
func (r *ReactionRepository) Find(ctx context.Context, messageID, memberID uuid.UUID, value string) (*domain.Reaction, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+reactionColumns+` FROM reactions WHERE message_id = $1 AND member_id = $2 AND value = $3`,
		messageID, memberID, value)
	rc, err := scanReaction(row)
	if err != nil {
		return nil, notFound(err, domain.ErrReactionNotFound)
	}
	return rc, nil
}

// ListByMessage returns a message's reactions in creation order
func (r *ReactionRepository) ListByMessage(ctx context.Context, messageID uuid.UUID) ([]*domain.Reaction, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+reactionColumns+` FROM reactions WHERE message_id = $1 ORDER BY created_at, id`,
		messageID)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	defer rows.Close()

	reactions := make([]*domain.Reaction, 0)
	for rows.Next() {
		rc, err := scanReaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reaction: %w", err)
		}
		reactions = append(reactions, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reactions: %w", err)
	}
	return reactions, nil
}

// Create inserts a reaction. A duplicate (message, member, value) yields ErrAlreadyExists.
func (r *ReactionRepository) Create(ctx context.Context, reaction *domain.Reaction) (*domain.Reaction, error) {
	query := `
		INSERT INTO reactions (workspace_id, message_id, member_id, value)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + reactionColumns

	rc, err := scanReaction(conn(ctx, r.pool).QueryRow(ctx, query,
		reaction.WorkspaceID, reaction.MessageID, reaction.MemberID, reaction.Value))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert reaction: %w", err)
	}
	return rc, nil
}

// Delete removes one reaction
func (r *ReactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM reactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}
	return requireAffected(tag, domain.ErrReactionNotFound)
}

// DeleteByMessage removes every reaction on a message
func (r *ReactionRepository) DeleteByMessage(ctx context.Context, messageID uuid.UUID) (int64, error) {
	return r.exec(ctx, "delete message reactions",
		`DELETE FROM reactions WHERE message_id = $1`, messageID)
}

// DeleteByChannel removes reactions on every message in a channel
func (r *ReactionRepository) DeleteByChannel(ctx context.Context, channelID uuid.UUID) (int64, error) {
	return r.exec(ctx, "delete channel reactions",
		`DELETE FROM reactions WHERE message_id IN (SELECT id FROM messages WHERE channel_id = $1)`, channelID)
}

// DeleteByMember removes every reaction the member made
func (r *ReactionRepository) DeleteByMember(ctx context.Context, memberID uuid.UUID) (int64, error) {
	return r.exec(ctx, "delete member reactions",
		`DELETE FROM reactions WHERE member_id = $1`, memberID)
}

// DeleteByWorkspace removes every reaction of the workspace
func (r *ReactionRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	return r.exec(ctx, "delete workspace reactions",
		`DELETE FROM reactions WHERE workspace_id = $1`, workspaceID)
}

func (r *ReactionRepository) exec(ctx context.Context, op, query string, id uuid.UUID) (int64, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return tag.RowsAffected(), nil
}

func scanReaction(row pgx.Row) (*domain.Reaction, error) {
	var rc domain.Reaction
	if err := row.Scan(&rc.ID, &rc.WorkspaceID, &rc.MessageID, &rc.MemberID, &rc.Value, &rc.CreatedAt); err != nil {
		return nil, err
	}
	return &rc, nil
}
