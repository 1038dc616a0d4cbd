package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const channelColumns = `id, workspace_id, name, created_at`

// ChannelRepository implements domain.ChannelRepository using PostgreSQL
type ChannelRepository struct {
	pool *pgxpool.Pool
}

// NewChannelRepository creates a new ChannelRepository
func NewChannelRepository(pool *pgxpool.Pool) *ChannelRepository {
	return &ChannelRepository{pool: pool}
}

// GetByID retrieves a channel by its ID
func (r *ChannelRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE id = $1`, id)
	ch, err := scanChannel(row)
	if err != nil {
		return nil, notFound(err, domain.ErrChannelNotFound)
	}
	return ch, nil
}

// ListByWorkspace returns the workspace's channels in creation order
func (r *ChannelRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Channel, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT `+channelColumns+` FROM channels WHERE workspace_id = $1 ORDER BY created_at, id`,
		workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	channels := make([]*domain.Channel, 0)
	for rows.Next() {
		ch, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channels: %w", err)
	}
	return channels, nil
}

// Create inserts a new channel
func (r *ChannelRepository) Create(ctx context.Context, channel *domain.Channel) (*domain.Channel, error) {
	query := `
		INSERT INTO channels (workspace_id, name)
		VALUES ($1, $2)
		RETURNING ` + channelColumns

	ch, err := scanChannel(conn(ctx, r.pool).QueryRow(ctx, query, channel.WorkspaceID, channel.Name))
	if err != nil {
		return nil, fmt.Errorf("insert channel: %w", err)
	}
	return ch, nil
}

// UpdateName renames a channel
func (r *ChannelRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `UPDATE channels SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("rename channel: %w", err)
	}
	return requireAffected(tag, domain.ErrChannelNotFound)
}

// Delete removes one channel. Its messages must already be gone.
func (r *ChannelRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM channels WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete channel: %w", err)
	}
	return requireAffected(tag, domain.ErrChannelNotFound)
}

// DeleteByWorkspace removes every channel of the workspace
func (r *ChannelRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM channels WHERE workspace_id = $1`, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("delete workspace channels: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanChannel(row pgx.Row) (*domain.Channel, error) {
	var ch domain.Channel
	if err := row.Scan(&ch.ID, &ch.WorkspaceID, &ch.Name, &ch.CreatedAt); err != nil {
		return nil, err
	}
	return &ch, nil
}
