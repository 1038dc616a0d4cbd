package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const workspaceColumns = `w.id, w.user_id, w.name, w.join_code, w.created_at`

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

// GetByID retrieves a workspace by its ID
func (r *WorkspaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workspace, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces w WHERE w.id = $1`, id)
	ws, err := scanWorkspace(row)
	if err != nil {
		return nil, notFound(err, domain.ErrWorkspaceNotFound)
	}
	return ws, nil
}

// ListByUser returns every workspace the user is a member of, oldest membership first
func (r *WorkspaceRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Workspace, error) {
	query := `
		SELECT ` + workspaceColumns + `
		FROM workspaces w
		JOIN members m ON m.workspace_id = w.id
		WHERE m.user_id = $1
		ORDER BY m.created_at, w.id`

	rows, err := conn(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	workspaces := make([]*domain.Workspace, 0)
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		workspaces = append(workspaces, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate workspaces: %w", err)
	}
	return workspaces, nil
}

// Create inserts a new workspace
func (r *WorkspaceRepository) Create(ctx context.Context, workspace *domain.Workspace) (*domain.Workspace, error) {
	query := `
		INSERT INTO workspaces AS w (user_id, name, join_code)
		VALUES ($1, $2, $3)
		RETURNING ` + workspaceColumns

	ws, err := scanWorkspace(conn(ctx, r.pool).QueryRow(ctx, query, workspace.UserID, workspace.Name, workspace.JoinCode))
	if err != nil {
		return nil, fmt.Errorf("insert workspace: %w", err)
	}
	return ws, nil
}

// UpdateName renames a workspace
func (r *WorkspaceRepository) UpdateName(ctx context.Context, id uuid.UUID, name string) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `UPDATE workspaces SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return fmt.Errorf("rename workspace: %w", err)
	}
	return requireAffected(tag, domain.ErrWorkspaceNotFound)
}

// UpdateJoinCode replaces the workspace join code
func (r *WorkspaceRepository) UpdateJoinCode(ctx context.Context, id uuid.UUID, joinCode string) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `UPDATE workspaces SET join_code = $2 WHERE id = $1`, id, joinCode)
	if err != nil {
		return fmt.Errorf("update join code: %w", err)
	}
	return requireAffected(tag, domain.ErrWorkspaceNotFound)
}

// Delete removes the workspace row. Dependents must already be gone.
func (r *WorkspaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	return requireAffected(tag, domain.ErrWorkspaceNotFound)
}

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var w domain.Workspace
	if err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.JoinCode, &w.CreatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}
