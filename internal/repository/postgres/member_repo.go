package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const memberColumns = `id, user_id, workspace_id, role, created_at`

// MemberRepository implements domain.MemberRepository using PostgreSQL
type MemberRepository struct {
	pool *pgxpool.Pool
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

// GetByID retrieves a member by its ID
func (r *MemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Member, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	m, err := scanMember(row)
	if err != nil {
		return nil, notFound(err, domain.ErrMemberNotFound)
	}
	return m, nil
}

// GetByWorkspaceAndUser retrieves the unique member for a (workspace, user) pair
func (r *MemberRepository) GetByWorkspaceAndUser(ctx context.Context, workspaceID, userID uuid.UUID) (*domain.Member, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE workspace_id = $1 AND user_id = $2`,
		workspaceID, userID)
	m, err := scanMember(row)
	if err != nil {
		return nil, notFound(err, domain.ErrMemberNotFound)
	}
	return m, nil
}

// ListByWorkspace returns the workspace's members, oldest first
func (r *MemberRepository) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Member, error) {
	return r.list(ctx,
		`SELECT `+memberColumns+` FROM members WHERE workspace_id = $1 ORDER BY created_at, id`,
		workspaceID)
}

// ListByUser returns every membership the user holds
func (r *MemberRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Member, error) {
	return r.list(ctx,
		`SELECT `+memberColumns+` FROM members WHERE user_id = $1 ORDER BY created_at, id`,
		userID)
}

func (r *MemberRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Member, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := make([]*domain.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return members, nil
}

// Create inserts a member. A duplicate (workspace, user) pair yields ErrAlreadyExists.
func (r *MemberRepository) Create(ctx context.Context, member *domain.Member) (*domain.Member, error) {
	query := `
		INSERT INTO members (user_id, workspace_id, role)
		VALUES ($1, $2, $3)
		RETURNING ` + memberColumns

	m, err := scanMember(conn(ctx, r.pool).QueryRow(ctx, query, member.UserID, member.WorkspaceID, string(member.Role)))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, fmt.Errorf("insert member: %w", err)
	}
	return m, nil
}

// UpdateRole changes a member's role
func (r *MemberRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `UPDATE members SET role = $2 WHERE id = $1`, id, string(role))
	if err != nil {
		return fmt.Errorf("update member role: %w", err)
	}
	return requireAffected(tag, domain.ErrMemberNotFound)
}

// Delete removes one member row
func (r *MemberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return requireAffected(tag, domain.ErrMemberNotFound)
}

// DeleteByWorkspace removes every member of the workspace
func (r *MemberRepository) DeleteByWorkspace(ctx context.Context, workspaceID uuid.UUID) (int64, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM members WHERE workspace_id = $1`, workspaceID)
	if err != nil {
		return 0, fmt.Errorf("delete workspace members: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanMember(row pgx.Row) (*domain.Member, error) {
	var m domain.Member
	var role string
	if err := row.Scan(&m.ID, &m.UserID, &m.WorkspaceID, &role, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.Role = domain.Role(role)
	return &m, nil
}
