package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/huddle/huddle-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, subject, email, name, image, created_at, updated_at`

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return user, nil
}

// GetBySubject retrieves a user by their token subject
func (r *UserRepository) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	row := conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE subject = $1`, subject)
	user, err := scanUser(row)
	if err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return user, nil
}

// CreateOrGetBySubject upserts the user and refreshes non-empty profile fields
func (r *UserRepository) CreateOrGetBySubject(ctx context.Context, subject, email string, name, image *string) (*domain.User, error) {
	query := `
		INSERT INTO users (subject, email, name, image)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (subject) DO UPDATE SET
			email      = CASE WHEN EXCLUDED.email = '' THEN users.email ELSE EXCLUDED.email END,
			name       = COALESCE(EXCLUDED.name, users.name),
			image      = COALESCE(EXCLUDED.image, users.image),
			updated_at = now()
		RETURNING ` + userColumns

	user, err := scanUser(conn(ctx, r.pool).QueryRow(ctx, query, subject, email, name, image))
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Subject, &u.Email, &u.Name, &u.Image, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
