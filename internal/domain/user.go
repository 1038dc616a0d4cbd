package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated person. Profile fields come from the
// identity provider's token claims.
type User struct {
	ID        uuid.UUID `json:"id"`
	Subject   string    `json:"-"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayName returns the user's name or an empty string
func (u *User) DisplayName() string {
	if u == nil || u.Name == nil {
		return ""
	}
	return *u.Name
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetBySubject(ctx context.Context, subject string) (*User, error)
	// CreateOrGetBySubject inserts the user on first sight and refreshes the
	// profile fields on every later call.
	CreateOrGetBySubject(ctx context.Context, subject, email string, name, image *string) (*User, error)
}
