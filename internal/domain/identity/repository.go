package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the persistence interface for internal users
type UserRepository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByUsername finds a user by its lowercased username.
	// Returns shared.ErrNotFound when no such user exists.
	FindByUsername(ctx context.Context, username string) (*User, error)
	// Save creates or updates a user
	Save(ctx context.Context, u *User) error
}
