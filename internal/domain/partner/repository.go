package partner

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence interface for partners
type Repository interface {
	// FindByID finds a partner by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Partner, error)

	// FindByExternalToken finds the partner holding the given portal token.
	// Returns shared.ErrNotFound when no partner holds the token.
	FindByExternalToken(ctx context.Context, token string) (*Partner, error)

	// FindAll returns all partners
	FindAll(ctx context.Context) ([]Partner, error)

	// Save creates or updates a partner
	Save(ctx context.Context, p *Partner) error
}
