package cart

import (
	"context"

	"campuseats/internal/domain"
)

// Repository persists one cart snapshot per owner. Load never surfaces a
// malformed snapshot to the caller; it falls back to an empty cart.
type Repository interface {
	Load(ctx context.Context, owner string) (*domain.Cart, error)
	Save(ctx context.Context, owner string, cart *domain.Cart) error
}
