package store

import (
	"context"

	"campuseats/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Store, error)
	GetByID(ctx context.Context, id string) (*domain.Store, error)
	GetByVendor(ctx context.Context, vendorID string) (*domain.Store, error)
	Create(ctx context.Context, s domain.Store) (*domain.Store, error)
}
