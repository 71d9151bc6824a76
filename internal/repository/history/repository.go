package history

import (
	"context"

	"campuseats/internal/domain"
)

// Repository is the append-only order-history log, one list per owner. Once
// appended, a transaction's id, type, items and timestamp never change; only
// the status is updated in place.
type Repository interface {
	List(ctx context.Context, owner string) ([]domain.Transaction, error)
	Append(ctx context.Context, owner string, txs ...domain.Transaction) error
	// UpdateStatus overwrites the status of the transaction matched by id,
	// falling back to a timestamp match for legacy records without an id.
	UpdateStatus(ctx context.Context, owner, ref string, status domain.Status) (*domain.Transaction, error)
	// ListAll returns every owner's transactions, for vendor/admin views.
	ListAll(ctx context.Context) ([]domain.Transaction, error)
}
