package catalog

import (
	"context"

	"campuseats/internal/domain"
	productrepo "campuseats/internal/repository/product"
	storerepo "campuseats/internal/repository/store"
)

// Service exposes the store/product catalog to browsing views.
type Service struct {
	stores   storerepo.Repository
	products productrepo.Repository
}

func New(stores storerepo.Repository, products productrepo.Repository) *Service {
	return &Service{stores: stores, products: products}
}

func (s *Service) Stores(ctx context.Context) ([]domain.Store, error) {
	return s.stores.List(ctx)
}

func (s *Service) Store(ctx context.Context, id string) (*domain.Store, error) {
	return s.stores.GetByID(ctx, id)
}

func (s *Service) StoreProducts(ctx context.Context, storeID string) ([]domain.Product, error) {
	return s.products.ListByStore(ctx, storeID)
}

func (s *Service) Product(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.GetByID(ctx, id)
}
