package cart

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"campuseats/internal/domain"
	cartrepo "campuseats/internal/repository/cart"
)

// Service maintains the two-bucket cart and its durable snapshot. Every
// mutation is written through to the snapshot store synchronously; a failed
// write is logged and does not roll back the mutation.
type Service struct {
	repo   cartrepo.Repository
	logger *log.Logger
}

func New(repo cartrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{repo: repo, logger: logger}
}

// Get returns the owner's current cart, rehydrated from the snapshot.
func (s *Service) Get(ctx context.Context, owner string) (*domain.Cart, error) {
	return s.repo.Load(ctx, owner)
}

// AddItem merges the line item into the bucket named by item.Type (order by
// default). An existing (id, store_id) row has its quantity incremented; a
// missing id is a caller contract violation.
func (s *Service) AddItem(ctx context.Context, owner string, item domain.LineItem, quantity int) (*domain.Cart, error) {
	if strings.TrimSpace(item.ID) == "" {
		return nil, errors.New("item id required")
	}
	if item.Type != "" && !item.Type.Valid() {
		return nil, errors.New("unknown bucket")
	}
	cart, err := s.repo.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	cart.Add(item, quantity)
	s.persist(ctx, owner, cart)
	return cart, nil
}

// RemoveItem deletes the matching row entirely regardless of quantity. An
// empty storeID matches on id alone.
func (s *Service) RemoveItem(ctx context.Context, owner, id string, bucket domain.Bucket, storeID string) (*domain.Cart, error) {
	if !bucket.Valid() {
		return nil, errors.New("unknown bucket")
	}
	cart, err := s.repo.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if cart.Remove(id, bucket, storeID) {
		s.persist(ctx, owner, cart)
	}
	return cart, nil
}

// UpdateQuantity sets the row's quantity to the exact value; zero or less
// removes the row.
func (s *Service) UpdateQuantity(ctx context.Context, owner, id string, quantity int, bucket domain.Bucket, storeID string) (*domain.Cart, error) {
	if !bucket.Valid() {
		return nil, errors.New("unknown bucket")
	}
	cart, err := s.repo.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	if cart.SetQuantity(id, quantity, bucket, storeID) {
		s.persist(ctx, owner, cart)
	}
	return cart, nil
}

// AdjustQuantity applies a +/- stepper delta. Decrementing clamps at a floor
// of 1; removal happens only through RemoveItem or an explicit zero set.
func (s *Service) AdjustQuantity(ctx context.Context, owner, id string, delta int, bucket domain.Bucket, storeID string) (*domain.Cart, error) {
	if !bucket.Valid() {
		return nil, errors.New("unknown bucket")
	}
	cart, err := s.repo.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	items := cart.Items(bucket)
	var item *domain.LineItem
	for i := range items {
		if items[i].ID == id && (storeID == "" || items[i].StoreID == storeID) {
			item = &items[i]
			break
		}
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	next := item.Quantity + delta
	if next < 1 {
		next = 1
	}
	if next != item.Quantity {
		item.Quantity = next
		s.persist(ctx, owner, cart)
	}
	return cart, nil
}

// ClearCart empties both buckets.
func (s *Service) ClearCart(ctx context.Context, owner string) (*domain.Cart, error) {
	cart := domain.NewCart()
	s.persist(ctx, owner, cart)
	return cart, nil
}

// ClearBucket empties one bucket.
func (s *Service) ClearBucket(ctx context.Context, owner string, bucket domain.Bucket) (*domain.Cart, error) {
	if !bucket.Valid() {
		return nil, errors.New("unknown bucket")
	}
	cart, err := s.repo.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	cart.ClearBucket(bucket)
	s.persist(ctx, owner, cart)
	return cart, nil
}

// ClearStoreItems removes all of one store's rows from one bucket, used
// after a per-store checkout flow.
func (s *Service) ClearStoreItems(ctx context.Context, owner, storeID string, bucket domain.Bucket) (*domain.Cart, error) {
	if !bucket.Valid() {
		return nil, errors.New("unknown bucket")
	}
	cart, err := s.repo.Load(ctx, owner)
	if err != nil {
		return nil, err
	}
	cart.ClearStore(storeID, bucket)
	s.persist(ctx, owner, cart)
	return cart, nil
}

// persist writes the snapshot best-effort: durability failures are logged,
// never surfaced, and the in-memory mutation stands.
func (s *Service) persist(ctx context.Context, owner string, cart *domain.Cart) {
	if err := s.repo.Save(ctx, owner, cart); err != nil {
		s.logger.Printf("cart service: snapshot write owner=%s error=%v", owner, err)
	}
}
