package checkout

import (
	"context"
	"errors"
	"testing"

	"campuseats/internal/domain"
)

type stubCartRepo struct {
	carts   map[string]*domain.Cart
	saveErr error
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: map[string]*domain.Cart{}}
}

func (s *stubCartRepo) Load(_ context.Context, owner string) (*domain.Cart, error) {
	if c, ok := s.carts[owner]; ok {
		return c.Clone(), nil
	}
	return domain.NewCart(), nil
}

func (s *stubCartRepo) Save(_ context.Context, owner string, cart *domain.Cart) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.carts[owner] = cart.Clone()
	return nil
}

type stubHistoryRepo struct {
	logs      map[string][]domain.Transaction
	appendErr error
}

func newStubHistoryRepo() *stubHistoryRepo {
	return &stubHistoryRepo{logs: map[string][]domain.Transaction{}}
}

func (s *stubHistoryRepo) List(_ context.Context, owner string) ([]domain.Transaction, error) {
	return s.logs[owner], nil
}

func (s *stubHistoryRepo) Append(_ context.Context, owner string, txs ...domain.Transaction) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.logs[owner] = append(s.logs[owner], txs...)
	return nil
}

func (s *stubHistoryRepo) UpdateStatus(_ context.Context, owner, ref string, status domain.Status) (*domain.Transaction, error) {
	return nil, domain.ErrNotFound
}

func (s *stubHistoryRepo) ListAll(_ context.Context) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, txs := range s.logs {
		out = append(out, txs...)
	}
	return out, nil
}

func sampleCart() *domain.Cart {
	c := domain.NewCart()
	c.Add(domain.LineItem{ID: "p1", StoreID: "s1", Name: "Budget Meal A", PriceCents: 6500}, 1)
	c.Add(domain.LineItem{ID: "p2", StoreID: "s1", Name: "Iced Coffee", PriceCents: 500}, 1)
	c.Add(domain.LineItem{ID: "p3", StoreID: "s2", Name: "Buffet Plate", PriceCents: 15000, Type: domain.BucketReserve}, 2)
	return c
}

func TestAssembleTotals(t *testing.T) {
	svc := New(newStubCartRepo(), newStubHistoryRepo(), nil)

	c := domain.NewCart()
	c.Add(domain.LineItem{ID: "p1", PriceCents: 6500}, 1)
	c.Add(domain.LineItem{ID: "p2", PriceCents: 500}, 1)

	payload, err := svc.Assemble(c, domain.UserInfo{FullName: "Juan"}, domain.PickupInfo{}, domain.PaymentCash, nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if payload.Subtotal() != 7000 {
		t.Fatalf("subtotal = %d, want 7000", payload.Subtotal())
	}
	if payload.Total() != 7500 {
		t.Fatalf("total = %d, want 7500 (subtotal plus flat fee)", payload.Total())
	}
}

func TestAssembleRejectsUnknownMethod(t *testing.T) {
	svc := New(newStubCartRepo(), newStubHistoryRepo(), nil)
	if _, err := svc.Assemble(domain.NewCart(), domain.UserInfo{}, domain.PickupInfo{}, domain.PaymentMethod("credit"), nil); err == nil {
		t.Fatalf("expected error for unknown payment method")
	}
}

func TestAssembleDropsDetailsForCash(t *testing.T) {
	svc := New(newStubCartRepo(), newStubHistoryRepo(), nil)
	details := &domain.PaymentDetails{AccountName: "Juan", GcashNumber: "09171234567"}

	payload, err := svc.Assemble(domain.NewCart(), domain.UserInfo{}, domain.PickupInfo{}, domain.PaymentCash, details)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if payload.PaymentDetails != nil {
		t.Fatalf("cash checkout must not carry gcash details")
	}

	payload, err = svc.Assemble(domain.NewCart(), domain.UserInfo{}, domain.PickupInfo{}, domain.PaymentGcash, details)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	if payload.PaymentDetails == nil || payload.PaymentDetails.GcashNumber != "09171234567" {
		t.Fatalf("gcash checkout must keep details")
	}
}

func TestAssembleSnapshotsCart(t *testing.T) {
	svc := New(newStubCartRepo(), newStubHistoryRepo(), nil)
	c := sampleCart()

	payload, err := svc.Assemble(c, domain.UserInfo{}, domain.PickupInfo{}, domain.PaymentCash, nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	c.Order[0].Quantity = 99
	if payload.Cart.Order[0].Quantity != 1 {
		t.Fatalf("payload must hold a deep copy of the cart")
	}
}

func TestMaterializeSplitsBuckets(t *testing.T) {
	carts := newStubCartRepo()
	history := newStubHistoryRepo()
	svc := New(carts, history, nil)

	c := sampleCart()
	carts.carts["u1"] = c.Clone()
	payload, err := svc.Assemble(c, domain.UserInfo{FullName: "Juan"}, domain.PickupInfo{PickupDate: "2026-09-02"}, domain.PaymentCash, nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	txs, err := svc.Materialize(context.Background(), "u1", payload)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected one transaction per non-empty bucket, got %d", len(txs))
	}

	var order, reservation *domain.Transaction
	for i := range txs {
		switch txs[i].Type {
		case domain.TransactionOrder:
			order = &txs[i]
		case domain.TransactionReservation:
			reservation = &txs[i]
		}
	}
	if order == nil || reservation == nil {
		t.Fatalf("expected both transaction types, got %+v", txs)
	}
	if len(order.Items) != 2 || len(reservation.Items) != 1 {
		t.Fatalf("bucket contents misrouted: order=%d reserve=%d", len(order.Items), len(reservation.Items))
	}
	if !order.Timestamp.Equal(reservation.Timestamp) {
		t.Fatalf("sibling transactions must share a timestamp")
	}
	if order.ID == reservation.ID || order.ID == "" {
		t.Fatalf("transaction ids must be distinct and non-empty")
	}
	if order.Status != domain.StatusPreparing || reservation.Status != domain.StatusPreparing {
		t.Fatalf("new transactions must start Preparing")
	}

	// Cart cleared only after the log append succeeded.
	stored, _ := carts.Load(context.Background(), "u1")
	if !stored.Empty() {
		t.Fatalf("expected cart cleared after materialize")
	}
	if len(history.logs["u1"]) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(history.logs["u1"]))
	}
}

func TestMaterializeEmptyCartIsNoOp(t *testing.T) {
	carts := newStubCartRepo()
	history := newStubHistoryRepo()
	svc := New(carts, history, nil)

	payload, err := svc.Assemble(domain.NewCart(), domain.UserInfo{}, domain.PickupInfo{}, domain.PaymentCash, nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	txs, err := svc.Materialize(context.Background(), "u1", payload)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("empty cart must produce no transactions")
	}
	if len(history.logs["u1"]) != 0 {
		t.Fatalf("empty cart must not touch the log")
	}
}

func TestMaterializeReserveOnly(t *testing.T) {
	carts := newStubCartRepo()
	svc := New(carts, newStubHistoryRepo(), nil)

	c := domain.NewCart()
	c.Add(domain.LineItem{ID: "p1", PriceCents: 15000, Type: domain.BucketReserve}, 1)

	payload, err := svc.Assemble(c, domain.UserInfo{}, domain.PickupInfo{}, domain.PaymentCash, nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	txs, err := svc.Materialize(context.Background(), "u1", payload)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != domain.TransactionReservation {
		t.Fatalf("expected a single reservation, got %+v", txs)
	}
}

func TestMaterializeAppendFailureLeavesCart(t *testing.T) {
	carts := newStubCartRepo()
	history := newStubHistoryRepo()
	history.appendErr = errors.New("log write failed")
	svc := New(carts, history, nil)

	c := sampleCart()
	carts.carts["u1"] = c.Clone()
	payload, err := svc.Assemble(c, domain.UserInfo{}, domain.PickupInfo{}, domain.PaymentCash, nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	if _, err := svc.Materialize(context.Background(), "u1", payload); err == nil {
		t.Fatalf("expected materialize to surface append failure")
	}

	stored, _ := carts.Load(context.Background(), "u1")
	if stored.Empty() {
		t.Fatalf("cart must survive a failed append for retry")
	}
}

func TestMaterializeCommittedItemsAreIsolated(t *testing.T) {
	carts := newStubCartRepo()
	history := newStubHistoryRepo()
	svc := New(carts, history, nil)

	c := domain.NewCart()
	c.Add(domain.LineItem{ID: "p1", PriceCents: 6500}, 1)
	payload, err := svc.Assemble(c, domain.UserInfo{}, domain.PickupInfo{}, domain.PaymentCash, nil)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	txs, err := svc.Materialize(context.Background(), "u1", payload)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}

	payload.Cart.Order[0].Quantity = 99
	if txs[0].Items[0].Quantity != 1 {
		t.Fatalf("committed items must not alias the payload cart")
	}
}
