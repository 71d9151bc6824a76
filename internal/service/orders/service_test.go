package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"campuseats/internal/domain"
)

type stubHistoryRepo struct {
	logs map[string][]domain.Transaction
}

func newStubHistoryRepo() *stubHistoryRepo {
	return &stubHistoryRepo{logs: map[string][]domain.Transaction{}}
}

func (s *stubHistoryRepo) List(_ context.Context, owner string) ([]domain.Transaction, error) {
	return append([]domain.Transaction(nil), s.logs[owner]...), nil
}

func (s *stubHistoryRepo) Append(_ context.Context, owner string, txs ...domain.Transaction) error {
	s.logs[owner] = append(s.logs[owner], txs...)
	return nil
}

func (s *stubHistoryRepo) UpdateStatus(_ context.Context, owner, ref string, status domain.Status) (*domain.Transaction, error) {
	txs := s.logs[owner]
	for i := range txs {
		match := txs[i].ID != "" && txs[i].ID == ref
		if !match && txs[i].ID == "" {
			if ts, err := time.Parse(time.RFC3339Nano, ref); err == nil {
				match = txs[i].Timestamp.Equal(ts)
			}
		}
		if match {
			txs[i].Status = status
			out := txs[i]
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *stubHistoryRepo) ListAll(_ context.Context) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, txs := range s.logs {
		out = append(out, txs...)
	}
	return out, nil
}

type recordingNotifier struct {
	changed []domain.Transaction
}

func (r *recordingNotifier) StatusChanged(tx domain.Transaction) {
	r.changed = append(r.changed, tx)
}

func at(day int) time.Time {
	return time.Date(2026, 9, day, 12, 0, 0, 0, time.UTC)
}

func seedLog(repo *stubHistoryRepo) {
	repo.logs["u1"] = []domain.Transaction{
		{ID: "t1", Owner: "u1", Type: domain.TransactionOrder, Status: domain.StatusPreparing, Timestamp: at(1),
			Items: []domain.LineItem{{ID: "p1", StoreID: "s1", PriceCents: 6500, Quantity: 1}}, ServiceFeeCents: 500},
		{ID: "t2", Owner: "u1", Type: domain.TransactionReservation, Status: domain.StatusReady, Timestamp: at(3),
			Items: []domain.LineItem{{ID: "p2", StoreID: "s2", PriceCents: 15000, Quantity: 2}}, ServiceFeeCents: 500},
	}
	repo.logs["u2"] = []domain.Transaction{
		{ID: "t3", Owner: "u2", Type: domain.TransactionOrder, Status: domain.StatusCancelled, Timestamp: at(2),
			Items: []domain.LineItem{{ID: "p1", StoreID: "s1", PriceCents: 6500, Quantity: 3}}, ServiceFeeCents: 500},
	}
}

func TestHistorySortsNewestFirst(t *testing.T) {
	repo := newStubHistoryRepo()
	seedLog(repo)
	svc := New(repo, nil)

	txs, err := svc.History(context.Background(), "u1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].ID != "t2" || txs[1].ID != "t1" {
		t.Fatalf("expected newest first, got %s then %s", txs[0].ID, txs[1].ID)
	}
}

func TestUpdateStatusLegalTransition(t *testing.T) {
	repo := newStubHistoryRepo()
	seedLog(repo)
	notifier := &recordingNotifier{}
	svc := New(repo, nil).WithNotifier(notifier)

	updated, err := svc.UpdateStatus(context.Background(), "u1", "t1", domain.StatusReady)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.StatusReady {
		t.Fatalf("expected Ready for pickup, got %s", updated.Status)
	}
	if len(notifier.changed) != 1 || notifier.changed[0].ID != "t1" {
		t.Fatalf("expected notifier to see the update")
	}
}

func TestUpdateStatusIllegalTransition(t *testing.T) {
	repo := newStubHistoryRepo()
	seedLog(repo)
	svc := New(repo, nil)
	ctx := context.Background()

	// Skipping Ready is illegal.
	if _, err := svc.UpdateStatus(ctx, "u1", "t1", domain.StatusPickedUp); !errors.Is(err, domain.ErrStatusTransition) {
		t.Fatalf("expected ErrStatusTransition, got %v", err)
	}
	// Terminal states reject everything.
	if _, err := svc.UpdateStatus(ctx, "u2", "t3", domain.StatusPreparing); !errors.Is(err, domain.ErrStatusTransition) {
		t.Fatalf("expected ErrStatusTransition from terminal, got %v", err)
	}
	// Unknown target status.
	if _, err := svc.UpdateStatus(ctx, "u1", "t1", domain.Status("Lost")); !errors.Is(err, domain.ErrStatusTransition) {
		t.Fatalf("expected ErrStatusTransition for unknown status, got %v", err)
	}

	if repo.logs["u1"][0].Status != domain.StatusPreparing {
		t.Fatalf("illegal transition must not mutate the log")
	}
}

func TestUpdateStatusMissingTransaction(t *testing.T) {
	repo := newStubHistoryRepo()
	seedLog(repo)
	svc := New(repo, nil)

	if _, err := svc.UpdateStatus(context.Background(), "u1", "nope", domain.StatusReady); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateStatusTimestampFallback(t *testing.T) {
	repo := newStubHistoryRepo()
	ts := at(5)
	repo.logs["u1"] = []domain.Transaction{
		{Owner: "u1", Type: domain.TransactionOrder, Status: domain.StatusPreparing, Timestamp: ts},
	}
	svc := New(repo, nil)

	updated, err := svc.UpdateStatus(context.Background(), "u1", ts.Format(time.RFC3339Nano), domain.StatusCancelled)
	if err != nil {
		t.Fatalf("update status by timestamp: %v", err)
	}
	if updated.Status != domain.StatusCancelled {
		t.Fatalf("expected Cancelled, got %s", updated.Status)
	}
}

func TestListAllFilters(t *testing.T) {
	repo := newStubHistoryRepo()
	seedLog(repo)
	svc := New(repo, nil)
	ctx := context.Background()

	all, err := svc.ListAll(ctx, Filter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp.After(all[i-1].Timestamp) {
			t.Fatalf("expected newest-first ordering")
		}
	}

	orders, err := svc.ListAll(ctx, Filter{Type: domain.TransactionOrder})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(orders))
	}

	ready, err := svc.ListAll(ctx, Filter{Status: domain.StatusReady})
	if err != nil {
		t.Fatalf("list ready: %v", err)
	}
	if len(ready) != 1 || ready[0].ID != "t2" {
		t.Fatalf("expected only t2 ready, got %+v", ready)
	}

	s2, err := svc.ListAll(ctx, Filter{StoreID: "s2"})
	if err != nil {
		t.Fatalf("list by store: %v", err)
	}
	if len(s2) != 1 || s2[0].ID != "t2" {
		t.Fatalf("expected only t2 for store s2, got %+v", s2)
	}

	windowed, err := svc.ListAll(ctx, Filter{From: at(2), To: at(2)})
	if err != nil {
		t.Fatalf("list windowed: %v", err)
	}
	if len(windowed) != 1 || windowed[0].ID != "t3" {
		t.Fatalf("expected only t3 in window, got %+v", windowed)
	}
}

func TestStatistics(t *testing.T) {
	repo := newStubHistoryRepo()
	seedLog(repo)
	svc := New(repo, nil)

	stats, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.Total != 3 {
		t.Fatalf("total = %d, want 3", stats.Total)
	}
	if stats.ByStatus[domain.StatusPreparing] != 1 || stats.ByStatus[domain.StatusReady] != 1 || stats.ByStatus[domain.StatusCancelled] != 1 {
		t.Fatalf("unexpected status counts: %+v", stats.ByStatus)
	}
	if stats.ByType[domain.TransactionOrder] != 2 || stats.ByType[domain.TransactionReservation] != 1 {
		t.Fatalf("unexpected type counts: %+v", stats.ByType)
	}
	// t1: 6500 + 500 fee; t2: 30000 + 500 fee; cancelled t3 excluded.
	if stats.RevenueCents != 37500 {
		t.Fatalf("revenue = %d, want 37500", stats.RevenueCents)
	}
}
