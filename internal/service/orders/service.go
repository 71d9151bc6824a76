package orders

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"campuseats/internal/domain"
	historyrepo "campuseats/internal/repository/history"
)

// Publisher emits status-change events. May be nil.
type Publisher interface {
	StatusChanged(ctx context.Context, tx domain.Transaction) error
}

// Notifier pushes status changes to live dashboard feeds. May be nil.
type Notifier interface {
	StatusChanged(tx domain.Transaction)
}

// Service exposes the order-history log to customer, vendor and admin views
// and drives the transaction status state machine.
type Service struct {
	history  historyrepo.Repository
	events   Publisher
	notifier Notifier
	logger   *log.Logger
}

func New(history historyrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{history: history, logger: logger}
}

// WithEvents attaches a status-change event publisher.
func (s *Service) WithEvents(p Publisher) *Service {
	s.events = p
	return s
}

// WithNotifier attaches a live-feed notifier.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// History returns the owner's transactions, newest first.
func (s *Service) History(ctx context.Context, owner string) ([]domain.Transaction, error) {
	txs, err := s.history.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(txs)
	return txs, nil
}

// Filter narrows vendor/admin transaction listings. Zero values mean "any".
type Filter struct {
	Type    domain.TransactionType
	Status  domain.Status
	StoreID string
	From    time.Time
	To      time.Time
}

func (f Filter) match(tx domain.Transaction) bool {
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.Status != "" && tx.Status != f.Status {
		return false
	}
	if !f.From.IsZero() && tx.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && tx.Timestamp.After(f.To) {
		return false
	}
	if f.StoreID != "" {
		found := false
		for _, li := range tx.Items {
			if li.StoreID == f.StoreID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ListAll returns every owner's transactions matching the filter, newest
// first.
func (s *Service) ListAll(ctx context.Context, f Filter) ([]domain.Transaction, error) {
	txs, err := s.history.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := txs[:0]
	for _, tx := range txs {
		if f.match(tx) {
			out = append(out, tx)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// UpdateStatus overwrites a transaction's status after checking the
// transition is legal. Matching prefers the id; legacy records without one
// match by timestamp. This is the only mutation the log permits.
func (s *Service) UpdateStatus(ctx context.Context, owner, ref string, to domain.Status) (*domain.Transaction, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrStatusTransition, to)
	}
	txs, err := s.history.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	current, ok := findTransaction(txs, ref)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !domain.CanTransition(current.Status, to) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrStatusTransition, current.Status, to)
	}

	updated, err := s.history.UpdateStatus(ctx, owner, ref, to)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.StatusChanged(ctx, *updated); err != nil {
			s.logger.Printf("orders service: publish status tx=%s error=%v", updated.ID, err)
		}
	}
	if s.notifier != nil {
		s.notifier.StatusChanged(*updated)
	}
	return updated, nil
}

// Stats aggregates the full log for the admin dashboard.
type Stats struct {
	Total        int                            `json:"total"`
	ByStatus     map[domain.Status]int          `json:"byStatus"`
	ByType       map[domain.TransactionType]int `json:"byType"`
	RevenueCents int64                          `json:"revenue"`
}

// Statistics counts transactions per status and type. Cancelled transactions
// do not contribute revenue.
func (s *Service) Statistics(ctx context.Context) (Stats, error) {
	txs, err := s.history.ListAll(ctx)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{
		ByStatus: make(map[domain.Status]int),
		ByType:   make(map[domain.TransactionType]int),
	}
	for _, tx := range txs {
		stats.Total++
		stats.ByStatus[tx.Status]++
		stats.ByType[tx.Type]++
		if tx.Status != domain.StatusCancelled {
			stats.RevenueCents += tx.ItemTotal() + tx.ServiceFeeCents
		}
	}
	return stats, nil
}

func findTransaction(txs []domain.Transaction, ref string) (domain.Transaction, bool) {
	for _, tx := range txs {
		if tx.ID != "" && tx.ID == ref {
			return tx, true
		}
	}
	if ts, err := time.Parse(time.RFC3339Nano, ref); err == nil {
		for _, tx := range txs {
			if tx.ID == "" && tx.Timestamp.Equal(ts) {
				return tx, true
			}
		}
	}
	return domain.Transaction{}, false
}

func sortNewestFirst(txs []domain.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Timestamp.After(txs[j].Timestamp)
	})
}
