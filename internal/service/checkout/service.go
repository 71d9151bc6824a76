package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"campuseats/internal/domain"
	cartrepo "campuseats/internal/repository/cart"
	historyrepo "campuseats/internal/repository/history"
)

// DefaultServiceFeeCents is the flat order-and-reservation fee applied once
// per checkout.
const DefaultServiceFeeCents = 500

// Publisher emits transaction events to interested consumers. It may be nil
// when no broker is configured; emission is best-effort either way.
type Publisher interface {
	TransactionCreated(ctx context.Context, tx domain.Transaction) error
}

// Notifier pushes newly materialized transactions to live dashboard feeds.
type Notifier interface {
	TransactionCreated(tx domain.Transaction)
}

// Payload is the assembled checkout: a cart snapshot plus buyer-entered info
// and the flat service fee. It is ephemeral and never persisted on its own.
type Payload struct {
	Cart            domain.Cart            `json:"cart"`
	UserInfo        domain.UserInfo        `json:"userInfo"`
	PickupInfo      domain.PickupInfo      `json:"pickupInfo"`
	ServiceFeeCents int64                  `json:"serviceFee"`
	PaymentMethod   domain.PaymentMethod   `json:"paymentMethod"`
	PaymentDetails  *domain.PaymentDetails `json:"paymentDetails,omitempty"`
}

// Subtotal sums price*quantity across both snapshot buckets.
func (p Payload) Subtotal() int64 {
	return p.Cart.Subtotal()
}

// Total is the subtotal plus the flat service fee.
func (p Payload) Total() int64 {
	return p.Subtotal() + p.ServiceFeeCents
}

// Service assembles checkouts and materializes them into the order-history
// log.
type Service struct {
	carts    cartrepo.Repository
	history  historyrepo.Repository
	events   Publisher
	notifier Notifier
	logger   *log.Logger
	feeCents int64
}

func New(carts cartrepo.Repository, history historyrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		carts:    carts,
		history:  history,
		logger:   logger,
		feeCents: DefaultServiceFeeCents,
	}
}

// WithFee overrides the flat service fee.
func (s *Service) WithFee(cents int64) *Service {
	s.feeCents = cents
	return s
}

// WithEvents attaches a transaction event publisher.
func (s *Service) WithEvents(p Publisher) *Service {
	s.events = p
	return s
}

// WithNotifier attaches a live-feed notifier.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// Assemble builds a checkout payload from the cart and buyer-entered info.
// Pure construction: empty buyer or pickup fields pass through unchanged.
// Only the payment method is validated; payment details are kept for gcash
// and dropped for cash.
func (s *Service) Assemble(cart *domain.Cart, info domain.UserInfo, pickup domain.PickupInfo, method domain.PaymentMethod, details *domain.PaymentDetails) (Payload, error) {
	if !method.Valid() {
		return Payload{}, errors.New("unknown payment method")
	}
	if method != domain.PaymentGcash {
		details = nil
	}
	return Payload{
		Cart:            *cart.Clone(),
		UserInfo:        info,
		PickupInfo:      pickup,
		ServiceFeeCents: s.feeCents,
		PaymentMethod:   method,
		PaymentDetails:  details,
	}, nil
}

// Materialize converts the payload into one transaction per non-empty bucket,
// appends them to the order-history log, and clears the owner's cart. Both
// transactions of one checkout share a timestamp. An empty cart is a no-op
// commit, not an error. The cart is cleared only after the log append
// succeeds; an append failure is returned to the caller as retryable and the
// cart is left intact.
func (s *Service) Materialize(ctx context.Context, owner string, payload Payload) ([]domain.Transaction, error) {
	now := time.Now().UTC()
	txs := make([]domain.Transaction, 0, 2)

	if len(payload.Cart.Order) > 0 {
		txs = append(txs, s.buildTransaction(owner, payload, domain.BucketOrder, now))
	}
	if len(payload.Cart.Reserve) > 0 {
		txs = append(txs, s.buildTransaction(owner, payload, domain.BucketReserve, now))
	}
	if len(txs) == 0 {
		return txs, nil
	}

	if err := s.history.Append(ctx, owner, txs...); err != nil {
		return nil, fmt.Errorf("append order history: %w", err)
	}

	if err := s.carts.Save(ctx, owner, domain.NewCart()); err != nil {
		// best-effort, consistent with cart snapshot durability
		s.logger.Printf("checkout service: clear cart owner=%s error=%v", owner, err)
	}

	for _, tx := range txs {
		if s.events != nil {
			if err := s.events.TransactionCreated(ctx, tx); err != nil {
				s.logger.Printf("checkout service: publish tx=%s error=%v", tx.ID, err)
			}
		}
		if s.notifier != nil {
			s.notifier.TransactionCreated(tx)
		}
	}

	return txs, nil
}

func (s *Service) buildTransaction(owner string, payload Payload, bucket domain.Bucket, ts time.Time) domain.Transaction {
	txType := domain.TransactionOrder
	items := payload.Cart.Order
	if bucket == domain.BucketReserve {
		txType = domain.TransactionReservation
		items = payload.Cart.Reserve
	}
	return domain.Transaction{
		ID:              transactionID(ts, bucket),
		Owner:           owner,
		Type:            txType,
		Items:           domain.CopyItems(items),
		Timestamp:       ts,
		Status:          domain.StatusPreparing,
		ServiceFeeCents: payload.ServiceFeeCents,
		UserInfo:        payload.UserInfo,
		PickupInfo:      payload.PickupInfo,
		PaymentMethod:   payload.PaymentMethod,
		PaymentDetails:  payload.PaymentDetails,
	}
}

// transactionID combines the commit timestamp, the bucket tag and a random
// suffix, so sibling transactions of one checkout stay distinct even under
// identical timestamps.
func transactionID(ts time.Time, bucket domain.Bucket) string {
	suffix := uuid.NewString()[:8]
	return fmt.Sprintf("%d-%s-%s", ts.UnixMilli(), bucket, suffix)
}
