package domain

import "time"

// TransactionType records which bucket a transaction was materialized from.
type TransactionType string

const (
	TransactionOrder       TransactionType = "order"
	TransactionReservation TransactionType = "reservation"
)

// Status is the lifecycle state of a transaction. Transactions of both types
// share one vocabulary; display labels branch by type (see DisplayStatus).
type Status string

const (
	StatusPreparing Status = "Preparing"
	StatusReady     Status = "Ready for pickup"
	StatusPickedUp  Status = "Picked up"
	StatusCancelled Status = "Cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPreparing, StatusReady, StatusPickedUp, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusPickedUp || s == StatusCancelled
}

// CanTransition reports whether a status change from one state to another is
// legal: Preparing -> Ready for pickup -> Picked up, with Cancelled reachable
// from any non-terminal state.
func CanTransition(from, to Status) bool {
	if from.Terminal() || !to.Valid() || from == to {
		return false
	}
	switch from {
	case StatusPreparing:
		return to == StatusReady || to == StatusCancelled
	case StatusReady:
		return to == StatusPickedUp || to == StatusCancelled
	}
	return false
}

// PaymentMethod is how the buyer chose to pay. Payment is recorded, not
// executed.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentGcash PaymentMethod = "gcash"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentGcash
}

// UserInfo is buyer contact info entered at checkout. Fields may be empty.
type UserInfo struct {
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
}

// PickupInfo is the requested pickup slot. Fields may be empty.
type PickupInfo struct {
	PickupDate string `json:"pickupDate"`
	PickupTime string `json:"pickupTime"`
}

// PaymentDetails carries gcash account info; absent for cash.
type PaymentDetails struct {
	AccountName string `json:"accountName"`
	Email       string `json:"email"`
	GcashNumber string `json:"gcashNumber"`
}

// Transaction is an immutable record created by committing a checkout, one
// per non-empty bucket. Only Status may change after append.
type Transaction struct {
	ID              string          `json:"id"`
	Owner           string          `json:"owner,omitempty"`
	Type            TransactionType `json:"type"`
	Items           []LineItem      `json:"items"`
	Timestamp       time.Time       `json:"timestamp"`
	Status          Status          `json:"status"`
	ServiceFeeCents int64           `json:"serviceFee"`
	UserInfo        UserInfo        `json:"userInfo"`
	PickupInfo      PickupInfo      `json:"pickupInfo"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	PaymentDetails  *PaymentDetails `json:"paymentDetails,omitempty"`
}

// ItemTotal sums price*quantity over the committed items.
func (t Transaction) ItemTotal() int64 {
	var total int64
	for _, li := range t.Items {
		total += li.PriceCents * int64(li.Quantity)
	}
	return total
}

// DisplayStatus is the user-facing label, which branches by transaction type
// for the initial state.
func DisplayStatus(t Transaction) string {
	if t.Status == StatusPreparing && t.Type == TransactionReservation {
		return "Preparing for pickup"
	}
	return string(t.Status)
}
