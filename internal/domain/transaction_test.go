package domain

import "testing"

func TestCanTransition(t *testing.T) {
	legal := []struct{ from, to Status }{
		{StatusPreparing, StatusReady},
		{StatusPreparing, StatusCancelled},
		{StatusReady, StatusPickedUp},
		{StatusReady, StatusCancelled},
	}
	for _, tc := range legal {
		if !CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s legal", tc.from, tc.to)
		}
	}

	illegal := []struct{ from, to Status }{
		{StatusPreparing, StatusPickedUp}, // skips ready
		{StatusPreparing, StatusPreparing},
		{StatusReady, StatusPreparing}, // no going back
		{StatusPickedUp, StatusCancelled},
		{StatusCancelled, StatusPreparing},
		{StatusPreparing, Status("Lost")},
	}
	for _, tc := range illegal {
		if CanTransition(tc.from, tc.to) {
			t.Fatalf("expected %s -> %s illegal", tc.from, tc.to)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusPreparing.Terminal() || StatusReady.Terminal() {
		t.Fatalf("active statuses must not be terminal")
	}
	if !StatusPickedUp.Terminal() || !StatusCancelled.Terminal() {
		t.Fatalf("picked up and cancelled must be terminal")
	}
}

func TestDisplayStatus(t *testing.T) {
	order := Transaction{Type: TransactionOrder, Status: StatusPreparing}
	if got := DisplayStatus(order); got != "Preparing" {
		t.Fatalf("order preparing label = %q", got)
	}

	res := Transaction{Type: TransactionReservation, Status: StatusPreparing}
	if got := DisplayStatus(res); got != "Preparing for pickup" {
		t.Fatalf("reservation preparing label = %q", got)
	}

	res.Status = StatusReady
	if got := DisplayStatus(res); got != "Ready for pickup" {
		t.Fatalf("ready label = %q", got)
	}
}

func TestTransactionItemTotal(t *testing.T) {
	tx := Transaction{Items: []LineItem{
		{PriceCents: 6500, Quantity: 2},
		{PriceCents: 500, Quantity: 1},
	}}
	if got := tx.ItemTotal(); got != 13500 {
		t.Fatalf("item total = %d, want 13500", got)
	}
}
