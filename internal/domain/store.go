package domain

import "time"

// Store is a vendor storefront on campus.
type Store struct {
	ID          string    `json:"id"`
	VendorID    string    `json:"vendorId,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	LogoURL     string    `json:"logoUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
