package domain

import "time"

// Product is a menu entry owned by a store. Browsing views turn products
// into LineItem descriptors when adding to the cart.
type Product struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"storeId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	PriceCents  int64     `json:"price"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Available   bool      `json:"available"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LineItem converts the product into a cart line-item descriptor for the
// given bucket.
func (p Product) LineItem(b Bucket) LineItem {
	return LineItem{
		ID:         p.ID,
		StoreID:    p.StoreID,
		Name:       p.Name,
		PriceCents: p.PriceCents,
		Category:   p.Category,
		Image:      p.ImageURL,
		Type:       b,
	}
}
