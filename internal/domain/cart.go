package domain

// Bucket names one of the two cart partitions: immediate orders or
// scheduled pickup reservations.
type Bucket string

const (
	BucketOrder   Bucket = "order"
	BucketReserve Bucket = "reserve"
)

// Valid reports whether b is a known bucket.
func (b Bucket) Valid() bool {
	return b == BucketOrder || b == BucketReserve
}

// LineItem is one product entry inside a bucket. Identity within a bucket is
// the (ID, StoreID) pair; the same product may exist independently in both
// buckets.
type LineItem struct {
	ID         string   `json:"id"`
	StoreID    string   `json:"store_id,omitempty"`
	Name       string   `json:"name"`
	PriceCents int64    `json:"price"`
	Quantity   int      `json:"quantity"`
	Category   string   `json:"category,omitempty"`
	Image      string   `json:"image,omitempty"`
	Images     []string `json:"images,omitempty"`
	Type       Bucket   `json:"type,omitempty"`
}

func (li LineItem) matches(id, storeID string) bool {
	return li.ID == id && li.StoreID == storeID
}

// Cart is the dual-bucket line-item collection.
type Cart struct {
	Order   []LineItem `json:"order"`
	Reserve []LineItem `json:"reserve"`
}

// NewCart returns an empty cart with both buckets initialized, so the JSON
// snapshot always carries both keys.
func NewCart() *Cart {
	return &Cart{Order: []LineItem{}, Reserve: []LineItem{}}
}

func (c *Cart) bucket(b Bucket) *[]LineItem {
	if b == BucketReserve {
		return &c.Reserve
	}
	return &c.Order
}

// Items returns the line items of one bucket.
func (c *Cart) Items(b Bucket) []LineItem {
	return *c.bucket(b)
}

// Add merges item into the bucket named by item.Type. An existing row with
// the same (ID, StoreID) has its quantity incremented; otherwise a new row is
// appended with the given quantity (floored at 1).
func (c *Cart) Add(item LineItem, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	if !item.Type.Valid() {
		item.Type = BucketOrder
	}
	items := c.bucket(item.Type)
	for i := range *items {
		if (*items)[i].matches(item.ID, item.StoreID) {
			(*items)[i].Quantity += quantity
			return
		}
	}
	item.Quantity = quantity
	*items = append(*items, item)
}

// Remove deletes the matching row from the bucket regardless of quantity.
// An empty storeID matches on ID alone. Returns false when nothing matched.
func (c *Cart) Remove(id string, b Bucket, storeID string) bool {
	items := c.bucket(b)
	for i, li := range *items {
		if li.ID != id {
			continue
		}
		if storeID != "" && li.StoreID != storeID {
			continue
		}
		*items = append((*items)[:i], (*items)[i+1:]...)
		return true
	}
	return false
}

// SetQuantity sets the row's quantity to the exact value. A quantity of zero
// or less removes the row. Returns false when nothing matched.
func (c *Cart) SetQuantity(id string, quantity int, b Bucket, storeID string) bool {
	if quantity <= 0 {
		return c.Remove(id, b, storeID)
	}
	items := c.bucket(b)
	for i := range *items {
		li := (*items)[i]
		if li.ID != id {
			continue
		}
		if storeID != "" && li.StoreID != storeID {
			continue
		}
		(*items)[i].Quantity = quantity
		return true
	}
	return false
}

// Clear empties both buckets.
func (c *Cart) Clear() {
	c.Order = []LineItem{}
	c.Reserve = []LineItem{}
}

// ClearBucket empties one bucket.
func (c *Cart) ClearBucket(b Bucket) {
	*c.bucket(b) = []LineItem{}
}

// ClearStore removes every line item of the given store from one bucket.
func (c *Cart) ClearStore(storeID string, b Bucket) {
	items := c.bucket(b)
	kept := (*items)[:0]
	for _, li := range *items {
		if li.StoreID != storeID {
			kept = append(kept, li)
		}
	}
	*items = kept
}

// BucketTotal sums price*quantity over one bucket.
func (c *Cart) BucketTotal(b Bucket) int64 {
	var total int64
	for _, li := range c.Items(b) {
		total += li.PriceCents * int64(li.Quantity)
	}
	return total
}

// Subtotal sums price*quantity across both buckets.
func (c *Cart) Subtotal() int64 {
	return c.BucketTotal(BucketOrder) + c.BucketTotal(BucketReserve)
}

// StoreTotal sums price*quantity for one store. An empty bucket sums across
// both buckets.
func (c *Cart) StoreTotal(storeID string, b Bucket) int64 {
	var total int64
	for _, li := range c.StoreItems(storeID, b) {
		total += li.PriceCents * int64(li.Quantity)
	}
	return total
}

// ItemCount sums quantities, filtered by bucket when given, else across both.
func (c *Cart) ItemCount(b Bucket) int {
	count := 0
	if b == "" || b == BucketOrder {
		for _, li := range c.Order {
			count += li.Quantity
		}
	}
	if b == "" || b == BucketReserve {
		for _, li := range c.Reserve {
			count += li.Quantity
		}
	}
	return count
}

// StoreItems returns the line items belonging to one store, filtered by
// bucket when given.
func (c *Cart) StoreItems(storeID string, b Bucket) []LineItem {
	var out []LineItem
	if b == "" || b == BucketOrder {
		for _, li := range c.Order {
			if li.StoreID == storeID {
				out = append(out, li)
			}
		}
	}
	if b == "" || b == BucketReserve {
		for _, li := range c.Reserve {
			if li.StoreID == storeID {
				out = append(out, li)
			}
		}
	}
	return out
}

// Item returns the matching line item from one bucket, or nil.
func (c *Cart) Item(id, storeID string, b Bucket) *LineItem {
	items := c.bucket(b)
	for i := range *items {
		if (*items)[i].matches(id, storeID) {
			return &(*items)[i]
		}
	}
	return nil
}

// Has reports whether the item exists, using the same identity rule as Add.
// An empty bucket checks both buckets.
func (c *Cart) Has(id, storeID string, b Bucket) bool {
	if b == "" {
		return c.Item(id, storeID, BucketOrder) != nil || c.Item(id, storeID, BucketReserve) != nil
	}
	return c.Item(id, storeID, b) != nil
}

// Empty reports whether both buckets hold no items.
func (c *Cart) Empty() bool {
	return len(c.Order) == 0 && len(c.Reserve) == 0
}

// Clone returns a deep copy of the cart. Committed transactions hold clones
// so later cart mutations cannot reach them.
func (c *Cart) Clone() *Cart {
	out := &Cart{
		Order:   CopyItems(c.Order),
		Reserve: CopyItems(c.Reserve),
	}
	return out
}

// CopyItems deep-copies a line-item slice.
func CopyItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	for i := range out {
		if len(items[i].Images) > 0 {
			out[i].Images = append([]string(nil), items[i].Images...)
		}
	}
	return out
}
