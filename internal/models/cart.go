package models

import "time"

// CartItem is one (buyer, listing) pairing with a desired quantity.
// At most one row exists per pair; adds upsert on conflict.
type CartItem struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ListingID string    `json:"listing_id"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Listing is the joined snapshot of the referenced listing. Nil when
	// the listing row has been removed.
	Listing *Listing `json:"listing,omitempty"`
}

// Purchasable reports whether this line may contribute to totals or be
// consumed by checkout.
func (c *CartItem) Purchasable() bool {
	return c.Listing.Purchasable()
}

// CartSummary aggregates a buyer's cart. Lines referencing inactive or
// missing listings are counted in neither the totals nor ValidItems.
type CartSummary struct {
	TotalItems  int   `json:"total_items"`
	ValidItems  int   `json:"valid_items"`
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee"`
	Total       int64 `json:"total"`
}

// AddToCartRequest is the payload for adding a listing to the cart.
type AddToCartRequest struct {
	ListingID string `json:"listing_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartQuantityRequest adjusts a cart line's quantity. Zero or
// negative removes the line, so the field must bind the zero value and
// carries no required tag.
type UpdateCartQuantityRequest struct {
	Quantity int `json:"quantity"`
}
