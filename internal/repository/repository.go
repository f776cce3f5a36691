// Package repository is the Ledger Store boundary: filtered row-oriented
// reads and writes against Postgres, plus the Redis order cache.
package repository

import (
	"context"
	"encoding/json"

	"github.com/Mzatilife/Bello/internal/models"
)

// CartRepository persists cart lines. At most one row exists per
// (user, listing) pair.
type CartRepository interface {
	// Upsert creates or replaces the (user, listing) cart line.
	Upsert(ctx context.Context, userID, listingID string, quantity int) (*models.CartItem, error)

	// UpdateQuantity sets the quantity of one of the user's cart lines.
	UpdateQuantity(ctx context.Context, userID, cartItemID string, quantity int) (*models.CartItem, error)

	// Delete removes one of the user's cart lines.
	Delete(ctx context.Context, userID, cartItemID string) error

	// ListWithListings returns all of the user's cart lines joined with
	// the current listing snapshot, newest first. Lines whose listing row
	// is gone have a nil Listing.
	ListWithListings(ctx context.Context, userID string) ([]*models.CartItem, error)

	// Clear deletes every cart line belonging to the user.
	Clear(ctx context.Context, userID string) error
}

// ListingRepository persists sellable items.
type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id string) (*models.Listing, error)
	List(ctx context.Context, filter *models.ListingFilter) ([]*models.Listing, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Listing, error)
	Update(ctx context.Context, id string, req *models.UpdateListingRequest) (*models.Listing, error)
	SetStatus(ctx context.Context, id string, status models.ListingStatus) (*models.Listing, error)
}

// CheckoutAssembler builds the order (header plus lines, without ids or
// an order number) from the buyer's locked cart rows. Returning
// errors.ErrEmptyCart aborts the transaction before any write.
type CheckoutAssembler func(items []*models.CartItem) (*models.Order, error)

// OrderNumberFunc formats the human-readable order number given the
// count of orders already created on the same calendar day.
type OrderNumberFunc func(sameDayCount int64) string

// OrderRepository persists orders and their dependents.
type OrderRepository interface {
	// CreateFromCart runs the whole checkout as one transaction: lock and
	// read the buyer's cart, assemble the order, allocate the order
	// number, insert the order, its lines, one pending seller payment per
	// line and the initial tracking event, then clear the cart. On any
	// failure everything rolls back. An order-number collision retries
	// the transaction a bounded number of times.
	CreateFromCart(ctx context.Context, buyerID string, assemble CheckoutAssembler, number OrderNumberFunc) (*models.Order, error)

	// GetByID returns an order with its lines and tracking history.
	GetByID(ctx context.Context, id string) (*models.Order, error)

	// ListByBuyer returns the buyer's orders, newest first, with lines.
	ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*models.Order, int, error)

	// UpdateStatus transitions the order, stamps the matching lifecycle
	// timestamp and appends a tracking event, atomically.
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus, message string) (*models.Order, error)

	// SetPaymentStatus updates the buyer payment state of an order.
	SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error
}

// PaymentRepository persists seller payables.
type PaymentRepository interface {
	ListBySeller(ctx context.Context, sellerID string) ([]*models.SellerPayment, error)
	MarkProcessing(ctx context.Context, id string, details json.RawMessage) (*models.SellerPayment, error)
	MarkPaid(ctx context.Context, id string) (*models.SellerPayment, error)
}

// TrackingRepository persists the append-only delivery history.
type TrackingRepository interface {
	Append(ctx context.Context, orderID, status, message, location string) (*models.DeliveryTrackingEvent, error)
	History(ctx context.Context, orderID string) ([]*models.DeliveryTrackingEvent, error)
}

// FavoriteRepository persists saved listings.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, listingID string) (*models.Favorite, error)
	Remove(ctx context.Context, userID, listingID string) error
	List(ctx context.Context, userID string) ([]*models.Favorite, error)
	Exists(ctx context.Context, userID, listingID string) (bool, error)
}

// OrderCache caches order reads. The buyer list is cached together with
// the buyer's true order count, since a cached page may be shorter than
// the full history.
type OrderCache interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	Set(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
	GetByBuyer(ctx context.Context, buyerID string) ([]*models.Order, int, error)
	SetByBuyer(ctx context.Context, buyerID string, orders []*models.Order, total int) error
	InvalidateByBuyer(ctx context.Context, buyerID string) error
}
