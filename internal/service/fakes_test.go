package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/Mzatilife/Bello/internal/config"
	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/models"
	"github.com/Mzatilife/Bello/internal/repository"
)

func testConfig() *config.Config {
	return &config.Config{
		Checkout: config.CheckoutConfig{
			CommissionRate: decimal.RequireFromString("0.15"),
			DeliveryFee:    5000,
			OrderPrefix:    "BLO",
			NumberRetries:  3,
		},
		Features: config.FeatureFlags{
			EnableOrderCaching: true,
			EnableOrderEvents:  true,
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func activeListing(id, sellerID string, price int64) *models.Listing {
	return &models.Listing{
		ID:       id,
		UserID:   sellerID,
		Title:    "Listing " + id,
		Price:    price,
		Category: "electronics",
		Location: "Lilongwe",
		Images:   []string{"https://img.example/" + id + ".jpg"},
		Status:   models.ListingStatusActive,
	}
}

func cartLine(id string, listing *models.Listing, quantity int) *models.CartItem {
	item := &models.CartItem{
		ID:       id,
		UserID:   "buyer-1",
		Quantity: quantity,
		Listing:  listing,
	}
	if listing != nil {
		item.ListingID = listing.ID
	}
	return item
}

// fakeOrderRepo runs the checkout closures the way the Postgres
// implementation does, minus the database.
type fakeOrderRepo struct {
	cart         []*models.CartItem
	sameDayCount int64
	createErr    error

	orders  map[string]*models.Order
	created int
}

func newFakeOrderRepo(cart []*models.CartItem) *fakeOrderRepo {
	return &fakeOrderRepo{cart: cart, orders: make(map[string]*models.Order)}
}

func (r *fakeOrderRepo) CreateFromCart(ctx context.Context, buyerID string, assemble repository.CheckoutAssembler, number repository.OrderNumberFunc) (*models.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}

	order, err := assemble(r.cart)
	if err != nil {
		return nil, err
	}

	r.created++
	order.ID = fmt.Sprintf("order-%d", r.created)
	order.OrderNumber = number(r.sameDayCount)
	order.BuyerID = buyerID
	order.Status = models.OrderStatusPending
	order.PaymentStatus = models.PaymentStatusPending

	r.orders[order.ID] = order
	r.cart = nil // checkout consumes the cart
	return order, nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return order, nil
}

func (r *fakeOrderRepo) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*models.Order, int, error) {
	var out []*models.Order
	for _, o := range r.orders {
		if o.BuyerID == buyerID {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, message string) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	order.Status = status
	order.Tracking = append(order.Tracking, models.DeliveryTrackingEvent{
		OrderID: id,
		Status:  string(status),
		Message: message,
	})
	return order, nil
}

func (r *fakeOrderRepo) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	order, ok := r.orders[id]
	if !ok {
		return errors.ErrNotFound
	}
	order.PaymentStatus = status
	return nil
}

// fakeOrderCache records invalidations.
type fakeOrderCache struct {
	store        map[string]*models.Order
	invalidated  []string
	buyerListing map[string][]*models.Order
	buyerTotals  map[string]int
}

func newFakeOrderCache() *fakeOrderCache {
	return &fakeOrderCache{
		store:        make(map[string]*models.Order),
		buyerListing: make(map[string][]*models.Order),
		buyerTotals:  make(map[string]int),
	}
}

func (c *fakeOrderCache) Get(ctx context.Context, id string) (*models.Order, error) {
	return c.store[id], nil
}

func (c *fakeOrderCache) Set(ctx context.Context, order *models.Order) error {
	c.store[order.ID] = order
	return nil
}

func (c *fakeOrderCache) Delete(ctx context.Context, id string) error {
	delete(c.store, id)
	return nil
}

func (c *fakeOrderCache) GetByBuyer(ctx context.Context, buyerID string) ([]*models.Order, int, error) {
	return c.buyerListing[buyerID], c.buyerTotals[buyerID], nil
}

func (c *fakeOrderCache) SetByBuyer(ctx context.Context, buyerID string, orders []*models.Order, total int) error {
	c.buyerListing[buyerID] = orders
	c.buyerTotals[buyerID] = total
	return nil
}

func (c *fakeOrderCache) InvalidateByBuyer(ctx context.Context, buyerID string) error {
	delete(c.buyerListing, buyerID)
	delete(c.buyerTotals, buyerID)
	c.invalidated = append(c.invalidated, buyerID)
	return nil
}

// fakeListingRepo serves listings from a map.
type fakeListingRepo struct {
	listings map[string]*models.Listing
}

func newFakeListingRepo(listings ...*models.Listing) *fakeListingRepo {
	m := make(map[string]*models.Listing, len(listings))
	for _, l := range listings {
		m[l.ID] = l
	}
	return &fakeListingRepo{listings: m}
}

func (r *fakeListingRepo) Create(ctx context.Context, listing *models.Listing) error {
	listing.ID = fmt.Sprintf("listing-%d", len(r.listings)+1)
	r.listings[listing.ID] = listing
	return nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	return listing, nil
}

func (r *fakeListingRepo) List(ctx context.Context, filter *models.ListingFilter) ([]*models.Listing, error) {
	var out []*models.Listing
	for _, l := range r.listings {
		if l.Status == models.ListingStatusActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) ListByUser(ctx context.Context, userID string) ([]*models.Listing, error) {
	var out []*models.Listing
	for _, l := range r.listings {
		if l.UserID == userID && l.Status != models.ListingStatusDeleted {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) Update(ctx context.Context, id string, req *models.UpdateListingRequest) (*models.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	if req.Title != nil {
		listing.Title = *req.Title
	}
	if req.Price != nil {
		listing.Price = *req.Price
	}
	return listing, nil
}

func (r *fakeListingRepo) SetStatus(ctx context.Context, id string, status models.ListingStatus) (*models.Listing, error) {
	listing, ok := r.listings[id]
	if !ok {
		return nil, errors.ErrNotFound
	}
	listing.Status = status
	return listing, nil
}

// fakeCartRepo keeps cart lines in order of insertion.
type fakeCartRepo struct {
	items []*models.CartItem
}

func (r *fakeCartRepo) Upsert(ctx context.Context, userID, listingID string, quantity int) (*models.CartItem, error) {
	for _, item := range r.items {
		if item.UserID == userID && item.ListingID == listingID {
			item.Quantity = quantity
			return item, nil
		}
	}
	item := &models.CartItem{
		ID:        fmt.Sprintf("cart-%d", len(r.items)+1),
		UserID:    userID,
		ListingID: listingID,
		Quantity:  quantity,
	}
	r.items = append(r.items, item)
	return item, nil
}

func (r *fakeCartRepo) UpdateQuantity(ctx context.Context, userID, cartItemID string, quantity int) (*models.CartItem, error) {
	for _, item := range r.items {
		if item.UserID == userID && item.ID == cartItemID {
			item.Quantity = quantity
			return item, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (r *fakeCartRepo) Delete(ctx context.Context, userID, cartItemID string) error {
	for i, item := range r.items {
		if item.UserID == userID && item.ID == cartItemID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *fakeCartRepo) ListWithListings(ctx context.Context, userID string) ([]*models.CartItem, error) {
	var out []*models.CartItem
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeCartRepo) Clear(ctx context.Context, userID string) error {
	var kept []*models.CartItem
	for _, item := range r.items {
		if item.UserID != userID {
			kept = append(kept, item)
		}
	}
	r.items = kept
	return nil
}

// fakePaymentRepo serves seller payables from a map.
type fakePaymentRepo struct {
	payments map[string]*models.SellerPayment
}

func newFakePaymentRepo(payments ...*models.SellerPayment) *fakePaymentRepo {
	m := make(map[string]*models.SellerPayment, len(payments))
	for _, p := range payments {
		m[p.ID] = p
	}
	return &fakePaymentRepo{payments: m}
}

func (r *fakePaymentRepo) ListBySeller(ctx context.Context, sellerID string) ([]*models.SellerPayment, error) {
	var out []*models.SellerPayment
	for _, p := range r.payments {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) MarkProcessing(ctx context.Context, id string, details json.RawMessage) (*models.SellerPayment, error) {
	p, ok := r.payments[id]
	if !ok || p.Status != models.SellerPaymentStatusPending {
		return nil, errors.ErrNotFound
	}
	p.Status = models.SellerPaymentStatusProcessing
	p.PaymentDetails = details
	return p, nil
}

func (r *fakePaymentRepo) MarkPaid(ctx context.Context, id string) (*models.SellerPayment, error) {
	p, ok := r.payments[id]
	if !ok || p.Status != models.SellerPaymentStatusProcessing {
		return nil, errors.ErrNotFound
	}
	p.Status = models.SellerPaymentStatusPaid
	return p, nil
}

// fakeTrackingRepo appends in memory.
type fakeTrackingRepo struct {
	events []*models.DeliveryTrackingEvent
}

func (r *fakeTrackingRepo) Append(ctx context.Context, orderID, status, message, location string) (*models.DeliveryTrackingEvent, error) {
	event := &models.DeliveryTrackingEvent{
		ID:       fmt.Sprintf("track-%d", len(r.events)+1),
		OrderID:  orderID,
		Status:   status,
		Message:  message,
		Location: location,
	}
	r.events = append(r.events, event)
	return event, nil
}

func (r *fakeTrackingRepo) History(ctx context.Context, orderID string) ([]*models.DeliveryTrackingEvent, error) {
	var out []*models.DeliveryTrackingEvent
	for _, e := range r.events {
		if e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}
