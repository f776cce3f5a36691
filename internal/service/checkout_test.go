package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/events"
	"github.com/Mzatilife/Bello/internal/models"
)

func newCheckoutFixture(cart []*models.CartItem) (*CheckoutService, *fakeOrderRepo, *fakeOrderCache, *events.MockEventPublisher) {
	repo := newFakeOrderRepo(cart)
	cache := newFakeOrderCache()
	publisher := events.NewMockEventPublisher()

	svc := NewCheckoutService(repo, cache, publisher, testConfig(), testLogger())
	svc.now = func() time.Time {
		return time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)
	}
	return svc, repo, cache, publisher
}

func TestCreateOrderFromCart(t *testing.T) {
	cart := []*models.CartItem{
		cartLine("c1", activeListing("l1", "seller-1", 7500), 1),
		cartLine("c2", activeListing("l2", "seller-2", 3500), 2),
	}
	svc, _, cache, publisher := newCheckoutFixture(cart)

	order, err := svc.CreateOrderFromCart(context.Background(), "buyer-1", validCheckoutRequest())
	require.NoError(t, err)

	assert.Equal(t, "buyer-1", order.BuyerID)
	assert.Equal(t, "BLO-20240131-00001", order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)

	// 7500 + 7000 subtotal, 5000 delivery fee.
	assert.Equal(t, int64(19500), order.TotalAmount)
	assert.Equal(t, int64(5000), order.DeliveryFee)
	// 1125 + 1050, summed per line.
	assert.Equal(t, int64(2175), order.CommissionAmount)

	require.Len(t, order.Items, 2)
	var lineTotal, lineCommission int64
	for _, line := range order.Items {
		assert.Equal(t, line.TotalPrice, line.SellerAmount+line.CommissionAmount,
			"line split must be exact")
		lineTotal += line.TotalPrice
		lineCommission += line.CommissionAmount
	}
	assert.Equal(t, order.TotalAmount, lineTotal+order.DeliveryFee)
	assert.Equal(t, order.CommissionAmount, lineCommission)

	// Listing snapshot is copied onto the line.
	assert.Equal(t, "Listing l1", order.Items[0].Title)
	assert.Equal(t, "electronics - Lilongwe", order.Items[0].Description)
	assert.Equal(t, "https://img.example/l1.jpg", order.Items[0].ImageURL)

	assert.Contains(t, cache.invalidated, "buyer-1")
	require.Len(t, publisher.Events, 1)
	assert.Equal(t, events.EventTypeOrderCreated, publisher.Events[0].Type)
}

func TestCreateOrderFromCartSkipsUnpurchasableLines(t *testing.T) {
	sold := activeListing("l2", "seller-2", 99999)
	sold.Status = models.ListingStatusSold

	cart := []*models.CartItem{
		cartLine("c1", activeListing("l1", "seller-1", 7500), 1),
		cartLine("c2", sold, 1),
		cartLine("c3", nil, 1), // listing row deleted
	}
	svc, _, _, _ := newCheckoutFixture(cart)

	order, err := svc.CreateOrderFromCart(context.Background(), "buyer-1", validCheckoutRequest())
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "l1", order.Items[0].ListingID)
	assert.Equal(t, int64(12500), order.TotalAmount) // 7500 + delivery fee
}

func TestCreateOrderFromCartEmptyCart(t *testing.T) {
	svc, repo, _, publisher := newCheckoutFixture(nil)

	_, err := svc.CreateOrderFromCart(context.Background(), "buyer-1", validCheckoutRequest())
	assert.ErrorIs(t, err, errors.ErrEmptyCart)
	assert.Zero(t, repo.created)
	assert.Empty(t, publisher.Events)
}

func TestCreateOrderFromCartAllLinesInvalid(t *testing.T) {
	sold := activeListing("l1", "seller-1", 7500)
	sold.Status = models.ListingStatusSold

	svc, repo, _, _ := newCheckoutFixture([]*models.CartItem{cartLine("c1", sold, 1)})

	_, err := svc.CreateOrderFromCart(context.Background(), "buyer-1", validCheckoutRequest())
	assert.ErrorIs(t, err, errors.ErrEmptyCart)
	assert.Zero(t, repo.created)
}

func TestCreateOrderFromCartSecondCheckoutFindsEmptyCart(t *testing.T) {
	cart := []*models.CartItem{
		cartLine("c1", activeListing("l1", "seller-1", 7500), 1),
	}
	svc, _, _, _ := newCheckoutFixture(cart)

	_, err := svc.CreateOrderFromCart(context.Background(), "buyer-1", validCheckoutRequest())
	require.NoError(t, err)

	// The first checkout consumed the cart, so a concurrent duplicate
	// submission fails instead of producing a second order.
	_, err = svc.CreateOrderFromCart(context.Background(), "buyer-1", validCheckoutRequest())
	assert.ErrorIs(t, err, errors.ErrEmptyCart)
}

func TestCreateOrderFromCartRejectsInvalidRequest(t *testing.T) {
	cart := []*models.CartItem{
		cartLine("c1", activeListing("l1", "seller-1", 7500), 1),
	}
	svc, repo, _, _ := newCheckoutFixture(cart)

	req := validCheckoutRequest()
	req.PhoneNumber = "bogus"

	_, err := svc.CreateOrderFromCart(context.Background(), "buyer-1", req)
	var verr *errors.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "phone_number", verr.Field)
	assert.Zero(t, repo.created, "nothing may be written on validation failure")
}

func TestCreateOrderFromCartUnauthenticated(t *testing.T) {
	svc, repo, _, _ := newCheckoutFixture(nil)

	_, err := svc.CreateOrderFromCart(context.Background(), "", validCheckoutRequest())
	assert.ErrorIs(t, err, errors.ErrUnauthenticated)
	assert.Zero(t, repo.created)
}

func TestOrderNumberFormat(t *testing.T) {
	svc, _, _, _ := newCheckoutFixture(nil)

	assert.Equal(t, "BLO-20240131-00001", svc.orderNumber(0))
	assert.Equal(t, "BLO-20240131-00043", svc.orderNumber(42))
	assert.Equal(t, "BLO-20240131-100000", svc.orderNumber(99999), "sequence may exceed five digits")
}
