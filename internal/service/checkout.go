package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mzatilife/Bello/internal/config"
	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/metrics"
	"github.com/Mzatilife/Bello/internal/models"
	"github.com/Mzatilife/Bello/internal/repository"
)

// CheckoutService turns a buyer's cart into an order. The order header,
// order number, lines, seller payables, initial tracking event and cart
// clear all commit in one transaction, so checkout is all-or-nothing:
// a failure at any step leaves no partial rows and the cart intact.
type CheckoutService struct {
	orders    repository.OrderRepository
	cache     repository.OrderCache
	publisher OrderEventPublisher
	config    *config.Config
	logger    *slog.Logger

	now func() time.Time
}

func NewCheckoutService(
	orders repository.OrderRepository,
	cache repository.OrderCache,
	publisher OrderEventPublisher,
	cfg *config.Config,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		cache:     cache,
		publisher: publisher,
		config:    cfg,
		logger:    logger.With("component", "checkout-service"),
		now:       time.Now,
	}
}

// CreateOrderFromCart validates the checkout details, then builds and
// persists the order from the buyer's current cart. Totals are always
// recomputed from the cart rows read inside the transaction; a
// client-supplied total is never trusted. Lines whose listing is no
// longer active are excluded, and if none remain the checkout fails with
// errors.ErrEmptyCart before any write.
func (s *CheckoutService) CreateOrderFromCart(ctx context.Context, buyerID string, req *models.CheckoutRequest) (*models.Order, error) {
	if buyerID == "" {
		metrics.CheckoutFailures.WithLabelValues("unauthenticated").Inc()
		return nil, errors.ErrUnauthenticated
	}

	if err := ValidateCheckoutRequest(req); err != nil {
		metrics.CheckoutFailures.WithLabelValues("validation").Inc()
		return nil, err
	}

	s.logger.Info("creating order from cart", "buyer_id", buyerID)
	start := s.now()

	order, err := s.orders.CreateFromCart(ctx, buyerID, s.assembler(req), s.orderNumber)
	if err != nil {
		switch err {
		case errors.ErrEmptyCart:
			metrics.CheckoutFailures.WithLabelValues("empty_cart").Inc()
		default:
			metrics.CheckoutFailures.WithLabelValues("persistence").Inc()
		}
		s.logger.Error("checkout failed", "buyer_id", buyerID, "error", err)
		return nil, err
	}

	metrics.OrdersCreated.Inc()
	metrics.CheckoutDuration.Observe(s.now().Sub(start).Seconds())

	if s.config.Features.EnableOrderCaching {
		// The buyer's cached order list is stale now.
		if err := s.cache.InvalidateByBuyer(ctx, buyerID); err != nil {
			s.logger.Warn("failed to invalidate buyer order cache",
				"buyer_id", buyerID, "error", err)
		}
	}

	if s.config.Features.EnableOrderEvents {
		if err := s.publisher.PublishOrderCreated(ctx, order); err != nil {
			// Log but don't fail; the order is already durable.
			s.logger.Error("failed to publish order created event",
				"order_id", order.ID, "error", err)
		}
	}

	s.logger.Info("order created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"total_amount", order.TotalAmount,
		"lines", len(order.Items),
	)
	return order, nil
}

// assembler builds the order header and lines from the locked cart rows.
// It runs inside the checkout transaction.
func (s *CheckoutService) assembler(req *models.CheckoutRequest) repository.CheckoutAssembler {
	return func(items []*models.CartItem) (*models.Order, error) {
		rate := s.config.Checkout.CommissionRate

		var lines []models.OrderItem
		var subtotal, commission int64

		for _, item := range items {
			if !item.Purchasable() {
				continue
			}
			listing := item.Listing
			split := SplitLine(item.Quantity, listing.Price, rate)

			lines = append(lines, models.OrderItem{
				ListingID:        listing.ID,
				SellerID:         listing.UserID,
				Quantity:         item.Quantity,
				UnitPrice:        listing.Price,
				TotalPrice:       split.Total,
				CommissionAmount: split.Commission,
				SellerAmount:     split.SellerAmount,
				Title:            listing.Title,
				Description:      fmt.Sprintf("%s - %s", listing.Category, listing.Location),
				ImageURL:         listing.PrimaryImage(),
			})

			subtotal += split.Total
			commission += split.Commission
		}

		if len(lines) == 0 {
			return nil, errors.ErrEmptyCart
		}

		deliveryFee := s.config.Checkout.DeliveryFee
		return &models.Order{
			TotalAmount:      subtotal + deliveryFee,
			CommissionAmount: commission,
			CommissionRate:   rate,
			DeliveryFee:      deliveryFee,
			DeliveryAddress:  req.DeliveryAddress,
			PhoneNumber:      req.PhoneNumber,
			Notes:            req.Notes,
			Items:            lines,
		}, nil
	}
}

// orderNumber formats the date-scoped human-readable order number, e.g.
// BLO-20240131-00042 for the 42nd order of that day.
func (s *CheckoutService) orderNumber(sameDayCount int64) string {
	day := s.now().UTC().Format("20060102")
	return fmt.Sprintf("%s-%s-%05d", s.config.Checkout.OrderPrefix, day, sameDayCount+1)
}
