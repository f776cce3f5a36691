package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Mzatilife/Bello/internal/config"
	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/models"
	"github.com/Mzatilife/Bello/internal/repository"
)

// OrderService handles order reads, status transitions, seller payables
// and delivery tracking after checkout.
type OrderService struct {
	orders    repository.OrderRepository
	payments  repository.PaymentRepository
	tracking  repository.TrackingRepository
	cache     repository.OrderCache
	publisher OrderEventPublisher
	config    *config.Config
	logger    *slog.Logger
}

func NewOrderService(
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	tracking repository.TrackingRepository,
	cache repository.OrderCache,
	publisher OrderEventPublisher,
	cfg *config.Config,
	logger *slog.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		payments:  payments,
		tracking:  tracking,
		cache:     cache,
		publisher: publisher,
		config:    cfg,
		logger:    logger.With("component", "order-service"),
	}
}

// GetOrder retrieves an order with its lines and tracking, cache-first.
// Only the buyer may read their order.
func (s *OrderService) GetOrder(ctx context.Context, buyerID, orderID string) (*models.Order, error) {
	if buyerID == "" {
		return nil, errors.ErrUnauthenticated
	}

	if s.config.Features.EnableOrderCaching {
		if order, err := s.cache.Get(ctx, orderID); err == nil && order != nil {
			if order.BuyerID != buyerID {
				return nil, errors.ErrNotFound
			}
			return order, nil
		}
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, errors.ErrNotFound
	}

	if s.config.Features.EnableOrderCaching {
		if err := s.cache.Set(ctx, order); err != nil {
			s.logger.Warn("failed to cache order", "order_id", orderID, "error", err)
		}
	}
	return order, nil
}

// GetBuyerOrders lists the buyer's orders, newest first. The first page
// is served from cache when possible.
func (s *OrderService) GetBuyerOrders(ctx context.Context, buyerID string, limit, offset int) ([]*models.Order, int, error) {
	if buyerID == "" {
		return nil, 0, errors.ErrUnauthenticated
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	if s.config.Features.EnableOrderCaching && offset == 0 {
		if orders, total, err := s.cache.GetByBuyer(ctx, buyerID); err == nil && orders != nil {
			return orders, total, nil
		}
	}

	orders, total, err := s.orders.ListByBuyer(ctx, buyerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if s.config.Features.EnableOrderCaching && offset == 0 {
		if err := s.cache.SetByBuyer(ctx, buyerID, orders, total); err != nil {
			s.logger.Warn("failed to cache buyer orders", "buyer_id", buyerID, "error", err)
		}
	}
	return orders, total, nil
}

// UpdateOrderStatus transitions an order. Shipped, delivered and
// completed stamp the matching lifecycle timestamp, and every transition
// appends a tracking event.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, req *models.UpdateOrderStatusRequest) (*models.Order, error) {
	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !isValidStatusTransition(current.Status, req.Status) {
		return nil, errors.NewValidationError("status", fmt.Sprintf(
			"invalid status transition from %s to %s", current.Status, req.Status))
	}

	message := req.Message
	if message == "" {
		message = fmt.Sprintf("Order %s", req.Status)
	}

	previous := current.Status
	order, err := s.orders.UpdateStatus(ctx, orderID, req.Status, message)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, order)

	if s.config.Features.EnableOrderEvents {
		if err := s.publisher.PublishOrderStatusChanged(ctx, order, previous); err != nil {
			s.logger.Error("failed to publish status change event",
				"order_id", orderID, "error", err)
		}
	}

	return order, nil
}

// CancelOrder cancels an order that has not shipped yet.
func (s *OrderService) CancelOrder(ctx context.Context, buyerID, orderID, reason string) (*models.Order, error) {
	if reason == "" {
		return nil, errors.NewValidationError("reason", "cancellation reason is required")
	}
	if len(reason) > 500 {
		return nil, errors.NewValidationError("reason", "cancellation reason too long (max 500 characters)")
	}

	current, err := s.GetOrder(ctx, buyerID, orderID)
	if err != nil {
		return nil, err
	}
	if !current.CanCancel() {
		return nil, errors.NewValidationError("status", "order cannot be cancelled in current state")
	}

	order, err := s.orders.UpdateStatus(ctx, orderID, models.OrderStatusCancelled, "Order cancelled: "+reason)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx, order)

	if s.config.Features.EnableOrderEvents {
		if err := s.publisher.PublishOrderCancelled(ctx, order, reason); err != nil {
			s.logger.Error("failed to publish order cancelled event",
				"order_id", orderID, "error", err)
		}
	}

	s.logger.Info("order cancelled", "order_id", orderID, "reason", reason)
	return order, nil
}

// MarkOrderPaid records a completed buyer payment, reported by the
// payment processor through the event stream.
func (s *OrderService) MarkOrderPaid(ctx context.Context, orderID string) error {
	if err := s.orders.SetPaymentStatus(ctx, orderID, models.PaymentStatusPaid); err != nil {
		return err
	}
	s.invalidateCacheByID(ctx, orderID)
	return nil
}

// MarkOrderPaymentFailed records a failed buyer payment.
func (s *OrderService) MarkOrderPaymentFailed(ctx context.Context, orderID string) error {
	if err := s.orders.SetPaymentStatus(ctx, orderID, models.PaymentStatusFailed); err != nil {
		return err
	}
	s.invalidateCacheByID(ctx, orderID)
	return nil
}

// GetSellerPayments lists the payables owed to a seller.
func (s *OrderService) GetSellerPayments(ctx context.Context, sellerID string) ([]*models.SellerPayment, error) {
	if sellerID == "" {
		return nil, errors.ErrUnauthenticated
	}
	return s.payments.ListBySeller(ctx, sellerID)
}

// ProcessSellerPayment moves a pending payable to processing.
func (s *OrderService) ProcessSellerPayment(ctx context.Context, paymentID string, details json.RawMessage) (*models.SellerPayment, error) {
	return s.payments.MarkProcessing(ctx, paymentID, details)
}

// CompleteSellerPayment marks a processing payable paid.
func (s *OrderService) CompleteSellerPayment(ctx context.Context, paymentID string) (*models.SellerPayment, error) {
	return s.payments.MarkPaid(ctx, paymentID)
}

// AddTrackingUpdate appends a delivery event without changing the order
// status (e.g. "parcel at depot").
func (s *OrderService) AddTrackingUpdate(ctx context.Context, orderID string, req *models.AddTrackingRequest) (*models.DeliveryTrackingEvent, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	event, err := s.tracking.Append(ctx, orderID, req.Status, req.Message, req.Location)
	if err != nil {
		return nil, err
	}
	s.invalidateCacheByID(ctx, orderID)
	return event, nil
}

// GetTrackingHistory returns an order's delivery events, oldest first.
func (s *OrderService) GetTrackingHistory(ctx context.Context, buyerID, orderID string) ([]*models.DeliveryTrackingEvent, error) {
	if _, err := s.GetOrder(ctx, buyerID, orderID); err != nil {
		return nil, err
	}
	return s.tracking.History(ctx, orderID)
}

func (s *OrderService) invalidateCache(ctx context.Context, order *models.Order) {
	if !s.config.Features.EnableOrderCaching {
		return
	}
	s.cache.Delete(ctx, order.ID)
	s.cache.InvalidateByBuyer(ctx, order.BuyerID)
}

func (s *OrderService) invalidateCacheByID(ctx context.Context, orderID string) {
	if !s.config.Features.EnableOrderCaching {
		return
	}
	if order, err := s.orders.GetByID(ctx, orderID); err == nil {
		s.invalidateCache(ctx, order)
	}
}

// isValidStatusTransition encodes the order lifecycle. Cancelled and
// refunded are terminal.
func isValidStatusTransition(from, to models.OrderStatus) bool {
	validTransitions := map[models.OrderStatus][]models.OrderStatus{
		models.OrderStatusPending:    {models.OrderStatusConfirmed, models.OrderStatusCancelled},
		models.OrderStatusConfirmed:  {models.OrderStatusProcessing, models.OrderStatusCancelled},
		models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
		models.OrderStatusShipped:    {models.OrderStatusDelivered},
		models.OrderStatusDelivered:  {models.OrderStatusCompleted, models.OrderStatusRefunded},
		models.OrderStatusCompleted:  {models.OrderStatusRefunded},
		models.OrderStatusCancelled:  {},
		models.OrderStatusRefunded:   {},
	}

	allowed, ok := validTransitions[from]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}
