package service

import (
	"context"

	"github.com/Mzatilife/Bello/internal/models"
)

// OrderEventPublisher publishes order lifecycle events to the broker.
// Publishing is best-effort: services log failures but never fail the
// operation over them.
type OrderEventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishOrderStatusChanged(ctx context.Context, order *models.Order, previous models.OrderStatus) error
	PublishOrderCancelled(ctx context.Context, order *models.Order, reason string) error
}
