package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Mzatilife/Bello/internal/config"
)

// PaymentEventType identifies a payment processor event.
type PaymentEventType string

const (
	PaymentEventCompleted PaymentEventType = "payment.completed"
	PaymentEventFailed    PaymentEventType = "payment.failed"
)

// PaymentEvent is the envelope read from the payments topic.
type PaymentEvent struct {
	ID        string           `json:"id"`
	Type      PaymentEventType `json:"type"`
	PaymentID string           `json:"payment_id"`
	OrderID   string           `json:"order_id"`
	Data      json.RawMessage  `json:"data"`
	Timestamp time.Time        `json:"timestamp"`
}

// PaymentStatusUpdater applies payment outcomes to orders.
type PaymentStatusUpdater interface {
	MarkOrderPaid(ctx context.Context, orderID string) error
	MarkOrderPaymentFailed(ctx context.Context, orderID string) error
}

// KafkaConsumer consumes payment events and updates order payment status.
type KafkaConsumer struct {
	reader  *kafka.Reader
	updater PaymentStatusUpdater
	logger  *slog.Logger
	stopCh  chan struct{}
}

func NewKafkaConsumer(cfg config.KafkaConfig, updater PaymentStatusUpdater, logger *slog.Logger) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.PaymentsTopic,
		GroupID:  cfg.ConsumerGroup,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})

	return &KafkaConsumer{
		reader:  reader,
		updater: updater,
		logger:  logger.With("component", "kafka-consumer"),
		stopCh:  make(chan struct{}),
	}
}

// Start reads messages until the context is cancelled or Stop is called.
func (c *KafkaConsumer) Start(ctx context.Context) error {
	c.logger.Info("starting payment event consumer")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.stopCh:
			c.logger.Info("payment event consumer stopped")
			return nil
		default:
			msg, err := c.reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				c.logger.Error("failed to read message", "error", err)
				continue
			}
			c.handleMessage(ctx, msg)
		}
	}
}

// Stop shuts the consumer down.
func (c *KafkaConsumer) Stop() {
	close(c.stopCh)
	c.reader.Close()
}

func (c *KafkaConsumer) handleMessage(ctx context.Context, msg kafka.Message) {
	var event PaymentEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.Error("failed to unmarshal payment event",
			"partition", msg.Partition, "offset", msg.Offset, "error", err)
		return
	}

	if event.OrderID == "" {
		c.logger.Warn("payment event without order id", "event_id", event.ID)
		return
	}

	switch event.Type {
	case PaymentEventCompleted:
		if err := c.updater.MarkOrderPaid(ctx, event.OrderID); err != nil {
			c.logger.Error("failed to mark order paid",
				"order_id", event.OrderID, "error", err)
			return
		}
		c.logger.Info("order marked paid", "order_id", event.OrderID, "payment_id", event.PaymentID)
	case PaymentEventFailed:
		if err := c.updater.MarkOrderPaymentFailed(ctx, event.OrderID); err != nil {
			c.logger.Error("failed to mark order payment failed",
				"order_id", event.OrderID, "error", err)
			return
		}
		c.logger.Info("order payment failed", "order_id", event.OrderID, "payment_id", event.PaymentID)
	default:
		c.logger.Debug("ignoring event type", "type", event.Type)
	}
}
