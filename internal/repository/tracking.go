package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Mzatilife/Bello/internal/models"
)

// PostgresTrackingRepository implements TrackingRepository using
// PostgreSQL. The table is append-only; rows are never updated.
type PostgresTrackingRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresTrackingRepository(db *sql.DB, logger *slog.Logger) *PostgresTrackingRepository {
	return &PostgresTrackingRepository{
		db:     db,
		logger: logger.With("component", "tracking-repository"),
	}
}

var _ TrackingRepository = (*PostgresTrackingRepository)(nil)

// Append writes one tracking event for an order.
func (r *PostgresTrackingRepository) Append(ctx context.Context, orderID, status, message, location string) (*models.DeliveryTrackingEvent, error) {
	event := &models.DeliveryTrackingEvent{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Status:    status,
		Message:   message,
		Location:  location,
		CreatedAt: time.Now(),
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO delivery_tracking (id, order_id, status, message, location, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`,
		event.ID, event.OrderID, event.Status, event.Message, event.Location, event.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to append tracking event",
			"order_id", orderID, "status", status, "error", err)
		return nil, err
	}

	r.logger.Info("tracking event appended", "order_id", orderID, "status", status)
	return event, nil
}

// History returns an order's tracking events, oldest first.
func (r *PostgresTrackingRepository) History(ctx context.Context, orderID string) ([]*models.DeliveryTrackingEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, status, message, location, created_at
		FROM delivery_tracking
		WHERE order_id = $1
		ORDER BY created_at`,
		orderID,
	)
	if err != nil {
		r.logger.Error("failed to load tracking history",
			"order_id", orderID, "error", err)
		return nil, err
	}
	defer rows.Close()

	events := make([]*models.DeliveryTrackingEvent, 0)
	for rows.Next() {
		event := &models.DeliveryTrackingEvent{}
		var location sql.NullString
		err := rows.Scan(
			&event.ID,
			&event.OrderID,
			&event.Status,
			&event.Message,
			&location,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		event.Location = location.String
		events = append(events, event)
	}
	return events, rows.Err()
}
