package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/models"
)

const orderPlacedMessage = "Order placed successfully"

// PostgresOrderRepository implements OrderRepository using PostgreSQL.
type PostgresOrderRepository struct {
	db            *sql.DB
	numberRetries int
	logger        *slog.Logger
}

func NewPostgresOrderRepository(db *sql.DB, numberRetries int, logger *slog.Logger) *PostgresOrderRepository {
	if numberRetries < 1 {
		numberRetries = 1
	}
	return &PostgresOrderRepository{
		db:            db,
		numberRetries: numberRetries,
		logger:        logger.With("component", "order-repository"),
	}
}

var _ OrderRepository = (*PostgresOrderRepository)(nil)

// CreateFromCart runs the whole checkout as one transaction. The buyer's
// cart rows are read FOR UPDATE, so a racing checkout for the same buyer
// blocks here and then observes an empty cart. The order number is
// allocated from the same-day order count inside the transaction and
// backed by a unique index; a collision with a concurrent writer retries
// the whole transaction.
func (r *PostgresOrderRepository) CreateFromCart(ctx context.Context, buyerID string, assemble CheckoutAssembler, number OrderNumberFunc) (*models.Order, error) {
	var lastErr error
	for attempt := 0; attempt < r.numberRetries; attempt++ {
		order, err := r.createFromCartOnce(ctx, buyerID, assemble, number)
		if err == nil {
			return order, nil
		}
		lastErr = err
		if !isOrderNumberCollision(err) {
			return nil, err
		}
		r.logger.Warn("order number collision, retrying checkout",
			"buyer_id", buyerID, "attempt", attempt+1)
	}
	return nil, lastErr
}

func (r *PostgresOrderRepository) createFromCartOnce(ctx context.Context, buyerID string, assemble CheckoutAssembler, number OrderNumberFunc) (*models.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	items, err := lockCartLines(ctx, tx, buyerID)
	if err != nil {
		return nil, err
	}

	order, err := assemble(items)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var sameDayCount int64
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE created_at >= $1 AND created_at < $2`,
		dayStart, dayStart.AddDate(0, 0, 1),
	).Scan(&sameDayCount)
	if err != nil {
		return nil, err
	}

	order.ID = uuid.NewString()
	order.OrderNumber = number(sameDayCount)
	order.BuyerID = buyerID
	order.Status = models.OrderStatusPending
	order.PaymentStatus = models.PaymentStatusPending
	order.CreatedAt = now
	order.UpdatedAt = now

	addressJSON, err := json.Marshal(order.DeliveryAddress)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, order_number, buyer_id, total_amount, commission_amount,
			commission_rate, delivery_fee, status, payment_status, delivery_address,
			phone_number, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)`,
		order.ID,
		order.OrderNumber,
		order.BuyerID,
		order.TotalAmount,
		order.CommissionAmount,
		order.CommissionRate,
		order.DeliveryFee,
		order.Status,
		order.PaymentStatus,
		addressJSON,
		order.PhoneNumber,
		order.Notes,
		now,
	)
	if err != nil {
		return nil, err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.ID = uuid.NewString()
		item.OrderID = order.ID
		item.CreatedAt = now

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_items (id, order_id, listing_id, seller_id, quantity,
				unit_price, total_price, commission_amount, seller_amount,
				title, description, image_url, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			item.ID,
			item.OrderID,
			item.ListingID,
			item.SellerID,
			item.Quantity,
			item.UnitPrice,
			item.TotalPrice,
			item.CommissionAmount,
			item.SellerAmount,
			item.Title,
			item.Description,
			item.ImageURL,
			now,
		)
		if err != nil {
			return nil, err
		}

		// One pending payable per line, amount = the line's seller split.
		_, err = tx.ExecContext(ctx, `
			INSERT INTO seller_payments (id, seller_id, order_id, order_item_id,
				amount, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
			uuid.NewString(),
			item.SellerID,
			order.ID,
			item.ID,
			item.SellerAmount,
			models.SellerPaymentStatusPending,
			now,
		)
		if err != nil {
			return nil, err
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO delivery_tracking (id, order_id, status, message, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(),
		order.ID,
		models.OrderStatusPending,
		orderPlacedMessage,
		now,
	)
	if err != nil {
		return nil, err
	}

	// Checkout empties the whole cart, not just the consumed lines.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1`, buyerID,
	); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	r.logger.Info("order created",
		"order_id", order.ID,
		"order_number", order.OrderNumber,
		"buyer_id", buyerID,
		"lines", len(order.Items),
		"total_amount", order.TotalAmount,
	)
	return order, nil
}

// lockCartLines reads the buyer's cart joined with listing snapshots,
// locking the cart rows for the duration of the transaction.
func lockCartLines(ctx context.Context, tx *sql.Tx, buyerID string) ([]*models.CartItem, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT ci.id, ci.user_id, ci.listing_id, ci.quantity, ci.created_at, ci.updated_at,
		       l.id, l.user_id, l.title, l.description, l.price, l.category,
		       l.condition, l.location, l.images, l.status, l.views, l.likes,
		       l.created_at, l.updated_at
		FROM cart_items ci
		LEFT JOIN listings l ON l.id = ci.listing_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at
		FOR UPDATE OF ci`,
		buyerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*models.CartItem, 0)
	for rows.Next() {
		item, err := scanCartItemWithListing(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func isOrderNumberCollision(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == "23505" && pqErr.Constraint == "orders_order_number_key"
}

const orderColumns = `id, order_number, buyer_id, total_amount, commission_amount,
	commission_rate, delivery_fee, status, payment_status, delivery_address,
	phone_number, notes, created_at, updated_at, shipped_at, delivered_at, completed_at`

// GetByID returns an order with its lines and tracking history.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to fetch order", "order_id", id, "error", err)
		return nil, err
	}

	if order.Items, err = r.loadItems(ctx, order.ID); err != nil {
		return nil, err
	}
	if order.Tracking, err = r.loadTracking(ctx, order.ID); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByBuyer returns the buyer's orders, newest first, with lines.
func (r *PostgresOrderRepository) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*models.Order, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE buyer_id = $1`, buyerID,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE buyer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, buyerID, limit, offset)
	if err != nil {
		r.logger.Error("failed to list orders", "buyer_id", buyerID, "error", err)
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, order := range orders {
		if order.Items, err = r.loadItems(ctx, order.ID); err != nil {
			return nil, 0, err
		}
	}

	return orders, total, nil
}

// UpdateStatus transitions the order, stamps the matching lifecycle
// timestamp and appends a tracking event, atomically.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, message string) (*models.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now()

	var shippedAt, deliveredAt, completedAt *time.Time
	switch status {
	case models.OrderStatusShipped:
		shippedAt = &now
	case models.OrderStatusDelivered:
		deliveredAt = &now
	case models.OrderStatusCompleted:
		completedAt = &now
	}

	var returnedID string
	err = tx.QueryRowContext(ctx, `
		UPDATE orders
		SET status = $2, updated_at = $3,
		    shipped_at = COALESCE($4, shipped_at),
		    delivered_at = COALESCE($5, delivered_at),
		    completed_at = COALESCE($6, completed_at)
		WHERE id = $1
		RETURNING id`,
		id, status, now, shippedAt, deliveredAt, completedAt,
	).Scan(&returnedID)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to update order status",
			"order_id", id, "status", status, "error", err)
		return nil, err
	}

	if message != "" {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO delivery_tracking (id, order_id, status, message, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.NewString(), id, status, message, now,
		)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	r.logger.Info("order status updated", "order_id", id, "status", status)
	return r.GetByID(ctx, id)
}

// SetPaymentStatus updates the buyer payment state of an order.
func (r *PostgresOrderRepository) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE orders SET payment_status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now(),
	)
	if err != nil {
		r.logger.Error("failed to set payment status",
			"order_id", id, "payment_status", status, "error", err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errors.ErrNotFound
	}

	r.logger.Info("order payment status set", "order_id", id, "payment_status", status)
	return nil
}

func (r *PostgresOrderRepository) loadItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, listing_id, seller_id, quantity, unit_price,
		       total_price, commission_amount, seller_amount, title,
		       description, image_url, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.OrderItem, 0)
	for rows.Next() {
		var item models.OrderItem
		var listingID, description, imageURL sql.NullString
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&listingID,
			&item.SellerID,
			&item.Quantity,
			&item.UnitPrice,
			&item.TotalPrice,
			&item.CommissionAmount,
			&item.SellerAmount,
			&item.Title,
			&description,
			&imageURL,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		item.ListingID = listingID.String
		item.Description = description.String
		item.ImageURL = imageURL.String
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *PostgresOrderRepository) loadTracking(ctx context.Context, orderID string) ([]models.DeliveryTrackingEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, order_id, status, message, location, created_at
		FROM delivery_tracking
		WHERE order_id = $1
		ORDER BY created_at`,
		orderID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]models.DeliveryTrackingEvent, 0)
	for rows.Next() {
		var event models.DeliveryTrackingEvent
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

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}
	var addressJSON []byte
	var notes sql.NullString
	var shippedAt, deliveredAt, completedAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.OrderNumber,
		&order.BuyerID,
		&order.TotalAmount,
		&order.CommissionAmount,
		&order.CommissionRate,
		&order.DeliveryFee,
		&order.Status,
		&order.PaymentStatus,
		&addressJSON,
		&order.PhoneNumber,
		&notes,
		&order.CreatedAt,
		&order.UpdatedAt,
		&shippedAt,
		&deliveredAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(addressJSON, &order.DeliveryAddress); err != nil {
		return nil, err
	}
	order.Notes = notes.String
	if shippedAt.Valid {
		order.ShippedAt = &shippedAt.Time
	}
	if deliveredAt.Valid {
		order.DeliveredAt = &deliveredAt.Time
	}
	if completedAt.Valid {
		order.CompletedAt = &completedAt.Time
	}
	return order, nil
}
