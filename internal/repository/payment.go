package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/models"
)

// PostgresPaymentRepository implements PaymentRepository using PostgreSQL.
// Payables are only ever created by the checkout transaction; this
// repository moves them through pending -> processing -> paid.
type PostgresPaymentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresPaymentRepository(db *sql.DB, logger *slog.Logger) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db:     db,
		logger: logger.With("component", "payment-repository"),
	}
}

var _ PaymentRepository = (*PostgresPaymentRepository)(nil)

const paymentColumns = `id, seller_id, order_id, order_item_id, amount,
	status, payment_details, created_at, updated_at, processed_at`

// ListBySeller returns a seller's payables, newest first.
func (r *PostgresPaymentRepository) ListBySeller(ctx context.Context, sellerID string) ([]*models.SellerPayment, error) {
	query := `SELECT ` + paymentColumns + `
		FROM seller_payments
		WHERE seller_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sellerID)
	if err != nil {
		r.logger.Error("failed to list seller payments",
			"seller_id", sellerID, "error", err)
		return nil, err
	}
	defer rows.Close()

	payments := make([]*models.SellerPayment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

// MarkProcessing moves a pending payable to processing and records the
// payment detail blob and processing time.
func (r *PostgresPaymentRepository) MarkProcessing(ctx context.Context, id string, details json.RawMessage) (*models.SellerPayment, error) {
	now := time.Now()
	query := `
		UPDATE seller_payments
		SET status = $2, payment_details = $3, processed_at = $4, updated_at = $4
		WHERE id = $1 AND status = $5
		RETURNING ` + paymentColumns

	payment, err := scanPayment(r.db.QueryRowContext(ctx, query,
		id, models.SellerPaymentStatusProcessing, []byte(details), now,
		models.SellerPaymentStatusPending,
	))
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to mark payment processing",
			"payment_id", id, "error", err)
		return nil, err
	}

	r.logger.Info("seller payment processing",
		"payment_id", id, "amount", payment.Amount)
	return payment, nil
}

// MarkPaid completes a processing payable.
func (r *PostgresPaymentRepository) MarkPaid(ctx context.Context, id string) (*models.SellerPayment, error) {
	query := `
		UPDATE seller_payments
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
		RETURNING ` + paymentColumns

	payment, err := scanPayment(r.db.QueryRowContext(ctx, query,
		id, models.SellerPaymentStatusPaid, time.Now(),
		models.SellerPaymentStatusProcessing,
	))
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to mark payment paid", "payment_id", id, "error", err)
		return nil, err
	}

	r.logger.Info("seller payment paid",
		"payment_id", id, "amount", payment.Amount)
	return payment, nil
}

func scanPayment(row rowScanner) (*models.SellerPayment, error) {
	payment := &models.SellerPayment{}
	var details []byte
	var processedAt sql.NullTime

	err := row.Scan(
		&payment.ID,
		&payment.SellerID,
		&payment.OrderID,
		&payment.OrderItemID,
		&payment.Amount,
		&payment.Status,
		&details,
		&payment.CreatedAt,
		&payment.UpdatedAt,
		&processedAt,
	)
	if err != nil {
		return nil, err
	}

	payment.PaymentDetails = details
	if processedAt.Valid {
		payment.ProcessedAt = &processedAt.Time
	}
	return payment, nil
}
