package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/models"
)

// PostgresCartRepository implements CartRepository using PostgreSQL.
type PostgresCartRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresCartRepository(db *sql.DB, logger *slog.Logger) *PostgresCartRepository {
	return &PostgresCartRepository{
		db:     db,
		logger: logger.With("component", "cart-repository"),
	}
}

var _ CartRepository = (*PostgresCartRepository)(nil)

// Upsert creates or replaces the (user, listing) cart line.
func (r *PostgresCartRepository) Upsert(ctx context.Context, userID, listingID string, quantity int) (*models.CartItem, error) {
	now := time.Now()

	query := `
		INSERT INTO cart_items (id, user_id, listing_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (user_id, listing_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
		RETURNING id, user_id, listing_id, quantity, created_at, updated_at
	`

	item := &models.CartItem{}
	err := r.db.QueryRowContext(ctx, query, uuid.NewString(), userID, listingID, quantity, now).Scan(
		&item.ID,
		&item.UserID,
		&item.ListingID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to upsert cart line",
			"user_id", userID, "listing_id", listingID, "error", err)
		return nil, err
	}

	r.logger.Debug("cart line upserted",
		"user_id", userID, "listing_id", listingID, "quantity", quantity)
	return item, nil
}

// UpdateQuantity sets the quantity of one of the user's cart lines.
func (r *PostgresCartRepository) UpdateQuantity(ctx context.Context, userID, cartItemID string, quantity int) (*models.CartItem, error) {
	query := `
		UPDATE cart_items
		SET quantity = $3, updated_at = $4
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, listing_id, quantity, created_at, updated_at
	`

	item := &models.CartItem{}
	err := r.db.QueryRowContext(ctx, query, cartItemID, userID, quantity, time.Now()).Scan(
		&item.ID,
		&item.UserID,
		&item.ListingID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to update cart quantity",
			"cart_item_id", cartItemID, "error", err)
		return nil, err
	}

	return item, nil
}

// Delete removes one of the user's cart lines.
func (r *PostgresCartRepository) Delete(ctx context.Context, userID, cartItemID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`,
		cartItemID, userID,
	)
	if err != nil {
		r.logger.Error("failed to delete cart line",
			"cart_item_id", cartItemID, "error", err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errors.ErrNotFound
	}

	r.logger.Debug("cart line deleted", "cart_item_id", cartItemID)
	return nil
}

// ListWithListings returns all of the user's cart lines joined with the
// current listing snapshot, newest first.
func (r *PostgresCartRepository) ListWithListings(ctx context.Context, userID string) ([]*models.CartItem, error) {
	query := `
		SELECT ci.id, ci.user_id, ci.listing_id, ci.quantity, ci.created_at, ci.updated_at,
		       l.id, l.user_id, l.title, l.description, l.price, l.category,
		       l.condition, l.location, l.images, l.status, l.views, l.likes,
		       l.created_at, l.updated_at
		FROM cart_items ci
		LEFT JOIN listings l ON l.id = ci.listing_id
		WHERE ci.user_id = $1
		ORDER BY ci.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("failed to list cart", "user_id", userID, "error", err)
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
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("cart listed", "user_id", userID, "lines", len(items))
	return items, nil
}

// Clear deletes every cart line belonging to the user.
func (r *PostgresCartRepository) Clear(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE user_id = $1`, userID,
	); err != nil {
		r.logger.Error("failed to clear cart", "user_id", userID, "error", err)
		return err
	}

	r.logger.Info("cart cleared", "user_id", userID)
	return nil
}

// scanCartItemWithListing scans one cart row left-joined with its
// listing. The listing columns are all nullable because the listing row
// may have been removed.
func scanCartItemWithListing(rows *sql.Rows) (*models.CartItem, error) {
	item := &models.CartItem{}
	var (
		listingID          sql.NullString
		listingUserID      sql.NullString
		title, description sql.NullString
		price              sql.NullInt64
		category           sql.NullString
		condition          sql.NullString
		location           sql.NullString
		images             pq.StringArray
		status             sql.NullString
		views, likes       sql.NullInt64
		createdAt          sql.NullTime
		updatedAt          sql.NullTime
	)

	err := rows.Scan(
		&item.ID,
		&item.UserID,
		&item.ListingID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
		&listingID,
		&listingUserID,
		&title,
		&description,
		&price,
		&category,
		&condition,
		&location,
		&images,
		&status,
		&views,
		&likes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if listingID.Valid {
		item.Listing = &models.Listing{
			ID:          listingID.String,
			UserID:      listingUserID.String,
			Title:       title.String,
			Description: description.String,
			Price:       price.Int64,
			Category:    category.String,
			Condition:   condition.String,
			Location:    location.String,
			Images:      images,
			Status:      models.ListingStatus(status.String),
			Views:       int(views.Int64),
			Likes:       int(likes.Int64),
			CreatedAt:   createdAt.Time,
			UpdatedAt:   updatedAt.Time,
		}
	}

	return item, nil
}
