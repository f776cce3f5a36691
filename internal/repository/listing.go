package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/models"
)

// PostgresListingRepository implements ListingRepository using PostgreSQL.
// Deletion is a status transition, never a row delete, so order lines can
// keep referencing removed listings.
type PostgresListingRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresListingRepository(db *sql.DB, logger *slog.Logger) *PostgresListingRepository {
	return &PostgresListingRepository{
		db:     db,
		logger: logger.With("component", "listing-repository"),
	}
}

var _ ListingRepository = (*PostgresListingRepository)(nil)

const listingColumns = `id, user_id, title, description, price, category,
	condition, location, images, status, views, likes, created_at, updated_at`

// Create inserts a new listing.
func (r *PostgresListingRepository) Create(ctx context.Context, listing *models.Listing) error {
	now := time.Now()
	listing.ID = uuid.NewString()
	listing.CreatedAt = now
	listing.UpdatedAt = now

	query := `
		INSERT INTO listings (id, user_id, title, description, price, category,
			condition, location, images, status, views, likes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 0, 0, $11, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		listing.ID,
		listing.UserID,
		listing.Title,
		listing.Description,
		listing.Price,
		listing.Category,
		listing.Condition,
		listing.Location,
		pq.Array(listing.Images),
		listing.Status,
		now,
	)
	if err != nil {
		r.logger.Error("failed to create listing",
			"user_id", listing.UserID, "error", err)
		return err
	}

	r.logger.Info("listing created",
		"listing_id", listing.ID, "user_id", listing.UserID, "price", listing.Price)
	return nil
}

// GetByID returns a listing; soft-deleted listings are still returned so
// callers can decide on visibility.
func (r *PostgresListingRepository) GetByID(ctx context.Context, id string) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`

	listing, err := scanListing(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to fetch listing", "listing_id", id, "error", err)
		return nil, err
	}
	return listing, nil
}

// List returns active listings matching the filter, newest first.
func (r *PostgresListingRepository) List(ctx context.Context, filter *models.ListingFilter) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE status = 'active'`
	args := make([]interface{}, 0, 4)

	if filter.Category != "" && filter.Category != "all" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}

	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return r.queryListings(ctx, query, args...)
}

// ListByUser returns a user's own listings, deleted ones excluded.
func (r *PostgresListingRepository) ListByUser(ctx context.Context, userID string) ([]*models.Listing, error) {
	query := `SELECT ` + listingColumns + `
		FROM listings
		WHERE user_id = $1 AND status <> 'deleted'
		ORDER BY created_at DESC`
	return r.queryListings(ctx, query, userID)
}

// Update applies the non-nil fields of req to the listing.
func (r *PostgresListingRepository) Update(ctx context.Context, id string, req *models.UpdateListingRequest) (*models.Listing, error) {
	query := `
		UPDATE listings
		SET title = COALESCE($2, title),
		    description = COALESCE($3, description),
		    price = COALESCE($4, price),
		    category = COALESCE($5, category),
		    condition = COALESCE($6, condition),
		    location = COALESCE($7, location),
		    images = COALESCE($8, images),
		    updated_at = $9
		WHERE id = $1 AND status <> 'deleted'
		RETURNING ` + listingColumns

	var images interface{}
	if req.Images != nil {
		images = pq.Array(*req.Images)
	}

	listing, err := scanListing(r.db.QueryRowContext(ctx, query,
		id, req.Title, req.Description, req.Price, req.Category,
		req.Condition, req.Location, images, time.Now(),
	))
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to update listing", "listing_id", id, "error", err)
		return nil, err
	}

	r.logger.Info("listing updated", "listing_id", id)
	return listing, nil
}

// SetStatus transitions a listing's status (sold, deleted, active, draft).
func (r *PostgresListingRepository) SetStatus(ctx context.Context, id string, status models.ListingStatus) (*models.Listing, error) {
	query := `
		UPDATE listings
		SET status = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + listingColumns

	listing, err := scanListing(r.db.QueryRowContext(ctx, query, id, status, time.Now()))
	if err == sql.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to set listing status",
			"listing_id", id, "status", status, "error", err)
		return nil, err
	}

	r.logger.Info("listing status set", "listing_id", id, "status", status)
	return listing, nil
}

func (r *PostgresListingRepository) queryListings(ctx context.Context, query string, args ...interface{}) ([]*models.Listing, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query listings", "error", err)
		return nil, err
	}
	defer rows.Close()

	listings := make([]*models.Listing, 0)
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row rowScanner) (*models.Listing, error) {
	listing := &models.Listing{}
	var description, category, condition, location sql.NullString
	var images pq.StringArray

	err := row.Scan(
		&listing.ID,
		&listing.UserID,
		&listing.Title,
		&description,
		&listing.Price,
		&category,
		&condition,
		&location,
		&images,
		&listing.Status,
		&listing.Views,
		&listing.Likes,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	listing.Description = description.String
	listing.Category = category.String
	listing.Condition = condition.String
	listing.Location = location.String
	listing.Images = images
	return listing, nil
}
