package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/models"
)

// PostgresFavoriteRepository implements FavoriteRepository using
// PostgreSQL. One row per (user, listing); re-adding is a no-op.
type PostgresFavoriteRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPostgresFavoriteRepository(db *sql.DB, logger *slog.Logger) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{
		db:     db,
		logger: logger.With("component", "favorite-repository"),
	}
}

var _ FavoriteRepository = (*PostgresFavoriteRepository)(nil)

// Add saves a listing for a user.
func (r *PostgresFavoriteRepository) Add(ctx context.Context, userID, listingID string) (*models.Favorite, error) {
	favorite := &models.Favorite{}
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO favorites (id, user_id, listing_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, listing_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id, user_id, listing_id, created_at`,
		uuid.NewString(), userID, listingID, time.Now(),
	).Scan(&favorite.ID, &favorite.UserID, &favorite.ListingID, &favorite.CreatedAt)
	if err != nil {
		r.logger.Error("failed to add favorite",
			"user_id", userID, "listing_id", listingID, "error", err)
		return nil, err
	}
	return favorite, nil
}

// Remove unsaves a listing for a user.
func (r *PostgresFavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2`,
		userID, listingID,
	)
	if err != nil {
		r.logger.Error("failed to remove favorite",
			"user_id", userID, "listing_id", listingID, "error", err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// List returns a user's favorites, newest first.
func (r *PostgresFavoriteRepository) List(ctx context.Context, userID string) ([]*models.Favorite, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, listing_id, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		r.logger.Error("failed to list favorites", "user_id", userID, "error", err)
		return nil, err
	}
	defer rows.Close()

	favorites := make([]*models.Favorite, 0)
	for rows.Next() {
		favorite := &models.Favorite{}
		if err := rows.Scan(&favorite.ID, &favorite.UserID, &favorite.ListingID, &favorite.CreatedAt); err != nil {
			return nil, err
		}
		favorites = append(favorites, favorite)
	}
	return favorites, rows.Err()
}

// Exists reports whether a user has saved a listing.
func (r *PostgresFavoriteRepository) Exists(ctx context.Context, userID, listingID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND listing_id = $2)`,
		userID, listingID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}
