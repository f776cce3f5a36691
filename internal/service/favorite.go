package service

import (
	"context"
	"log/slog"

	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/models"
	"github.com/Mzatilife/Bello/internal/repository"
)

// FavoriteService handles saved listings.
type FavoriteService struct {
	favorites repository.FavoriteRepository
	listings  repository.ListingRepository
	logger    *slog.Logger
}

func NewFavoriteService(
	favorites repository.FavoriteRepository,
	listings repository.ListingRepository,
	logger *slog.Logger,
) *FavoriteService {
	return &FavoriteService{
		favorites: favorites,
		listings:  listings,
		logger:    logger.With("component", "favorite-service"),
	}
}

// Add saves a listing for the user. The listing must exist.
func (s *FavoriteService) Add(ctx context.Context, userID, listingID string) (*models.Favorite, error) {
	if userID == "" {
		return nil, errors.ErrUnauthenticated
	}
	if _, err := s.listings.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.favorites.Add(ctx, userID, listingID)
}

// Remove unsaves a listing for the user.
func (s *FavoriteService) Remove(ctx context.Context, userID, listingID string) error {
	if userID == "" {
		return errors.ErrUnauthenticated
	}
	return s.favorites.Remove(ctx, userID, listingID)
}

// List returns the user's saved listings, newest first.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]*models.Favorite, error) {
	if userID == "" {
		return nil, errors.ErrUnauthenticated
	}
	return s.favorites.List(ctx, userID)
}

// IsFavorited reports whether the user has saved the listing.
func (s *FavoriteService) IsFavorited(ctx context.Context, userID, listingID string) (bool, error) {
	if userID == "" {
		return false, errors.ErrUnauthenticated
	}
	return s.favorites.Exists(ctx, userID, listingID)
}
