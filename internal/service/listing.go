package service

import (
	"context"
	"log/slog"

	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/models"
	"github.com/Mzatilife/Bello/internal/repository"
)

// ListingService handles listing CRUD. Only the owning seller may mutate
// a listing; deletion is a soft status transition so existing order lines
// keep their references.
type ListingService struct {
	listings repository.ListingRepository
	logger   *slog.Logger
}

func NewListingService(listings repository.ListingRepository, logger *slog.Logger) *ListingService {
	return &ListingService{
		listings: listings,
		logger:   logger.With("component", "listing-service"),
	}
}

// CreateListing publishes a new listing for the seller.
func (s *ListingService) CreateListing(ctx context.Context, userID string, req *models.CreateListingRequest) (*models.Listing, error) {
	if userID == "" {
		return nil, errors.ErrUnauthenticated
	}
	if err := ValidateCreateListingRequest(req); err != nil {
		return nil, err
	}

	status := models.ListingStatus(req.Status)
	if status == "" {
		status = models.ListingStatusActive
	}

	listing := &models.Listing{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Condition:   req.Condition,
		Location:    req.Location,
		Images:      req.Images,
		Status:      status,
	}

	if err := s.listings.Create(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// GetListing returns one listing. Soft-deleted listings read as missing.
func (s *ListingService) GetListing(ctx context.Context, id string) (*models.Listing, error) {
	listing, err := s.listings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing.Status == models.ListingStatusDeleted {
		return nil, errors.ErrNotFound
	}
	return listing, nil
}

// ListActive returns active listings matching the filter.
func (s *ListingService) ListActive(ctx context.Context, filter *models.ListingFilter) ([]*models.Listing, error) {
	return s.listings.List(ctx, filter)
}

// ListOwn returns the caller's listings, drafts and sold included.
func (s *ListingService) ListOwn(ctx context.Context, userID string) ([]*models.Listing, error) {
	if userID == "" {
		return nil, errors.ErrUnauthenticated
	}
	return s.listings.ListByUser(ctx, userID)
}

// UpdateListing applies partial updates to the caller's own listing.
func (s *ListingService) UpdateListing(ctx context.Context, userID, id string, req *models.UpdateListingRequest) (*models.Listing, error) {
	if err := s.requireOwner(ctx, userID, id); err != nil {
		return nil, err
	}
	if req.Price != nil && *req.Price <= 0 {
		return nil, errors.NewValidationError("price", "price must be positive")
	}
	return s.listings.Update(ctx, id, req)
}

// MarkSold transitions the caller's own listing to sold.
func (s *ListingService) MarkSold(ctx context.Context, userID, id string) (*models.Listing, error) {
	if err := s.requireOwner(ctx, userID, id); err != nil {
		return nil, err
	}
	s.logger.Info("listing marked sold", "listing_id", id)
	return s.listings.SetStatus(ctx, id, models.ListingStatusSold)
}

// DeleteListing soft-deletes the caller's own listing.
func (s *ListingService) DeleteListing(ctx context.Context, userID, id string) error {
	if err := s.requireOwner(ctx, userID, id); err != nil {
		return err
	}
	_, err := s.listings.SetStatus(ctx, id, models.ListingStatusDeleted)
	return err
}

func (s *ListingService) requireOwner(ctx context.Context, userID, listingID string) error {
	if userID == "" {
		return errors.ErrUnauthenticated
	}
	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if listing.UserID != userID {
		// Hide other users' listing ids rather than confirming them.
		return errors.ErrNotFound
	}
	return nil
}
