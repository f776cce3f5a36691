package service

import (
	"context"
	"log/slog"

	"github.com/Mzatilife/Bello/internal/config"
	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/models"
	"github.com/Mzatilife/Bello/internal/repository"
)

// CartService handles cart reads and mutations. Aggregation filters out
// lines whose listing is inactive or missing: they stay visible in the
// raw cart but never contribute to totals.
type CartService struct {
	carts    repository.CartRepository
	listings repository.ListingRepository
	config   *config.Config
	logger   *slog.Logger
}

func NewCartService(
	carts repository.CartRepository,
	listings repository.ListingRepository,
	cfg *config.Config,
	logger *slog.Logger,
) *CartService {
	return &CartService{
		carts:    carts,
		listings: listings,
		config:   cfg,
		logger:   logger.With("component", "cart-service"),
	}
}

// GetCart returns the user's cart lines joined with listing snapshots,
// including lines whose listing is no longer purchasable.
func (s *CartService) GetCart(ctx context.Context, userID string) ([]*models.CartItem, error) {
	if userID == "" {
		return nil, errors.ErrUnauthenticated
	}
	return s.carts.ListWithListings(ctx, userID)
}

// Summary aggregates the user's cart. The delivery fee applies only when
// at least one purchasable line exists; an all-invalid cart reports zero
// totals so callers can block checkout.
func (s *CartService) Summary(ctx context.Context, userID string) (*models.CartSummary, error) {
	items, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &models.CartSummary{}
	for _, item := range items {
		if !item.Purchasable() {
			continue
		}
		summary.ValidItems++
		summary.TotalItems += item.Quantity
		summary.Subtotal += int64(item.Quantity) * item.Listing.Price
	}

	if summary.ValidItems > 0 {
		summary.DeliveryFee = s.config.Checkout.DeliveryFee
	}
	summary.Total = summary.Subtotal + summary.DeliveryFee

	return summary, nil
}

// AddToCart upserts a cart line for the user. The listing must be active
// and must not belong to the user.
func (s *CartService) AddToCart(ctx context.Context, userID, listingID string, quantity int) (*models.CartItem, error) {
	if userID == "" {
		return nil, errors.ErrUnauthenticated
	}
	if quantity == 0 {
		quantity = 1
	}
	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err == errors.ErrNotFound {
		return nil, errors.NewValidationError("listing_id", "listing not found or not available")
	}
	if err != nil {
		return nil, err
	}
	if !listing.Purchasable() {
		return nil, errors.NewValidationError("listing_id", "listing not found or not available")
	}
	if listing.UserID == userID {
		return nil, errors.NewValidationError("listing_id", "you cannot add your own listing to cart")
	}

	item, err := s.carts.Upsert(ctx, userID, listingID, quantity)
	if err != nil {
		return nil, err
	}

	s.logger.Info("listing added to cart",
		"user_id", userID, "listing_id", listingID, "quantity", quantity)
	item.Listing = listing
	return item, nil
}

// UpdateQuantity adjusts a cart line. Zero or negative removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, userID, cartItemID string, quantity int) (*models.CartItem, error) {
	if userID == "" {
		return nil, errors.ErrUnauthenticated
	}

	if quantity <= 0 {
		if err := s.carts.Delete(ctx, userID, cartItemID); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if err := ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	return s.carts.UpdateQuantity(ctx, userID, cartItemID, quantity)
}

// Remove deletes one cart line.
func (s *CartService) Remove(ctx context.Context, userID, cartItemID string) error {
	if userID == "" {
		return errors.ErrUnauthenticated
	}
	return s.carts.Delete(ctx, userID, cartItemID)
}

// Clear deletes every cart line belonging to the user.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return errors.ErrUnauthenticated
	}
	return s.carts.Clear(ctx, userID)
}
