package service

import (
	"context"
	"testing"

	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/models"
)

func newCartFixture(listings ...*models.Listing) (*CartService, *fakeCartRepo, *fakeListingRepo) {
	cartRepo := &fakeCartRepo{}
	listingRepo := newFakeListingRepo(listings...)
	svc := NewCartService(cartRepo, listingRepo, testConfig(), testLogger())
	return svc, cartRepo, listingRepo
}

func TestCartSummary(t *testing.T) {
	svc, cartRepo, _ := newCartFixture()

	sold := activeListing("l2", "seller-2", 99999)
	sold.Status = models.ListingStatusSold

	cartRepo.items = []*models.CartItem{
		cartLine("c1", activeListing("l1", "seller-1", 7500), 1),
		cartLine("c2", sold, 1),
		cartLine("c3", activeListing("l3", "seller-3", 3500), 2),
	}

	summary, err := svc.Summary(context.Background(), "buyer-1")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if summary.ValidItems != 2 {
		t.Errorf("ValidItems = %d, want 2", summary.ValidItems)
	}
	if summary.TotalItems != 3 {
		t.Errorf("TotalItems = %d, want 3 (1 + 2 units)", summary.TotalItems)
	}
	if summary.Subtotal != 14500 {
		t.Errorf("Subtotal = %d, want 14500", summary.Subtotal)
	}
	if summary.DeliveryFee != 5000 {
		t.Errorf("DeliveryFee = %d, want 5000", summary.DeliveryFee)
	}
	if summary.Total != 19500 {
		t.Errorf("Total = %d, want 19500", summary.Total)
	}
}

func TestCartSummaryAllInvalid(t *testing.T) {
	svc, cartRepo, _ := newCartFixture()

	sold := activeListing("l1", "seller-1", 7500)
	sold.Status = models.ListingStatusSold
	cartRepo.items = []*models.CartItem{cartLine("c1", sold, 1)}

	summary, err := svc.Summary(context.Background(), "buyer-1")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	// No purchasable lines means no delivery fee either.
	if summary.ValidItems != 0 || summary.Subtotal != 0 || summary.DeliveryFee != 0 || summary.Total != 0 {
		t.Errorf("all-invalid cart must report zero totals, got %+v", summary)
	}
}

func TestAddToCart(t *testing.T) {
	listing := activeListing("l1", "seller-1", 7500)
	svc, _, _ := newCartFixture(listing)

	item, err := svc.AddToCart(context.Background(), "buyer-1", "l1", 0)
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if item.Quantity != 1 {
		t.Errorf("quantity = %d, want default 1", item.Quantity)
	}
	if item.Listing == nil || item.Listing.ID != "l1" {
		t.Error("listing snapshot not attached")
	}

	// Adding again replaces the quantity.
	item, err = svc.AddToCart(context.Background(), "buyer-1", "l1", 3)
	if err != nil {
		t.Fatalf("AddToCart upsert: %v", err)
	}
	if item.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", item.Quantity)
	}
}

func TestAddToCartRejectsOwnListing(t *testing.T) {
	listing := activeListing("l1", "seller-1", 7500)
	svc, _, _ := newCartFixture(listing)

	_, err := svc.AddToCart(context.Background(), "seller-1", "l1", 1)
	if _, ok := err.(*errors.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestAddToCartRejectsInactiveListing(t *testing.T) {
	sold := activeListing("l1", "seller-1", 7500)
	sold.Status = models.ListingStatusSold
	svc, _, _ := newCartFixture(sold)

	if _, err := svc.AddToCart(context.Background(), "buyer-1", "l1", 1); err == nil {
		t.Error("inactive listing accepted")
	}

	if _, err := svc.AddToCart(context.Background(), "buyer-1", "missing", 1); err == nil {
		t.Error("missing listing accepted")
	}
}

func TestUpdateQuantityRemovesOnZero(t *testing.T) {
	svc, cartRepo, _ := newCartFixture()
	cartRepo.items = []*models.CartItem{cartLine("c1", activeListing("l1", "seller-1", 7500), 2)}

	item, err := svc.UpdateQuantity(context.Background(), "buyer-1", "c1", 0)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if item != nil {
		t.Error("expected nil item after removal")
	}
	if len(cartRepo.items) != 0 {
		t.Error("cart line not removed")
	}
}

func TestCartRequiresAuth(t *testing.T) {
	svc, _, _ := newCartFixture()

	if _, err := svc.GetCart(context.Background(), ""); err != errors.ErrUnauthenticated {
		t.Errorf("GetCart: got %v, want ErrUnauthenticated", err)
	}
	if _, err := svc.Summary(context.Background(), ""); err != errors.ErrUnauthenticated {
		t.Errorf("Summary: got %v, want ErrUnauthenticated", err)
	}
	if err := svc.Clear(context.Background(), ""); err != errors.ErrUnauthenticated {
		t.Errorf("Clear: got %v, want ErrUnauthenticated", err)
	}
}
