package service

import (
	"regexp"
	"strings"

	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/models"
)

// Malawian phone numbers: optional +265 or leading 0, then 8-9 digits not
// starting with 0. Spaces are stripped before matching.
var phonePattern = regexp.MustCompile(`^(\+265|0)?[1-9]\d{7,8}$`)

// ValidateCheckoutRequest checks the delivery and contact details before
// any write happens. Name, street, city and country are required; state
// and postal code are optional.
func ValidateCheckoutRequest(req *models.CheckoutRequest) error {
	addr := req.DeliveryAddress

	if strings.TrimSpace(addr.Name) == "" {
		return errors.NewValidationError("delivery_address.name", "recipient name is required")
	}
	if strings.TrimSpace(addr.Street) == "" {
		return errors.NewValidationError("delivery_address.street", "street is required")
	}
	if strings.TrimSpace(addr.City) == "" {
		return errors.NewValidationError("delivery_address.city", "city is required")
	}
	if strings.TrimSpace(addr.Country) == "" {
		return errors.NewValidationError("delivery_address.country", "country is required")
	}

	phone := strings.ReplaceAll(req.PhoneNumber, " ", "")
	if phone == "" {
		return errors.NewValidationError("phone_number", "phone number is required")
	}
	if !phonePattern.MatchString(phone) {
		return errors.NewValidationError("phone_number", "not a valid Malawian phone number")
	}

	if len(req.Notes) > 1000 {
		return errors.NewValidationError("notes", "notes too long (max 1000 characters)")
	}

	return nil
}

// ValidateCreateListingRequest checks a new listing's fields.
func ValidateCreateListingRequest(req *models.CreateListingRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return errors.NewValidationError("title", "title is required")
	}
	if req.Price <= 0 {
		return errors.NewValidationError("price", "price must be positive")
	}

	switch req.Status {
	case "", string(models.ListingStatusActive), string(models.ListingStatusDraft):
	default:
		return errors.NewValidationError("status", "new listings must be active or draft")
	}

	return nil
}

// ValidateQuantity checks a cart quantity.
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return errors.NewValidationError("quantity", "quantity must be positive")
	}
	if quantity > 99 {
		return errors.NewValidationError("quantity", "quantity too large")
	}
	return nil
}
