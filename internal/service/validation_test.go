package service

import (
	"strings"
	"testing"

	"github.com/Mzatilife/Bello/internal/errors"
	"github.com/Mzatilife/Bello/internal/models"
)

func validCheckoutRequest() *models.CheckoutRequest {
	return &models.CheckoutRequest{
		DeliveryAddress: models.DeliveryAddress{
			Name:    "Chisomo Banda",
			Street:  "12 Area 47",
			City:    "Lilongwe",
			Country: "Malawi",
		},
		PhoneNumber: "+265991234567",
	}
}

func TestValidateCheckoutRequest(t *testing.T) {
	if err := ValidateCheckoutRequest(validCheckoutRequest()); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*models.CheckoutRequest)
		field  string
	}{
		{"missing name", func(r *models.CheckoutRequest) { r.DeliveryAddress.Name = "  " }, "delivery_address.name"},
		{"missing street", func(r *models.CheckoutRequest) { r.DeliveryAddress.Street = "" }, "delivery_address.street"},
		{"missing city", func(r *models.CheckoutRequest) { r.DeliveryAddress.City = "" }, "delivery_address.city"},
		{"missing country", func(r *models.CheckoutRequest) { r.DeliveryAddress.Country = "" }, "delivery_address.country"},
		{"missing phone", func(r *models.CheckoutRequest) { r.PhoneNumber = "" }, "phone_number"},
		{"bad phone", func(r *models.CheckoutRequest) { r.PhoneNumber = "12ab" }, "phone_number"},
		{"notes too long", func(r *models.CheckoutRequest) { r.Notes = strings.Repeat("x", 1001) }, "notes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCheckoutRequest()
			tt.mutate(req)

			err := ValidateCheckoutRequest(req)
			verr, ok := err.(*errors.ValidationError)
			if !ok {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestValidateCheckoutRequestPhoneFormats(t *testing.T) {
	tests := []struct {
		phone string
		valid bool
	}{
		{"+265991234567", true},
		{"0991234567", true},
		{"991234567", true},
		{"88123456", true},
		{"+265 99 123 4567", true}, // spaces stripped
		{"0012345678", false},      // digit after prefix cannot be 0
		{"12345", false},
		{"+26599123456789", false},
		{"phone", false},
	}

	for _, tt := range tests {
		req := validCheckoutRequest()
		req.PhoneNumber = tt.phone

		err := ValidateCheckoutRequest(req)
		if tt.valid && err != nil {
			t.Errorf("phone %q rejected: %v", tt.phone, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("phone %q accepted", tt.phone)
		}
	}
}

func TestValidateQuantity(t *testing.T) {
	if err := ValidateQuantity(1); err != nil {
		t.Errorf("quantity 1 rejected: %v", err)
	}
	if err := ValidateQuantity(99); err != nil {
		t.Errorf("quantity 99 rejected: %v", err)
	}
	if err := ValidateQuantity(0); err == nil {
		t.Error("quantity 0 accepted")
	}
	if err := ValidateQuantity(-1); err == nil {
		t.Error("negative quantity accepted")
	}
	if err := ValidateQuantity(100); err == nil {
		t.Error("quantity 100 accepted")
	}
}

func TestValidateCreateListingRequest(t *testing.T) {
	req := &models.CreateListingRequest{Title: "Bike", Price: 45000}
	if err := ValidateCreateListingRequest(req); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	req = &models.CreateListingRequest{Title: "", Price: 45000}
	if err := ValidateCreateListingRequest(req); err == nil {
		t.Error("empty title accepted")
	}

	req = &models.CreateListingRequest{Title: "Bike", Price: 0}
	if err := ValidateCreateListingRequest(req); err == nil {
		t.Error("zero price accepted")
	}

	req = &models.CreateListingRequest{Title: "Bike", Price: 45000, Status: "sold"}
	if err := ValidateCreateListingRequest(req); err == nil {
		t.Error("sold status accepted for new listing")
	}
}
