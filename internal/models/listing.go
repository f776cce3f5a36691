package models

import "time"

// ListingStatus is the lifecycle state of a sellable item.
type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "active"
	ListingStatusSold    ListingStatus = "sold"
	ListingStatusDraft   ListingStatus = "draft"
	ListingStatusDeleted ListingStatus = "deleted"
)

// Listing is a sellable item owned by a seller. Prices are integer
// kwacha amounts; MWK carries no practical minor unit.
type Listing struct {
	ID          string        `json:"id"`
	UserID      string        `json:"user_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Price       int64         `json:"price"`
	Category    string        `json:"category,omitempty"`
	Condition   string        `json:"condition,omitempty"`
	Location    string        `json:"location,omitempty"`
	Images      []string      `json:"images,omitempty"`
	Status      ListingStatus `json:"status"`
	Views       int           `json:"views"`
	Likes       int           `json:"likes"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Purchasable reports whether the listing may enter a cart total or an
// order line.
func (l *Listing) Purchasable() bool {
	return l != nil && l.Status == ListingStatusActive
}

// PrimaryImage returns the first image reference, if any.
func (l *Listing) PrimaryImage() string {
	if len(l.Images) == 0 {
		return ""
	}
	return l.Images[0]
}

// CreateListingRequest is the payload for creating a listing.
type CreateListingRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Price       int64    `json:"price" binding:"required,gt=0"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	Location    string   `json:"location"`
	Images      []string `json:"images"`
	Status      string   `json:"status"`
}

// UpdateListingRequest carries partial listing updates. Nil fields are
// left untouched.
type UpdateListingRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *int64    `json:"price"`
	Category    *string   `json:"category"`
	Condition   *string   `json:"condition"`
	Location    *string   `json:"location"`
	Images      *[]string `json:"images"`
}

// ListingFilter narrows an active-listing query.
type ListingFilter struct {
	Category string
	Search   string
	Limit    int
	Offset   int
}
