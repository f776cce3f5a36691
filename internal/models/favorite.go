package models

import "time"

// Favorite marks a listing saved by a user. One row per (user, listing).
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ListingID string    `json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}
