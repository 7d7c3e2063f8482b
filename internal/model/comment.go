package model

import "time"

// Comment is attached to exactly one listing (either kind) and authored by
// exactly one user. Username is joined in for display.
type Comment struct {
	ID          string      `json:"id"`
	ListingType ListingType `json:"listing_type"`
	ListingID   string      `json:"listing_id"`
	UserID      string      `json:"user_id"`
	Username    string      `json:"username"`
	Content     string      `json:"content"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}
