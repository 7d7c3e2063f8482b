package model

import "time"

// Rating is one user's 1-5 score of another, optionally tied to a listing
// the transaction happened on.
type Rating struct {
	ID               string       `json:"id"`
	RatedUserID      string       `json:"rated_user_id"`
	ReviewerID       string       `json:"reviewer_id"`
	ReviewerUsername string       `json:"reviewer_username"`
	Value            int          `json:"value"`
	Review           string       `json:"review,omitempty"`
	ListingType      *ListingType `json:"listing_type,omitempty"`
	ListingID        *string      `json:"listing_id,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
}

// RatingSummary is the aggregate returned alongside a user's rating list.
type RatingSummary struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}
