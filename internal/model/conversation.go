package model

import "time"

// Conversation is a private two-party thread scoped to one listing.
// Participant1 is the inquirer at creation time, Participant2 the listing
// owner. The unique key on (listing_type, listing_id, pair_key) makes
// thread uniqueness order-independent and is the backstop for concurrent
// creates; PairKey computes the pair half of that key.
type Conversation struct {
	ID           string      `json:"id"`
	ListingType  ListingType `json:"listing_type"`
	ListingID    string      `json:"listing_id"`
	Participant1 string      `json:"participant1_id"`
	Participant2 string      `json:"participant2_id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Involves reports whether userID is one of the two participants.
func (c *Conversation) Involves(userID string) bool {
	return c.Participant1 == userID || c.Participant2 == userID
}

// Other returns the participant that is not userID.
func (c *Conversation) Other(userID string) string {
	if c.Participant1 == userID {
		return c.Participant2
	}
	return c.Participant1
}

// PairKey builds the order-independent identity of a participant pair.
func PairKey(a, b string) string {
	if a < b {
		return a + ":" + b
	}
	return b + ":" + a
}
