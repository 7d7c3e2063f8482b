package model

import "time"

// MarketItem represents a marketplace listing sold individually rather than
// as part of a sale event.
type MarketItem struct {
	ID               string    `json:"id"`
	OwnerID          string    `json:"owner_id"`
	Name             string    `json:"name"`
	Description      string    `json:"description,omitempty"`
	Price            float64   `json:"price"`
	Condition        string    `json:"condition,omitempty"`
	Quantity         int       `json:"quantity"`
	Category         string    `json:"category,omitempty"`
	IsFree           bool      `json:"is_free"`
	AcceptsBestOffer bool      `json:"accepts_best_offer"`
	AllowMessages    bool      `json:"allow_messages"`
	Photos           []string  `json:"photos,omitempty"`
	FeaturedImage    string    `json:"featured_image,omitempty"`
	IsPublic         bool      `json:"is_public"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Market item statuses.
const (
	ItemActive = "active"
	ItemSold   = "sold"
	ItemHidden = "hidden"
)

// ValidItemStatus reports whether s is a known market-item status.
func ValidItemStatus(s string) bool {
	return s == ItemActive || s == ItemSold || s == ItemHidden
}
