// Package model holds the domain types shared by the repository, service
// and handler layers, together with the closed enums (statuses, listing
// kinds) that gate what the API accepts.
package model

// ListingType discriminates the two listing variants that share the
// comment, conversation, rating and report tables.
type ListingType string

const (
	ListingYardSale   ListingType = "yard_sale"
	ListingMarketItem ListingType = "market_item"
)

// Valid reports whether t is one of the two known listing kinds.
func (t ListingType) Valid() bool {
	return t == ListingYardSale || t == ListingMarketItem
}

// ListingRef identifies one listing of either kind.
type ListingRef struct {
	Type ListingType `json:"listing_type"`
	ID   string      `json:"listing_id"`
}

// ListingInfo is the slice of listing state the messaging and comment flows
// need: who owns it, whether it accepts messages, and whether it is
// publicly readable.
type ListingInfo struct {
	OwnerID       string
	AllowMessages bool
	IsPublic      bool
}
