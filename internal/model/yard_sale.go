package model

import "time"

// YardSale represents a sale-event listing. Dates and times are stored as
// DATE/TIME columns and surfaced as strings ("2006-01-02", "15:04") because
// the API never does arithmetic on them.
type YardSale struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"owner_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date,omitempty"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	Address       string    `json:"address"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	ZipCode       string    `json:"zip_code"`
	ContactName   string    `json:"contact_name"`
	ContactPhone  string    `json:"contact_phone,omitempty"`
	ContactEmail  string    `json:"contact_email,omitempty"`
	VenmoURL      string    `json:"venmo_url,omitempty"`
	FacebookURL   string    `json:"facebook_url,omitempty"`
	AllowMessages bool      `json:"allow_messages"`
	Categories    []string  `json:"categories,omitempty"`
	PriceRange    string    `json:"price_range,omitempty"`
	Photos        []string  `json:"photos,omitempty"`
	FeaturedImage string    `json:"featured_image,omitempty"`
	IsPublic      bool      `json:"is_public"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Yard sale statuses. Transitions are unrestricted in value; only who may
// change them is gated (owner or admin).
const (
	YardSaleActive  = "active"
	YardSaleClosed  = "closed"
	YardSaleOnBreak = "on_break"
)

// ValidYardSaleStatus reports whether s is a known sale-event status.
func ValidYardSaleStatus(s string) bool {
	return s == YardSaleActive || s == YardSaleClosed || s == YardSaleOnBreak
}
