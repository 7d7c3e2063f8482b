package model

import "time"

// Report is filed against exactly one target: either a user or a listing.
// Exactly one of ReportedUserID and ListingID is set.
type Report struct {
	ID             string       `json:"id"`
	ReporterID     string       `json:"reporter_id"`
	ReportedUserID *string      `json:"reported_user_id,omitempty"`
	ListingType    *ListingType `json:"listing_type,omitempty"`
	ListingID      *string      `json:"listing_id,omitempty"`
	ReportType     string       `json:"report_type"`
	Description    string       `json:"description"`
	Status         string       `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// Report resolution statuses, mutable only by moderator/admin tier.
const (
	ReportPending   = "pending"
	ReportReviewed  = "reviewed"
	ReportResolved  = "resolved"
	ReportDismissed = "dismissed"
)

// ValidReportStatus reports whether s is a known resolution status.
func ValidReportStatus(s string) bool {
	switch s {
	case ReportPending, ReportReviewed, ReportResolved, ReportDismissed:
		return true
	}
	return false
}
