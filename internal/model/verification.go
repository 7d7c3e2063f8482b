package model

import "time"

// VerificationRequest is one user asking for one kind of verification.
// Resolution is admin-only.
type VerificationRequest struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	RequestType string    `json:"request_type"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Verification request statuses.
const (
	VerificationPending  = "pending"
	VerificationVerified = "verified"
	VerificationRejected = "rejected"
)

// ValidVerificationType reports whether t is a supported verification kind.
func ValidVerificationType(t string) bool {
	switch t {
	case "email", "phone", "identity", "address":
		return true
	}
	return false
}

// ValidVerificationStatus reports whether s is a valid resolution.
func ValidVerificationStatus(s string) bool {
	return s == VerificationVerified || s == VerificationRejected
}
