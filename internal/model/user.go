package model

import "time"

// User mirrors the 'users' table. IDs are CHAR(36) UUIDs so account
// identifiers are not guessable. Permissions holds the tier string
// (user/moderator/admin); parse it with auth.ParseTier before comparing.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	PhoneNumber  string
	Bio          string
	City         string
	State        string
	ZipCode      string
	Permissions  string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
