// Package auth defines the permission model shared by every handler: the
// closed tier enum stored in the users.permissions column and the decision
// functions that gate mutations on owned resources. Handlers must never
// compare tier strings directly; all checks go through this package so the
// owner-or-admin rule stays uniform.
package auth

import (
	"fmt"
	"strings"
)

// Tier is the permission level of a principal. The zero value is TierUser.
// Tiers are totally ordered: user < moderator < admin.
type Tier int

const (
	TierUser Tier = iota
	TierModerator
	TierAdmin
)

// String returns the tier as persisted in the database.
func (t Tier) String() string {
	switch t {
	case TierModerator:
		return "moderator"
	case TierAdmin:
		return "admin"
	default:
		return "user"
	}
}

// ParseTier maps a stored permissions value onto the enum. Unknown values
// are an error rather than a silent downgrade so a corrupted column is
// noticed instead of quietly stripping privileges.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return TierUser, nil
	case "moderator":
		return TierModerator, nil
	case "admin":
		return TierAdmin, nil
	}
	return TierUser, fmt.Errorf("unknown permission tier %q", s)
}

// AtLeast reports whether t grants every capability of other.
func (t Tier) AtLeast(other Tier) bool { return t >= other }
