package auth

// Principal is the authenticated actor attached to a request by the JWT
// middleware. ID is the users.id UUID.
type Principal struct {
	ID   string
	Tier Tier
}

// IsAdmin reports whether the principal holds the admin tier.
func (p Principal) IsAdmin() bool { return p.Tier == TierAdmin }

// CanModify is the uniform mutation rule: the owner of a resource or an
// admin may change or delete it. It is applied to listings, comments,
// ratings and message deletion alike.
func CanModify(p Principal, ownerID string) bool {
	return p.ID == ownerID || p.Tier == TierAdmin
}

// CanModerate gates moderation-only actions such as viewing the full report
// queue or resolving reports.
func CanModerate(p Principal) bool {
	return p.Tier.AtLeast(TierModerator)
}
