package service

import "errors"

// Rating validation errors, mapped to HTTP 400 by the handler.
var (
	ErrRatingRange = errors.New("rating value must be between 1 and 5")
	ErrSelfRating  = errors.New("cannot rate yourself")
)

// ValidateRating enforces the 1-5 bound and the no-self-rating rule before
// a rating row is written.
func ValidateRating(reviewerID, ratedUserID string, value int) error {
	if value < 1 || value > 5 {
		return ErrRatingRange
	}
	if reviewerID == ratedUserID {
		return ErrSelfRating
	}
	return nil
}
