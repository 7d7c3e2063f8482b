package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yardline/yardline-api/internal/service"
)

func TestValidateRating(t *testing.T) {
	assert.NoError(t, service.ValidateRating("reviewer", "rated", 1))
	assert.NoError(t, service.ValidateRating("reviewer", "rated", 3))
	assert.NoError(t, service.ValidateRating("reviewer", "rated", 5))

	assert.ErrorIs(t, service.ValidateRating("reviewer", "rated", 0), service.ErrRatingRange)
	assert.ErrorIs(t, service.ValidateRating("reviewer", "rated", 6), service.ErrRatingRange)
	assert.ErrorIs(t, service.ValidateRating("reviewer", "rated", -1), service.ErrRatingRange)

	assert.ErrorIs(t, service.ValidateRating("same", "same", 4), service.ErrSelfRating)
}
