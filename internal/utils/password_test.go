package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardline/yardline-api/internal/utils"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := utils.HashPassword("correct horse battery staple", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, utils.VerifyPassword(hash, "correct horse battery staple"))
	assert.False(t, utils.VerifyPassword(hash, "wrong password"))
	assert.False(t, utils.VerifyPassword(hash, ""))
}

func TestVerifyPasswordBadHash(t *testing.T) {
	assert.False(t, utils.VerifyPassword("not-a-bcrypt-hash", "whatever"))
}

// Passwords beyond bcrypt's 72-byte limit are truncated rather than
// rejected, so hashing cannot fail on long input and the first 72 bytes
// still authenticate.
func TestHashPasswordLongInput(t *testing.T) {
	long := strings.Repeat("a", 100)
	hash, err := utils.HashPassword(long, 4)
	require.NoError(t, err)

	assert.True(t, utils.VerifyPassword(hash, long))
	assert.True(t, utils.VerifyPassword(hash, strings.Repeat("a", 72)))
	assert.False(t, utils.VerifyPassword(hash, strings.Repeat("a", 71)))
}
