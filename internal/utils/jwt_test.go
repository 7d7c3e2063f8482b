package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardline/yardline-api/internal/utils"
)

const testSecret = "test-secret-key"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "user-123", "moderator", 15)
	require.NoError(t, err)
	require.NotEmpty(t, tok.Token)
	require.NotEmpty(t, tok.JTI)

	claims, err := utils.ParseAccessToken(testSecret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "moderator", claims.Role)
	assert.Equal(t, tok.JTI, claims.JTI)
	assert.WithinDuration(t, tok.Exp, claims.Exp, time.Second)
}

func TestAccessTokenWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "user-123", "user", 15)
	require.NoError(t, err)

	_, err = utils.ParseAccessToken("a-different-secret", tok.Token)
	assert.ErrorIs(t, err, utils.ErrTokenInvalid)
}

func TestAccessTokenExpired(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "user-123", "user", -1)
	require.NoError(t, err)

	_, err = utils.ParseAccessToken(testSecret, tok.Token)
	assert.ErrorIs(t, err, utils.ErrTokenInvalid)
}

func TestAccessTokenGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		_, err := utils.ParseAccessToken(testSecret, raw)
		assert.ErrorIs(t, err, utils.ErrTokenInvalid, "raw=%q", raw)
	}
}

// Each token must get its own jti, or revoking one session would revoke
// them all.
func TestAccessTokenUniqueJTI(t *testing.T) {
	a, err := utils.NewAccessToken(testSecret, "user-123", "user", 15)
	require.NoError(t, err)
	b, err := utils.NewAccessToken(testSecret, "user-123", "user", 15)
	require.NoError(t, err)
	assert.NotEqual(t, a.JTI, b.JTI)
}
