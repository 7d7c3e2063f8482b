package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardline/yardline-api/internal/auth"
)

func TestParseTier(t *testing.T) {
	cases := map[string]auth.Tier{
		"user":      auth.TierUser,
		"moderator": auth.TierModerator,
		"admin":     auth.TierAdmin,
		" Admin ":   auth.TierAdmin,
		"USER":      auth.TierUser,
	}
	for in, want := range cases {
		got, err := auth.ParseTier(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestParseTierUnknown(t *testing.T) {
	for _, in := range []string{"", "superadmin", "owner", "root"} {
		_, err := auth.ParseTier(in)
		assert.Error(t, err, "value %q must not parse", in)
	}
}

func TestTierOrdering(t *testing.T) {
	assert.True(t, auth.TierAdmin.AtLeast(auth.TierModerator))
	assert.True(t, auth.TierAdmin.AtLeast(auth.TierUser))
	assert.True(t, auth.TierModerator.AtLeast(auth.TierUser))
	assert.True(t, auth.TierUser.AtLeast(auth.TierUser))

	assert.False(t, auth.TierUser.AtLeast(auth.TierModerator))
	assert.False(t, auth.TierModerator.AtLeast(auth.TierAdmin))
}

func TestTierRoundTrip(t *testing.T) {
	for _, tier := range []auth.Tier{auth.TierUser, auth.TierModerator, auth.TierAdmin} {
		parsed, err := auth.ParseTier(tier.String())
		require.NoError(t, err)
		assert.Equal(t, tier, parsed)
	}
}

func TestCanModify(t *testing.T) {
	const ownerID = "owner-1"
	cases := []struct {
		name string
		p    auth.Principal
		want bool
	}{
		{"owner", auth.Principal{ID: ownerID, Tier: auth.TierUser}, true},
		{"admin non-owner", auth.Principal{ID: "other", Tier: auth.TierAdmin}, true},
		{"stranger", auth.Principal{ID: "other", Tier: auth.TierUser}, false},
		{"moderator non-owner", auth.Principal{ID: "other", Tier: auth.TierModerator}, false},
		{"zero principal", auth.Principal{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, auth.CanModify(tc.p, ownerID))
		})
	}
}

func TestCanModerate(t *testing.T) {
	assert.False(t, auth.CanModerate(auth.Principal{ID: "u", Tier: auth.TierUser}))
	assert.True(t, auth.CanModerate(auth.Principal{ID: "m", Tier: auth.TierModerator}))
	assert.True(t, auth.CanModerate(auth.Principal{ID: "a", Tier: auth.TierAdmin}))
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, auth.Principal{Tier: auth.TierAdmin}.IsAdmin())
	assert.False(t, auth.Principal{Tier: auth.TierModerator}.IsAdmin())
	assert.False(t, auth.Principal{Tier: auth.TierUser}.IsAdmin())
}
