package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardline/yardline-api/internal/auth"
	"github.com/yardline/yardline-api/internal/middleware"
)

func runRequireTier(t *testing.T, min auth.Tier, p *auth.Principal) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if p != nil {
		c.Set(middleware.CtxPrincipal, *p)
	}
	h := middleware.RequireTier(min)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequireTierMissingPrincipal(t *testing.T) {
	rec := runRequireTier(t, auth.TierModerator, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireTierInsufficient(t *testing.T) {
	p := auth.Principal{ID: "u1", Tier: auth.TierUser}
	rec := runRequireTier(t, auth.TierModerator, &p)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	m := auth.Principal{ID: "m1", Tier: auth.TierModerator}
	rec = runRequireTier(t, auth.TierAdmin, &m)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireTierSufficient(t *testing.T) {
	for _, tier := range []auth.Tier{auth.TierModerator, auth.TierAdmin} {
		p := auth.Principal{ID: "x", Tier: tier}
		rec := runRequireTier(t, auth.TierModerator, &p)
		assert.Equal(t, http.StatusOK, rec.Code, tier.String())
	}
}
