package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yardline/yardline-api/internal/auth"
	"github.com/yardline/yardline-api/internal/middleware"
	"github.com/yardline/yardline-api/internal/model"
	"github.com/yardline/yardline-api/internal/repository"
	"github.com/yardline/yardline-api/internal/utils"
)

const jwtTestSecret = "unit-test-secret"

type fakeUserLookup map[string]model.User

func (f fakeUserLookup) GetByID(_ context.Context, id string) (model.User, error) {
	u, ok := f[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

// fakeRevocations is an in-memory repository.RevocationStore. A non-nil err
// simulates an unreachable store.
type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func newFakeRevocations() *fakeRevocations {
	return &fakeRevocations{revoked: map[string]bool{}}
}

func (f *fakeRevocations) Revoke(_ context.Context, jti string, _ time.Duration) error {
	f.revoked[jti] = true
	return nil
}

func (f *fakeRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

func activeUsers() fakeUserLookup {
	return fakeUserLookup{
		"u1": {ID: "u1", Username: "pat", Permissions: "user", IsActive: true},
	}
}

func runAuthChain(t *testing.T, mw echo.MiddlewareFunc, header string) (*httptest.ResponseRecorder, *auth.Principal) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *auth.Principal
	h := mw(func(c echo.Context) error {
		if p, ok := c.Get(middleware.CtxPrincipal).(auth.Principal); ok {
			got = &p
		}
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, got
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	revoked := newFakeRevocations()
	mw := middleware.JWTAuth(jwtTestSecret, activeUsers(), revoked)

	tok, err := utils.NewAccessToken(jwtTestSecret, "u1", "user", 15)
	require.NoError(t, err)

	rec, p := runAuthChain(t, mw, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, p)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, auth.TierUser, p.Tier)
}

// A token that validated a moment ago must be rejected on the very next
// request once its jti enters the revocation set.
func TestJWTAuthRejectsRevokedToken(t *testing.T) {
	revoked := newFakeRevocations()
	mw := middleware.JWTAuth(jwtTestSecret, activeUsers(), revoked)

	tok, err := utils.NewAccessToken(jwtTestSecret, "u1", "user", 15)
	require.NoError(t, err)

	rec, _ := runAuthChain(t, mw, "Bearer "+tok.Token)
	require.Equal(t, http.StatusOK, rec.Code, "token must be accepted before revocation")

	require.NoError(t, revoked.Revoke(context.Background(), tok.JTI, time.Until(tok.Exp)))

	rec, p := runAuthChain(t, mw, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, p)
}

// An unreachable revocation store must reject, never accept a possibly
// revoked token.
func TestJWTAuthFailsClosedOnRevocationError(t *testing.T) {
	revoked := newFakeRevocations()
	revoked.err = errors.New("store unreachable")
	mw := middleware.JWTAuth(jwtTestSecret, activeUsers(), revoked)

	tok, err := utils.NewAccessToken(jwtTestSecret, "u1", "user", 15)
	require.NoError(t, err)

	rec, _ := runAuthChain(t, mw, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsDisabledAccount(t *testing.T) {
	users := fakeUserLookup{
		"u1": {ID: "u1", Username: "pat", Permissions: "user", IsActive: false},
	}
	mw := middleware.JWTAuth(jwtTestSecret, users, newFakeRevocations())

	tok, err := utils.NewAccessToken(jwtTestSecret, "u1", "user", 15)
	require.NoError(t, err)

	rec, _ := runAuthChain(t, mw, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsMissingOrGarbageToken(t *testing.T) {
	mw := middleware.JWTAuth(jwtTestSecret, activeUsers(), newFakeRevocations())

	for _, header := range []string{"", "Bearer not-a-jwt", "Basic dXNlcjpwdw=="} {
		rec, p := runAuthChain(t, mw, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Nil(t, p)
	}
}

func TestOptionalJWTAuthFallsThroughAnonymously(t *testing.T) {
	revoked := newFakeRevocations()
	mw := middleware.OptionalJWTAuth(jwtTestSecret, activeUsers(), revoked)

	// No header: anonymous, request still served.
	rec, p := runAuthChain(t, mw, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, p)

	// Bad token is treated as absent, never a 401.
	rec, p = runAuthChain(t, mw, "Bearer not-a-jwt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, p)

	// Valid token attaches the principal.
	tok, err := utils.NewAccessToken(jwtTestSecret, "u1", "user", 15)
	require.NoError(t, err)
	rec, p = runAuthChain(t, mw, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, p)
	assert.Equal(t, "u1", p.ID)

	// A revoked token also degrades to anonymous here; protected routes
	// still reject it via JWTAuth.
	require.NoError(t, revoked.Revoke(context.Background(), tok.JTI, time.Until(tok.Exp)))
	rec, p = runAuthChain(t, mw, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, p)
}
