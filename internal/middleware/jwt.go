// Package middleware contains reusable HTTP middleware: bearer-token
// authentication, tier enforcement and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/yardline/yardline-api/internal/auth"
	"github.com/yardline/yardline-api/internal/model"
	"github.com/yardline/yardline-api/internal/repository"
	"github.com/yardline/yardline-api/internal/utils"
)

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxPrincipal = "principal" // auth.Principal of the acting user
	CtxJTI       = "jti"       // token id, needed by logout
	CtxTokenExp  = "token_exp" // token expiry, needed by logout
)

// UserLookup is the slice of the user repository the auth middleware needs
// to load the account a token names.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (model.User, error)
}

// JWTAuth validates a Bearer access token and loads the acting principal.
// A token is accepted iff it parses and verifies, its jti is not in the
// revocation set, and the account it names is still active. All failures
// look identical to the caller: 401 with no reason detail, so an attacker
// cannot distinguish expired from revoked from unknown.
func JWTAuth(secret string, users UserLookup, revoked repository.RevocationStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			ctx := c.Request().Context()
			// Fail closed: if the revocation set is unreachable, reject
			// rather than accept a possibly revoked token.
			isRevoked, err := revoked.IsRevoked(ctx, claims.JTI)
			if err != nil || isRevoked {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			// The tier in the token reflects issuance time; load the user so
			// admin-driven tier changes and deactivation apply immediately.
			u, err := users.GetByID(ctx, claims.UserID)
			if err != nil || !u.IsActive {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			tier, err := auth.ParseTier(u.Permissions)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			c.Set(CtxPrincipal, auth.Principal{ID: u.ID, Tier: tier})
			c.Set(CtxJTI, claims.JTI)
			c.Set(CtxTokenExp, claims.Exp)
			return next(c)
		}
	}
}

// OptionalJWTAuth loads a principal when a valid Bearer token is present
// but lets the request through anonymously otherwise. Used on browse
// endpoints where owners see their own private listings and everyone else
// sees public data. A token that is present but bad is treated as absent,
// never as a 401.
func OptionalJWTAuth(secret string, users UserLookup, revoked repository.RevocationStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return next(c)
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return next(c)
			}
			ctx := c.Request().Context()
			if isRevoked, err := revoked.IsRevoked(ctx, claims.JTI); err != nil || isRevoked {
				return next(c)
			}
			u, err := users.GetByID(ctx, claims.UserID)
			if err != nil || !u.IsActive {
				return next(c)
			}
			tier, err := auth.ParseTier(u.Permissions)
			if err != nil {
				return next(c)
			}
			c.Set(CtxPrincipal, auth.Principal{ID: u.ID, Tier: tier})
			return next(c)
		}
	}
}
