package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yardline/yardline-api/internal/auth"
)

// RequireTier enforces a minimum permission tier on a route group. It
// assumes JWTAuth ran earlier and stored the principal in context; a
// missing principal is treated as unauthorized, an insufficient tier as
// forbidden.
func RequireTier(min auth.Tier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := c.Get(CtxPrincipal).(auth.Principal)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if !p.Tier.AtLeast(min) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
