// Package handler implements the HTTP endpoints. Handlers bind input,
// apply the authorization rules from internal/auth and translate repository
// and service sentinels into HTTP status codes.
package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/yardline/yardline-api/internal/auth"
	"github.com/yardline/yardline-api/internal/middleware"
	"github.com/yardline/yardline-api/internal/model"
	"github.com/yardline/yardline-api/internal/repository"
	"github.com/yardline/yardline-api/internal/service"
)

// principal extracts the authenticated principal stored by the JWT
// middleware.
func principal(c echo.Context) (auth.Principal, error) {
	p, ok := c.Get(middleware.CtxPrincipal).(auth.Principal)
	if !ok {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return p, nil
}

// listingRef builds a ListingRef from the :ltype/:id path segments.
func listingRef(c echo.Context) (model.ListingRef, bool) {
	ref := model.ListingRef{
		Type: model.ListingType(c.Param("ltype")),
		ID:   c.Param("id"),
	}
	return ref, ref.Type.Valid() && ref.ID != ""
}

// fail maps sentinel errors onto HTTP responses. The forbidden-vs-not-found
// policy decisions are made by callers before reaching here: handlers pass
// ErrNotFound when existence must stay hidden and ErrForbidden when the
// resource is already visible to the caller.
func fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	case errors.Is(err, repository.ErrUsernameExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "username already registered"})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	case errors.Is(err, service.ErrMessagingDisabled):
		return c.JSON(http.StatusConflict, echo.Map{"error": "this listing does not allow messages"})
	case errors.Is(err, service.ErrSelfMessage):
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot send message to yourself"})
	case errors.Is(err, service.ErrEmptyContent),
		errors.Is(err, service.ErrInvalidRecipient),
		errors.Is(err, service.ErrRatingRange),
		errors.Is(err, service.ErrSelfRating):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// denyMutation applies the uniform deny policy for a mutation the caller
// may not perform: 403 when the resource is publicly visible to them, 404
// otherwise so existence stays hidden.
func denyMutation(c echo.Context, publiclyVisible bool) error {
	if publiclyVisible {
		return fail(c, repository.ErrForbidden)
	}
	return fail(c, repository.ErrNotFound)
}
