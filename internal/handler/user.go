package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yardline/yardline-api/internal/model"
	"github.com/yardline/yardline-api/internal/repository"
)

// UserHandler serves public profiles and self-service profile updates.
type UserHandler struct {
	Users   *repository.UserRepo
	Ratings *repository.RatingRepo
}

func NewUserHandler(u *repository.UserRepo, r *repository.RatingRepo) *UserHandler {
	return &UserHandler{Users: u, Ratings: r}
}

// publicProfile is the view of an account shown to other users: no email,
// phone or tier.
type publicProfile struct {
	ID        string                   `json:"id"`
	Username  string                   `json:"username"`
	Bio       string                   `json:"bio,omitempty"`
	City      string                   `json:"city,omitempty"`
	State     string                   `json:"state,omitempty"`
	Rating    model.RatingSummary `json:"rating"`
	CreatedAt time.Time                `json:"created_at"`
}

// GetProfile handles GET /v1/users/:id. Disabled accounts are shown as not
// found.
func (h *UserHandler) GetProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if !u.IsActive {
		return fail(c, repository.ErrNotFound)
	}
	summary, err := h.Ratings.Summary(ctx, u.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, publicProfile{
		ID: u.ID, Username: u.Username, Bio: u.Bio, City: u.City,
		State: u.State, Rating: summary, CreatedAt: u.CreatedAt,
	})
}

type updateProfileReq struct {
	FullName    *string `json:"full_name"`
	PhoneNumber *string `json:"phone_number"`
	Bio         *string `json:"bio"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	ZipCode     *string `json:"zip_code"`
}

// UpdateMe handles PUT /v1/me. Only profile fields are updatable here; the
// permissions and is_active columns are reachable solely through the admin
// handler, so a principal cannot elevate itself.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, p.ID)
	if err != nil {
		return fail(c, err)
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&u.FullName, req.FullName)
	apply(&u.PhoneNumber, req.PhoneNumber)
	apply(&u.Bio, req.Bio)
	apply(&u.City, req.City)
	apply(&u.ZipCode, req.ZipCode)
	if req.State != nil {
		u.State = strings.ToUpper(strings.TrimSpace(*req.State))
	}
	if err := h.Users.UpdateProfile(ctx, &u); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}
