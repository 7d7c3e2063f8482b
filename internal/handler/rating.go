package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yardline/yardline-api/internal/auth"
	"github.com/yardline/yardline-api/internal/model"
	"github.com/yardline/yardline-api/internal/repository"
	"github.com/yardline/yardline-api/internal/service"
)

// RatingHandler serves user-to-user ratings.
type RatingHandler struct {
	Ratings *repository.RatingRepo
	Users   *repository.UserRepo
}

func NewRatingHandler(r *repository.RatingRepo, u *repository.UserRepo) *RatingHandler {
	return &RatingHandler{Ratings: r, Users: u}
}

type ratingReq struct {
	Value       int    `json:"value"`
	Review      string `json:"review"`
	ListingType string `json:"listing_type"`
	ListingID   string `json:"listing_id"`
}

// Create handles POST /v1/users/:id/ratings: the acting principal rates
// the user in the path.
func (h *RatingHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ratedUserID := c.Param("id")
	var req ratingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := service.ValidateRating(p.ID, ratedUserID, req.Value); err != nil {
		return fail(c, err)
	}
	if (req.ListingType == "") != (req.ListingID == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "listing_type and listing_id go together"})
	}
	if req.ListingType != "" && !model.ListingType(req.ListingType).Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing_type"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	exists, err := h.Users.UserExists(ctx, ratedUserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !exists {
		return fail(c, repository.ErrNotFound)
	}

	rt := model.Rating{
		RatedUserID: ratedUserID,
		ReviewerID:  p.ID,
		Value:       req.Value,
		Review:      req.Review,
	}
	if req.ListingType != "" {
		lt := model.ListingType(req.ListingType)
		rt.ListingType = &lt
		rt.ListingID = &req.ListingID
	}
	if err := h.Ratings.Create(ctx, &rt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, rt)
}

// ListForUser handles GET /v1/users/:id/ratings and includes the aggregate
// summary.
func (h *RatingHandler) ListForUser(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID := c.Param("id")
	ratings, err := h.Ratings.ListForUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	summary, err := h.Ratings.Summary(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ratings": ratings, "summary": summary})
}

// Delete handles DELETE /v1/ratings/:id. Reviewer or admin only.
func (h *RatingHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rt, err := h.Ratings.GetByID(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if !auth.CanModify(p, rt.ReviewerID) {
		return denyMutation(c, true)
	}
	if err := h.Ratings.Delete(ctx, rt.ID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
