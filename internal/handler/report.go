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

// ReportHandler serves abuse reports. Filing is open to any authenticated
// user; the review queue is moderator-tier.
type ReportHandler struct {
	Reports  *repository.ReportRepo
	Users    *repository.UserRepo
	Listings *repository.ListingDirectory
}

func NewReportHandler(rp *repository.ReportRepo, u *repository.UserRepo, ld *repository.ListingDirectory) *ReportHandler {
	return &ReportHandler{Reports: rp, Users: u, Listings: ld}
}

type reportReq struct {
	ReportedUserID string `json:"reported_user_id"`
	ListingType    string `json:"listing_type"`
	ListingID      string `json:"listing_id"`
	ReportType     string `json:"report_type"`
	Description    string `json:"description"`
}

// Create handles POST /v1/reports. Exactly one target: a user or a listing.
func (h *ReportHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req reportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.ReportType = strings.TrimSpace(req.ReportType)
	if req.ReportType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "report_type is required"})
	}
	hasUser := req.ReportedUserID != ""
	hasListing := req.ListingID != ""
	if hasUser == hasListing {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "report exactly one of reported_user_id or listing_id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rp := model.Report{
		ReporterID:  p.ID,
		ReportType:  req.ReportType,
		Description: req.Description,
	}
	if hasUser {
		exists, err := h.Users.UserExists(ctx, req.ReportedUserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if !exists {
			return fail(c, repository.ErrNotFound)
		}
		rp.ReportedUserID = &req.ReportedUserID
	} else {
		lt := model.ListingType(req.ListingType)
		if !lt.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing_type"})
		}
		if _, err := h.Listings.Lookup(ctx, model.ListingRef{Type: lt, ID: req.ListingID}); err != nil {
			return fail(c, err)
		}
		rp.ListingType = &lt
		rp.ListingID = &req.ListingID
	}
	if err := h.Reports.Create(ctx, &rp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, rp)
}

// ListMine handles GET /v1/me/reports.
func (h *ReportHandler) ListMine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reports, err := h.Reports.ListByReporter(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reports": reports})
}

// ListAll handles GET /v1/moderation/reports with an optional ?status=
// filter. Moderator tier is enforced by middleware.
func (h *ReportHandler) ListAll(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && !model.ValidReportStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reports, err := h.Reports.ListAll(ctx, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reports": reports})
}

// SetStatus handles PATCH /v1/moderation/reports/:id.
func (h *ReportHandler) SetStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !model.ValidReportStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reports.SetStatus(ctx, c.Param("id"), req.Status); err != nil {
		return fail(c, err)
	}
	rp, err := h.Reports.GetByID(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rp)
}
