package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yardline/yardline-api/internal/model"
	"github.com/yardline/yardline-api/internal/repository"
)

// VerificationHandler serves identity-verification requests. Opening one is
// self-service; resolving is admin-tier.
type VerificationHandler struct {
	Verifications *repository.VerificationRepo
}

func NewVerificationHandler(v *repository.VerificationRepo) *VerificationHandler {
	return &VerificationHandler{Verifications: v}
}

// Create handles POST /v1/me/verification-requests.
func (h *VerificationHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req struct {
		RequestType string `json:"request_type"`
	}
	if err := c.Bind(&req); err != nil || !model.ValidVerificationType(req.RequestType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request_type"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	vr := model.VerificationRequest{UserID: p.ID, RequestType: req.RequestType}
	if err := h.Verifications.Create(ctx, &vr); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, vr)
}

// ListMine handles GET /v1/me/verification-requests.
func (h *VerificationHandler) ListMine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reqs, err := h.Verifications.ListByUser(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": reqs})
}

// ListPending handles GET /v1/admin/verification-requests, oldest first so
// the queue is worked in order.
func (h *VerificationHandler) ListPending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reqs, err := h.Verifications.ListPending(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"requests": reqs})
}

// SetStatus handles PATCH /v1/admin/verification-requests/:id with verdict
// verified or rejected.
func (h *VerificationHandler) SetStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !model.ValidVerificationStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be verified or rejected"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Verifications.SetStatus(ctx, c.Param("id"), req.Status); err != nil {
		return fail(c, err)
	}
	vr, err := h.Verifications.GetByID(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, vr)
}
