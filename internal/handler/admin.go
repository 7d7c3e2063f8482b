package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yardline/yardline-api/internal/auth"
	"github.com/yardline/yardline-api/internal/model"
	"github.com/yardline/yardline-api/internal/repository"
)

// AdminHandler serves the admin-tier account and stats endpoints. Tier
// enforcement happens in middleware; these handlers assume an admin
// principal.
type AdminHandler struct {
	Users         *repository.UserRepo
	Sales         *repository.YardSaleRepo
	Items         *repository.MarketItemRepo
	Conversations *repository.ConversationRepo
	Messages      *repository.MessageRepo
	Reports       *repository.ReportRepo
}

func NewAdminHandler(u *repository.UserRepo, ys *repository.YardSaleRepo,
	it *repository.MarketItemRepo, cv *repository.ConversationRepo,
	m *repository.MessageRepo, rp *repository.ReportRepo) *AdminHandler {
	return &AdminHandler{Users: u, Sales: ys, Items: it, Conversations: cv,
		Messages: m, Reports: rp}
}

// ListUsers handles GET /v1/admin/users with skip/limit paging.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx, intQuery(c, "skip", 0), intQuery(c, "limit", 100))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	total, err := h.Users.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]userResp, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResp(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out, "total": total})
}

type adminUserUpdateReq struct {
	Permissions *string `json:"permissions"`
	IsActive    *bool   `json:"is_active"`
}

// UpdateUser handles PATCH /v1/admin/users/:id: tier changes and
// activate/deactivate. Admins cannot touch their own account here, so the
// last admin cannot lock themselves out mid-request.
func (h *AdminHandler) UpdateUser(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	targetID := c.Param("id")
	if targetID == p.ID {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot modify own account here"})
	}
	var req adminUserUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Permissions == nil && req.IsActive == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nothing to update"})
	}
	if req.Permissions != nil {
		if _, err := auth.ParseTier(*req.Permissions); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid permissions tier"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if req.Permissions != nil {
		if err := h.Users.SetTier(ctx, targetID, *req.Permissions); err != nil {
			return fail(c, err)
		}
	}
	if req.IsActive != nil {
		if err := h.Users.SetActive(ctx, targetID, *req.IsActive); err != nil {
			return fail(c, err)
		}
	}
	u, err := h.Users.GetByID(ctx, targetID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}

// Stats handles GET /v1/admin/stats with platform-wide counters.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	type counter struct {
		name string
		fn   func(context.Context) (int, error)
	}
	counters := []counter{
		{"users", h.Users.Count},
		{"yard_sales", h.Sales.Count},
		{"market_items", h.Items.Count},
		{"conversations", h.Conversations.CountConversations},
		{"messages", h.Messages.CountMessages},
	}
	stats := echo.Map{}
	for _, ct := range counters {
		n, err := ct.fn(ctx)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		stats[ct.name] = n
	}
	pending, err := h.Reports.CountByStatus(ctx, model.ReportPending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	stats["pending_reports"] = pending
	return c.JSON(http.StatusOK, stats)
}
