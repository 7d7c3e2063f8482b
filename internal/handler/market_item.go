package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yardline/yardline-api/internal/auth"
	"github.com/yardline/yardline-api/internal/model"
	"github.com/yardline/yardline-api/internal/repository"
)

// MarketItemHandler serves CRUD and search endpoints for standalone
// marketplace items.
type MarketItemHandler struct {
	Items *repository.MarketItemRepo
}

func NewMarketItemHandler(r *repository.MarketItemRepo) *MarketItemHandler {
	return &MarketItemHandler{Items: r}
}

type marketItemReq struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	Price            *float64 `json:"price"`
	IsFree           *bool    `json:"is_free"`
	AcceptsBestOffer *bool    `json:"accepts_best_offer"`
	Category         string   `json:"category"`
	Condition        string   `json:"condition"`
	Quantity         *int     `json:"quantity"`
	AllowMessages    *bool    `json:"allow_messages"`
	Photos           []string `json:"photos"`
	FeaturedImage    string   `json:"featured_image"`
	IsPublic         *bool    `json:"is_public"`
	Status           string   `json:"status"`
}

func (r *marketItemReq) validate() string {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return "name is required"
	case r.Price != nil && *r.Price < 0:
		return "price must not be negative"
	case r.Quantity != nil && *r.Quantity < 1:
		return "quantity must be at least 1"
	case r.Status != "" && !model.ValidItemStatus(r.Status):
		return "invalid status"
	}
	return ""
}

func (r *marketItemReq) apply(it *model.MarketItem) {
	it.Name = strings.TrimSpace(r.Name)
	it.Description = r.Description
	if r.Price != nil {
		it.Price = *r.Price
	}
	if r.IsFree != nil {
		it.IsFree = *r.IsFree
	}
	if it.IsFree {
		it.Price = 0
	}
	if r.AcceptsBestOffer != nil {
		it.AcceptsBestOffer = *r.AcceptsBestOffer
	}
	it.Category = r.Category
	it.Condition = r.Condition
	if r.Quantity != nil {
		it.Quantity = *r.Quantity
	}
	if it.Quantity == 0 {
		it.Quantity = 1
	}
	it.Photos = r.Photos
	it.FeaturedImage = r.FeaturedImage
	if r.Status != "" {
		it.Status = r.Status
	}
	it.IsPublic = true
	if r.IsPublic != nil {
		it.IsPublic = *r.IsPublic
	}
	it.AllowMessages = true
	if r.AllowMessages != nil {
		it.AllowMessages = *r.AllowMessages
	}
}

// Create handles POST /v1/market-items.
func (h *MarketItemHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req marketItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	it := model.MarketItem{OwnerID: p.ID}
	req.apply(&it)
	if err := h.Items.Create(ctx, &it); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, it)
}

// Search handles GET /v1/market-items. Hidden items never appear here.
func (h *MarketItemHandler) Search(c echo.Context) error {
	f := repository.MarketItemFilter{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Status:   c.QueryParam("status"),
		Offset:   intQuery(c, "skip", 0),
		Limit:    intQuery(c, "limit", 100),
	}
	if v := c.QueryParam("min_price"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_price"})
		}
		f.MinPrice = &n
	}
	if v := c.QueryParam("max_price"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price"})
		}
		f.MaxPrice = &n
	}
	if f.Status == "" {
		f.Status = model.ItemActive
	}
	if f.Status == model.ItemHidden || !model.ValidItemStatus(f.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Items.Search(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Mine handles GET /v1/me/market-items, including hidden and private items.
func (h *MarketItemHandler) Mine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Items.ListByOwner(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/market-items/:id. Hidden or private items look like
// 404 to everyone except the owner and admins.
func (h *MarketItemHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	it, err := h.Items.GetByID(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if !it.IsPublic || it.Status == model.ItemHidden {
		p, perr := principal(c)
		if perr != nil || !auth.CanModify(p, it.OwnerID) {
			return fail(c, repository.ErrNotFound)
		}
	}
	return c.JSON(http.StatusOK, it)
}

func (h *MarketItemHandler) loadForMutation(ctx context.Context, c echo.Context) (*model.MarketItem, bool, error) {
	p, err := principal(c)
	if err != nil {
		return nil, false, err
	}
	it, err := h.Items.GetByID(ctx, c.Param("id"))
	if err != nil {
		return nil, false, fail(c, err)
	}
	if !auth.CanModify(p, it.OwnerID) {
		visible := it.IsPublic && it.Status != model.ItemHidden
		return nil, false, denyMutation(c, visible)
	}
	return it, true, nil
}

// Update handles PUT /v1/market-items/:id.
func (h *MarketItemHandler) Update(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	it, ok, err := h.loadForMutation(ctx, c)
	if !ok {
		return err
	}
	var req marketItemReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	req.apply(it)
	if err := h.Items.Update(ctx, it); err != nil {
		return fail(c, err)
	}
	updated, err := h.Items.GetByID(ctx, it.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateStatus handles PATCH /v1/market-items/:id/status (active, sold,
// hidden).
func (h *MarketItemHandler) UpdateStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !model.ValidItemStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	it, ok, err := h.loadForMutation(ctx, c)
	if !ok {
		return err
	}
	if err := h.Items.SetStatus(ctx, it.ID, req.Status); err != nil {
		return fail(c, err)
	}
	it.Status = req.Status
	return c.JSON(http.StatusOK, it)
}

// Delete handles DELETE /v1/market-items/:id.
func (h *MarketItemHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	it, ok, err := h.loadForMutation(ctx, c)
	if !ok {
		return err
	}
	if err := h.Items.Delete(ctx, it.ID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
