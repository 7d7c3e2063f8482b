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

// YardSaleHandler serves CRUD and browse endpoints for sale events.
type YardSaleHandler struct {
	Sales *repository.YardSaleRepo
}

func NewYardSaleHandler(s *repository.YardSaleRepo) *YardSaleHandler {
	return &YardSaleHandler{Sales: s}
}

type yardSaleReq struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	ZipCode       string   `json:"zip_code"`
	ContactName   string   `json:"contact_name"`
	ContactPhone  string   `json:"contact_phone"`
	ContactEmail  string   `json:"contact_email"`
	VenmoURL      string   `json:"venmo_url"`
	FacebookURL   string   `json:"facebook_url"`
	AllowMessages *bool    `json:"allow_messages"`
	Categories    []string `json:"categories"`
	PriceRange    string   `json:"price_range"`
	Photos        []string `json:"photos"`
	FeaturedImage string   `json:"featured_image"`
	IsPublic      *bool    `json:"is_public"`
	Status        string   `json:"status"`
}

func (r *yardSaleReq) validate() string {
	switch {
	case strings.TrimSpace(r.Title) == "":
		return "title is required"
	case r.StartDate == "" || r.StartTime == "" || r.EndTime == "":
		return "start_date, start_time and end_time are required"
	case strings.TrimSpace(r.Address) == "" || strings.TrimSpace(r.City) == "":
		return "address and city are required"
	case strings.TrimSpace(r.State) == "" || strings.TrimSpace(r.ZipCode) == "":
		return "state and zip_code are required"
	case strings.TrimSpace(r.ContactName) == "":
		return "contact_name is required"
	case r.Status != "" && !model.ValidYardSaleStatus(r.Status):
		return "invalid status"
	}
	return ""
}

func (r *yardSaleReq) apply(ys *model.YardSale) {
	ys.Title = strings.TrimSpace(r.Title)
	ys.Description = r.Description
	ys.StartDate = r.StartDate
	ys.EndDate = r.EndDate
	ys.StartTime = r.StartTime
	ys.EndTime = r.EndTime
	ys.Address = strings.TrimSpace(r.Address)
	ys.City = strings.TrimSpace(r.City)
	ys.State = r.State
	ys.ZipCode = strings.TrimSpace(r.ZipCode)
	ys.ContactName = strings.TrimSpace(r.ContactName)
	ys.ContactPhone = r.ContactPhone
	ys.ContactEmail = r.ContactEmail
	ys.VenmoURL = r.VenmoURL
	ys.FacebookURL = r.FacebookURL
	ys.Categories = r.Categories
	ys.PriceRange = r.PriceRange
	ys.Photos = r.Photos
	ys.FeaturedImage = r.FeaturedImage
	if r.Status != "" {
		ys.Status = r.Status
	}
	ys.AllowMessages = true
	if r.AllowMessages != nil {
		ys.AllowMessages = *r.AllowMessages
	}
	ys.IsPublic = true
	if r.IsPublic != nil {
		ys.IsPublic = *r.IsPublic
	}
}

// Create handles POST /v1/yard-sales.
func (h *YardSaleHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req yardSaleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ys := model.YardSale{OwnerID: p.ID}
	req.apply(&ys)
	if err := h.Sales.Create(ctx, &ys); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, ys)
}

// List handles GET /v1/yard-sales with optional filters.
func (h *YardSaleHandler) List(c echo.Context) error {
	f := repository.YardSaleFilter{
		City:       c.QueryParam("city"),
		State:      c.QueryParam("state"),
		ZipCode:    c.QueryParam("zip_code"),
		Category:   c.QueryParam("category"),
		PriceRange: c.QueryParam("price_range"),
		Status:     c.QueryParam("status"),
		Offset:     intQuery(c, "skip", 0),
		Limit:      intQuery(c, "limit", 100),
	}
	if f.Status != "" && !model.ValidYardSaleStatus(f.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Sales.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Nearby handles GET /v1/yard-sales/search/nearby. Matching is plain ZIP
// equality; no geo-distance math.
func (h *YardSaleHandler) Nearby(c echo.Context) error {
	zip := c.QueryParam("zip_code")
	if zip == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "zip_code is required"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Sales.List(ctx, repository.YardSaleFilter{
		ZipCode: zip,
		Offset:  intQuery(c, "skip", 0),
		Limit:   intQuery(c, "limit", 50),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Mine handles GET /v1/me/yard-sales, including private listings.
func (h *YardSaleHandler) Mine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Sales.ListByOwner(ctx, p.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/yard-sales/:id. A private listing is visible only to
// its owner or an admin; everyone else sees 404.
func (h *YardSaleHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ys, err := h.Sales.GetByID(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if !ys.IsPublic {
		p, perr := principal(c)
		if perr != nil || !auth.CanModify(p, ys.OwnerID) {
			return fail(c, repository.ErrNotFound)
		}
	}
	return c.JSON(http.StatusOK, ys)
}

// loadForMutation fetches a yard sale and applies the uniform
// owner-or-admin rule, returning the deny response when the caller fails
// it.
func (h *YardSaleHandler) loadForMutation(ctx context.Context, c echo.Context) (*model.YardSale, bool, error) {
	p, err := principal(c)
	if err != nil {
		return nil, false, err
	}
	ys, err := h.Sales.GetByID(ctx, c.Param("id"))
	if err != nil {
		return nil, false, fail(c, err)
	}
	if !auth.CanModify(p, ys.OwnerID) {
		return nil, false, denyMutation(c, ys.IsPublic)
	}
	return ys, true, nil
}

// Update handles PUT /v1/yard-sales/:id.
func (h *YardSaleHandler) Update(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ys, ok, err := h.loadForMutation(ctx, c)
	if !ok {
		return err
	}
	var req yardSaleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	req.apply(ys)
	if err := h.Sales.Update(ctx, ys); err != nil {
		return fail(c, err)
	}
	updated, err := h.Sales.GetByID(ctx, ys.ID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateStatus handles PATCH /v1/yard-sales/:id/status.
func (h *YardSaleHandler) UpdateStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !model.ValidYardSaleStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ys, ok, err := h.loadForMutation(ctx, c)
	if !ok {
		return err
	}
	if err := h.Sales.SetStatus(ctx, ys.ID, req.Status); err != nil {
		return fail(c, err)
	}
	ys.Status = req.Status
	return c.JSON(http.StatusOK, ys)
}

// Delete handles DELETE /v1/yard-sales/:id.
func (h *YardSaleHandler) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ys, ok, err := h.loadForMutation(ctx, c)
	if !ok {
		return err
	}
	if err := h.Sales.Delete(ctx, ys.ID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// intQuery parses an integer query parameter with a default.
func intQuery(c echo.Context, name string, def int) int {
	if v := c.QueryParam(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}
