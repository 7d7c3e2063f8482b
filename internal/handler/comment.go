package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/yardline/yardline-api/internal/auth"
	"github.com/yardline/yardline-api/internal/model"
	"github.com/yardline/yardline-api/internal/repository"
)

// CommentHandler serves public comments attached to listings.
type CommentHandler struct {
	Comments *repository.CommentRepo
	Listings *repository.ListingDirectory
}

func NewCommentHandler(cm *repository.CommentRepo, ld *repository.ListingDirectory) *CommentHandler {
	return &CommentHandler{Comments: cm, Listings: ld}
}

type commentReq struct {
	Content string `json:"content"`
}

// lookupListing resolves the :ltype/:id listing and hides private listings
// from everyone but their owner and admins. p may be the zero Principal for
// anonymous reads.
func (h *CommentHandler) lookupListing(ctx context.Context, c echo.Context, p auth.Principal) (model.ListingRef, error) {
	ref, ok := listingRef(c)
	if !ok {
		return ref, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid listing reference"})
	}
	info, err := h.Listings.Lookup(ctx, ref)
	if err != nil {
		return ref, fail(c, err)
	}
	if !info.IsPublic && !auth.CanModify(p, info.OwnerID) {
		return ref, fail(c, repository.ErrNotFound)
	}
	return ref, nil
}

// Create handles POST /v1/listings/:ltype/:id/comments.
func (h *CommentHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ref, errResp := h.lookupListing(ctx, c, p)
	if errResp != nil {
		return errResp
	}
	cm := model.Comment{
		ListingType: ref.Type,
		ListingID:   ref.ID,
		UserID:      p.ID,
		Content:     req.Content,
	}
	if err := h.Comments.Create(ctx, &cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, cm)
}

// List handles GET /v1/listings/:ltype/:id/comments, oldest first. Works
// without authentication for public listings.
func (h *CommentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, _ := principal(c)
	ref, errResp := h.lookupListing(ctx, c, p)
	if errResp != nil {
		return errResp
	}
	comments, err := h.Comments.ListByListing(ctx, ref)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}

// Update handles PUT /v1/comments/:id. Author-only; even admins do not edit
// other people's words.
func (h *CommentHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req commentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "content is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cm, err := h.Comments.GetByID(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if cm.UserID != p.ID {
		return denyMutation(c, true)
	}
	if err := h.Comments.UpdateContent(ctx, cm.ID, req.Content); err != nil {
		return fail(c, err)
	}
	cm.Content = req.Content
	return c.JSON(http.StatusOK, cm)
}

// Delete handles DELETE /v1/comments/:id. Author or admin only, the same
// rule as every other owned resource.
func (h *CommentHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	cm, err := h.Comments.GetByID(ctx, c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	if !auth.CanModify(p, cm.UserID) {
		return denyMutation(c, true)
	}
	if err := h.Comments.Delete(ctx, cm.ID); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
