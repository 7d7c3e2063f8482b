// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/yardline/yardline-api/internal/auth"
	"github.com/yardline/yardline-api/internal/handler"
	"github.com/yardline/yardline-api/internal/middleware"
)

// Handlers bundles every handler the router needs.
type Handlers struct {
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	YardSales     *handler.YardSaleHandler
	MarketItems   *handler.MarketItemHandler
	Comments      *handler.CommentHandler
	Messages      *handler.MessageHandler
	Ratings       *handler.RatingHandler
	Reports       *handler.ReportHandler
	Verifications *handler.VerificationHandler
	Admin         *handler.AdminHandler
}

// Middleware bundles the cross-cutting middleware the routes depend on.
type Middleware struct {
	Authn     echo.MiddlewareFunc // strict bearer auth
	MaybeAuth echo.MiddlewareFunc // optional bearer auth for browse routes
	RateLimit echo.MiddlewareFunc // may be nil when Redis is absent
}

// Register mounts every route. Three tiers of access: public (optionally
// authenticated browse), authenticated, and the moderator/admin groups.
func Register(e *echo.Echo, h Handlers, mw Middleware) {
	if mw.RateLimit != nil {
		e.Use(mw.RateLimit)
	}

	e.GET("/healthz", handler.Health)

	// Unauthenticated auth operations.
	authGroup := e.Group("/v1/auth")
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)

	// Public browse. Optional auth so owners see their own private
	// listings here while everyone else gets 404.
	pub := e.Group("/v1", mw.MaybeAuth)
	pub.GET("/yard-sales", h.YardSales.List)
	pub.GET("/yard-sales/search/nearby", h.YardSales.Nearby)
	pub.GET("/yard-sales/:id", h.YardSales.Get)
	pub.GET("/market-items", h.MarketItems.Search)
	pub.GET("/market-items/:id", h.MarketItems.Get)
	pub.GET("/listings/:ltype/:id/comments", h.Comments.List)
	pub.GET("/users/:id", h.Users.GetProfile)
	pub.GET("/users/:id/ratings", h.Ratings.ListForUser)

	// Everything below requires a live, unrevoked token and an active
	// account.
	priv := e.Group("/v1", mw.Authn)

	priv.POST("/auth/logout", h.Auth.Logout)
	priv.GET("/me", h.Auth.Me)
	priv.PUT("/me", h.Users.UpdateMe)

	priv.POST("/yard-sales", h.YardSales.Create)
	priv.GET("/me/yard-sales", h.YardSales.Mine)
	priv.PUT("/yard-sales/:id", h.YardSales.Update)
	priv.PATCH("/yard-sales/:id/status", h.YardSales.UpdateStatus)
	priv.DELETE("/yard-sales/:id", h.YardSales.Delete)

	priv.POST("/market-items", h.MarketItems.Create)
	priv.GET("/me/market-items", h.MarketItems.Mine)
	priv.PUT("/market-items/:id", h.MarketItems.Update)
	priv.PATCH("/market-items/:id/status", h.MarketItems.UpdateStatus)
	priv.DELETE("/market-items/:id", h.MarketItems.Delete)

	priv.POST("/listings/:ltype/:id/comments", h.Comments.Create)
	priv.PUT("/comments/:id", h.Comments.Update)
	priv.DELETE("/comments/:id", h.Comments.Delete)

	priv.POST("/listings/:ltype/:id/messages", h.Messages.Send)
	priv.GET("/listings/:ltype/:id/messages", h.Messages.ListingThread)
	priv.GET("/me/messages", h.Messages.Inbox)
	priv.GET("/me/messages/unread-count", h.Messages.UnreadCount)
	priv.PATCH("/messages/:id/read", h.Messages.MarkRead)
	priv.DELETE("/messages/:id", h.Messages.Delete)

	priv.POST("/users/:id/ratings", h.Ratings.Create)
	priv.DELETE("/ratings/:id", h.Ratings.Delete)

	priv.POST("/reports", h.Reports.Create)
	priv.GET("/me/reports", h.Reports.ListMine)

	priv.POST("/me/verification-requests", h.Verifications.Create)
	priv.GET("/me/verification-requests", h.Verifications.ListMine)

	// Moderation queue: moderator tier or above.
	mod := e.Group("/v1/moderation", mw.Authn, middleware.RequireTier(auth.TierModerator))
	mod.GET("/reports", h.Reports.ListAll)
	mod.PATCH("/reports/:id", h.Reports.SetStatus)

	// Admin-only account management and stats.
	adm := e.Group("/v1/admin", mw.Authn, middleware.RequireTier(auth.TierAdmin))
	adm.GET("/users", h.Admin.ListUsers)
	adm.PATCH("/users/:id", h.Admin.UpdateUser)
	adm.GET("/stats", h.Admin.Stats)
	adm.GET("/verification-requests", h.Verifications.ListPending)
	adm.PATCH("/verification-requests/:id", h.Verifications.SetStatus)
}
