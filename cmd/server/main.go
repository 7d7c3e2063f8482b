package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/yardline/yardline-api/internal/config"
	"github.com/yardline/yardline-api/internal/database"
	"github.com/yardline/yardline-api/internal/handler"
	"github.com/yardline/yardline-api/internal/middleware"
	"github.com/yardline/yardline-api/internal/queue"
	"github.com/yardline/yardline-api/internal/repository"
	"github.com/yardline/yardline-api/internal/router"
	"github.com/yardline/yardline-api/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Token revocation lives in Redis; without it logout cannot work, so
	// this is fatal rather than degraded.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Fatal("redis: unavailable, refusing to start without revocation store")
	}
	defer rdb.Close()

	users := repository.NewUserRepo(db)
	revoked := repository.NewRevocationRepo(rdb)
	sales := repository.NewYardSaleRepo(db)
	items := repository.NewMarketItemRepo(db)
	comments := repository.NewCommentRepo(db)
	conversations := repository.NewConversationRepo(db)
	messages := repository.NewMessageRepo(db)
	ratings := repository.NewRatingRepo(db)
	reports := repository.NewReportRepo(db)
	verifications := repository.NewVerificationRepo(db)
	listings := repository.NewListingDirectory(db)

	messenger := service.NewMessenger(listings, users, conversations, messages)

	h := router.Handlers{
		Auth:          handler.NewAuthHandler(cfg, users, revoked),
		Users:         handler.NewUserHandler(users, ratings),
		YardSales:     handler.NewYardSaleHandler(sales),
		MarketItems:   handler.NewMarketItemHandler(items),
		Comments:      handler.NewCommentHandler(comments, listings),
		Messages:      handler.NewMessageHandler(messenger),
		Ratings:       handler.NewRatingHandler(ratings, users),
		Reports:       handler.NewReportHandler(reports, users, listings),
		Verifications: handler.NewVerificationHandler(verifications),
		Admin: handler.NewAdminHandler(users, sales, items, conversations,
			messages, reports),
	}

	mw := router.Middleware{
		Authn:     middleware.JWTAuth(cfg.JWTSecret, users, revoked),
		MaybeAuth: middleware.OptionalJWTAuth(cfg.JWTSecret, users, revoked),
	}
	rlCfg := config.LoadRateLimitConfig()
	if rlCfg.Enabled {
		mw.RateLimit = middleware.NewTokenBucket(rlCfg, rdb)
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, h, mw)

	// Broker consumer reconnects on its own; a down broker never blocks
	// HTTP startup.
	go func() {
		if err := queue.StartMessageConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
