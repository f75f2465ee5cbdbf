package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/magsub/subscription-api/internal/auth"
	"github.com/magsub/subscription-api/internal/config"
	"github.com/magsub/subscription-api/internal/database"
	"github.com/magsub/subscription-api/internal/handler"
	"github.com/magsub/subscription-api/internal/queue"
	"github.com/magsub/subscription-api/internal/repository"
	"github.com/magsub/subscription-api/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	tokens := auth.TokenConfig{
		Secret:     cfg.JWTSecret,
		AccessTTL:  time.Duration(cfg.AccessTTLMin) * time.Minute,
		RefreshTTL: time.Duration(cfg.RefreshTTLDays) * 24 * time.Hour,
	}

	users := repository.NewUserRepo(db)
	magazines := repository.NewMagazineRepo(db)
	plans := repository.NewPlanRepo(db)
	subscriptions := repository.NewSubscriptionRepo(db)

	// The refresh registry and the revoker are only wired when the opt-in
	// is set; the default token model is fully stateless.
	var refreshStore auth.RefreshStore
	var revoker handler.RefreshRevoker
	if cfg.RefreshStore {
		repo := repository.NewRefreshTokenRepo(db)
		refreshStore = repo
		revoker = repo
	}

	authenticator, err := auth.NewAuthenticator(tokens, users, refreshStore, cfg.RefreshRotate, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("authenticator: %v", err)
	}

	authHandler := handler.NewAuthHandler(cfg, authenticator, users, revoker)
	magazineHandler := handler.NewMagazineHandler(magazines)
	planHandler := handler.NewPlanHandler(plans)
	subscriptionHandler := handler.NewSubscriptionHandler(subscriptions, users, magazines, plans)

	rdb := config.NewRedisClient() // nil disables caching and rate limiting

	// Background consumer for subscription.created events; it reconnects on
	// its own and never brings the server down.
	go func() {
		if err := queue.StartSubscriptionConsumer(); err != nil {
			log.Printf("subscription consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, authHandler, magazineHandler, planHandler, subscriptionHandler, tokens, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
