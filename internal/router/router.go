// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/magsub/subscription-api/internal/auth"
	"github.com/magsub/subscription-api/internal/config"
	"github.com/magsub/subscription-api/internal/handler"
	"github.com/magsub/subscription-api/internal/middleware"
)

// Register wires every route of the service onto the Echo instance.
// Paths follow the historical API surface: user/session endpoints under
// /users, plus plain CRUD under /magazines, /plans and /subscriptions.
// The read-heavy catalog listings sit behind the Redis response cache and
// everything is rate limited; both middlewares degrade to pass-throughs
// when rdb is nil.
func Register(e *echo.Echo, a *handler.AuthHandler, m *handler.MagazineHandler, p *handler.PlanHandler, s *handler.SubscriptionHandler, tokens auth.TokenConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	e.Use(limiter)

	// User registration and session lifecycle. Login consumes the
	// form-encoded OAuth2 password shape; /users/me requires a bearer token.
	u := e.Group("/users")
	u.POST("/register", a.Register)
	u.POST("/login", a.Login)
	u.POST("/token/refresh", a.Refresh)
	u.POST("/reset-password", a.ResetPassword)
	u.DELETE("/deactivate/:username", a.Deactivate)
	u.GET("/me", a.Me, middleware.BearerAuth(tokens))

	// Magazine catalog CRUD. Listing is cached.
	mg := e.Group("/magazines")
	mg.GET("/", m.List, cache)
	mg.POST("/", m.Create)
	mg.GET("/:id", m.Get)
	mg.PUT("/:id", m.Update)
	mg.DELETE("/:id", m.Delete)

	// Plan CRUD. Listing is cached.
	pl := e.Group("/plans")
	pl.GET("/", p.List, cache)
	pl.POST("/", p.Create)
	pl.GET("/:id", p.Get)
	pl.PUT("/:id", p.Update)
	pl.DELETE("/:id", p.Delete)

	// Subscription CRUD.
	sub := e.Group("/subscriptions")
	sub.GET("/", s.List)
	sub.POST("/", s.Create)
	sub.GET("/:id", s.Get)
	sub.PUT("/:id", s.Update)
	sub.DELETE("/:id", s.Delete)
}
