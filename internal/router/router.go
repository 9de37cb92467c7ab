// Package router maps HTTP routes onto handlers and decides which of
// them sit behind the JWT middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/unilab/lab-reservation-api/internal/config"
	"github.com/unilab/lab-reservation-api/internal/handler"
	"github.com/unilab/lab-reservation-api/internal/middleware"
)

// RegisterRoutes registers the unauthenticated operational endpoints:
// the health check and the Prometheus metrics scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the session endpoints. Login, refresh and
// logout authenticate by credentials or refresh token in the body, so
// none of them sits behind the JWT middleware. /me does.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	e.POST("/login", a.Login)
	e.POST("/refresh", a.Refresh)
	e.POST("/logout", a.Logout)

	g := e.Group("/me")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("", a.Me)
}

// RegisterProfessors registers professor CRUD. Registration stays open
// so the first professor can be created without an existing account;
// reading and mutating accounts requires a session.
func RegisterProfessors(e *echo.Echo, h *handler.ProfessorHandler, jwtSecret string) {
	e.POST("/professores", h.Create)

	g := e.Group("/professores")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// RegisterBookings registers reservation CRUD under /agendamentos. All
// of it requires a session; the listing GETs are additionally served
// through the Redis response cache when one is configured.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, cache config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/agendamentos")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.POST("", h.Create)
	g.GET("", h.List, middleware.ResponseCache(cache, rdb))
	g.GET("/:id", h.Get, middleware.ResponseCache(cache, rdb))
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
