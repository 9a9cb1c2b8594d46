// Package router defines how HTTP routes are registered for the
// dashboard API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/minhlq/boxoffice-etl/internal/config"
	"github.com/minhlq/boxoffice-etl/internal/handler"
	"github.com/minhlq/boxoffice-etl/internal/middleware"
)

// RegisterRoutes registers the health check and the static dashboard
// page on the provided Echo instance.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.File("/", "web/dashboard.html")
}

// RegisterDashboard registers the datamart read endpoints under /api.
// The whole group sits behind the Redis response cache: datamart tables
// only change when a pipeline run finishes, so the TTL bounds staleness.
func RegisterDashboard(e *echo.Echo, h *handler.DashboardHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/api")
	g.Use(middleware.NewRedisCache(cacheCfg, rdb))
	g.GET("/daily-revenue", h.GetDailyRevenue)
	g.GET("/top-movies", h.GetTopMovies)
	g.GET("/status", h.GetStatus)
}
