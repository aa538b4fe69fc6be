// Package router wires HTTP routes to handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/devsoc/hackathon-platform/internal/config"
	"github.com/devsoc/hackathon-platform/internal/handler"
	"github.com/devsoc/hackathon-platform/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication:
// the health check and the public project showcase. The showcase
// sits behind the Redis response cache when one is available.
func RegisterRoutes(e *echo.Echo, sc *handler.ShowcaseHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/showcase", sc.List, middleware.NewRedisCache(cacheCfg, rdb))
}

// RegisterAuth registers registration and login under /v1/auth
// (unauthenticated) and token refresh on the protected group.
func RegisterAuth(e *echo.Echo, auth *echo.Group, a *handler.AuthHandler) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	// Refresh needs a valid token to re-sign, so it lives on the
	// protected group rather than under /v1/auth.
	auth.POST("/auth/refresh", a.Refresh)
}
