// Package router wires the HTTP surface: which handler serves which
// path and which middleware guards it.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hostel-admin/internal/config"
	"github.com/iliyamo/hostel-admin/internal/handler"
	"github.com/iliyamo/hostel-admin/internal/middleware"
)

// Handlers bundles every handler the router needs.
type Handlers struct {
	Auth        *handler.AuthHandler
	Rooms       *handler.RoomHandler
	Residents   *handler.ResidentHandler
	Payments    *handler.PaymentHandler
	Assignments *handler.AssignmentHandler
}

// Register wires all routes.  Layout:
//
//	/healthz          unauthenticated probe
//	/v1/auth/*        session management, no JWT required
//	/v1/*             console routes, JWT + ADMIN role
//
// Rate limiting covers everything under /v1.  The response cache is
// applied to the read-only console GETs; it must never sit in front
// of mutating routes, which have to observe fresh occupancy and
// balance state.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	auth := e.Group("/v1/auth", limiter)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/refresh-access", h.Auth.RefreshAccess)

	v1 := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(handler.RoleAdmin), limiter)
	v1.POST("/auth/logout", h.Auth.Logout)
	v1.GET("/me", h.Auth.Me)

	v1.GET("/rooms", h.Rooms.List, cache)
	v1.GET("/rooms/:id", h.Rooms.Get, cache)
	v1.GET("/rooms/:id/occupancy", h.Rooms.Occupancy, cache)
	v1.GET("/rooms/:id/rent", h.Rooms.Rent, cache)

	v1.GET("/residents", h.Residents.Search, cache)
	v1.POST("/residents", h.Residents.Register)
	v1.GET("/residents/:id", h.Residents.Get, cache)
	v1.GET("/residents/:id/balance", h.Residents.Balance)
	v1.POST("/residents/:id/vacate", h.Residents.Vacate)

	v1.GET("/residents/:id/payments", h.Payments.List)
	v1.POST("/residents/:id/payments", h.Payments.Record)

	v1.POST("/residents/:id/assign-room", h.Assignments.Assign)
	v1.POST("/residents/:id/change-room", h.Assignments.Change)
	v1.POST("/residents/swap", h.Assignments.Swap)
}
