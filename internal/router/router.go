package router

import (
	"github.com/labstack/echo/v4"

	"github.com/arenahub/arena-backend/internal/handler"
	"github.com/arenahub/arena-backend/internal/middleware"
	"github.com/arenahub/arena-backend/internal/model"
)

// RegisterHealth registers the unauthenticated health probe used by load
// balancers and monitoring.
func RegisterHealth(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the session endpoints. Register, login, refresh and
// logout work without an access token; /v1/me requires one.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Rotates the refresh token: the presented token is consumed and a new
	// pair is issued.
	g.POST("/refresh", a.Refresh)
	// Logout takes the refresh token in the body, so no JWT is required.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterRanking registers the player and match-history endpoints.
// Listing and detail are public; every mutation requires an admin session.
func RegisterRanking(e *echo.Echo, h *handler.RankingHandler, resolver middleware.CapabilityResolver, jwtSecret string) {
	e.GET("/v1/players", h.ListPlayers)
	e.GET("/v1/players/:id", h.GetPlayer)

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireCapability(resolver, model.CapabilityAdmin))
	admin.POST("/players", h.CreatePlayer)
	admin.PATCH("/players/:id", h.UpdatePlayer)
	admin.DELETE("/players/:id", h.DeletePlayer)
	admin.POST("/matches", h.AddMatch)
	admin.PATCH("/matches/:id", h.UpdateMatch)
	admin.DELETE("/matches/:id", h.DeleteMatch)
}

// RegisterRoles registers role management and assignment endpoints. All of
// them require an admin session.
func RegisterRoles(e *echo.Echo, h *handler.RoleHandler, resolver middleware.CapabilityResolver, jwtSecret string) {
	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireCapability(resolver, model.CapabilityAdmin))
	admin.POST("/roles", h.Create)
	admin.GET("/roles", h.List)
	admin.GET("/roles/:id", h.Get)
	admin.PATCH("/roles/:id", h.Rename)
	admin.DELETE("/roles/:id", h.Delete)
	admin.GET("/roles/:id/users", h.RoleUsers)
	admin.POST("/roles/assign", h.Assign)
	admin.DELETE("/roles/assign", h.Remove)
	admin.GET("/users/:id/roles", h.UserRoles)
}

// RegisterNews registers the news endpoints. Reads are public; writes
// require an admin session.
func RegisterNews(e *echo.Echo, h *handler.NewsHandler, resolver middleware.CapabilityResolver, jwtSecret string) {
	e.GET("/v1/news", h.List)
	e.GET("/v1/news/:id", h.Get)

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireCapability(resolver, model.CapabilityAdmin))
	admin.POST("/news", h.Create)
	admin.PATCH("/news/:id", h.Update)
	admin.DELETE("/news/:id", h.Delete)
}

// RegisterEvents registers the event endpoints. Reads are public; writes
// require an admin session.
func RegisterEvents(e *echo.Echo, h *handler.EventHandler, resolver middleware.CapabilityResolver, jwtSecret string) {
	e.GET("/v1/events", h.List)
	e.GET("/v1/events/:id", h.Get)

	admin := e.Group("/v1")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireCapability(resolver, model.CapabilityAdmin))
	admin.POST("/events", h.Create)
	admin.PATCH("/events/:id", h.Update)
	admin.DELETE("/events/:id", h.Delete)
}
