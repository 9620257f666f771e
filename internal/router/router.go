package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/iliyamo/event-rides/internal/handler"    // HTTP handlers
    "github.com/iliyamo/event-rides/internal/middleware" // JWT authentication
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
    e.GET("/healthz", h.Health)
}

// RegisterAuth registers all authentication-related routes.  Token issuing
// operations live under /v1/auth and need no session; /v1/me requires a
// valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    // Rotates the refresh token.
    g.POST("/refresh", a.Refresh)
    // Issues an access token and keeps the refresh token.
    g.POST("/refresh-access", a.RefreshAccess)
    // Accepts a refresh_token body or a bearer token; see AuthHandler.Logout.
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
    auth.GET("/me", a.Me)

    e.POST("/v1/logout", a.Logout)
}
