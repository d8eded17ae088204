package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/identity-service/internal/handler"
	"github.com/iliyamo/identity-service/internal/middleware"
	"github.com/iliyamo/identity-service/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check used by
// load balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth wires the session, verification and reset endpoints.
// Unauthenticated operations live under /v1/auth; credential endpoints
// additionally go through the token-bucket limiter because those are the
// routes an attacker brute-forces.  Protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, v *handler.VerificationHandler, acc *handler.AccountHandler, limiter echo.MiddlewareFunc, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register, limiter)
	g.POST("/login", a.Login, limiter)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)
	g.POST("/verify-email", v.VerifyEmail, limiter)
	g.POST("/resend-code", v.ResendCode, limiter)
	g.POST("/reset/request", v.RequestPasswordReset, limiter)
	g.POST("/reset/confirm", v.ResetPassword, limiter)

	// Routes that require a valid access token.  Both roles are accepted;
	// the admin group below narrows further.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleUser, model.RoleAdmin))
	auth.GET("/me", acc.Me)
	auth.POST("/change-password", acc.ChangePassword)
}

// RegisterAdmin wires the admin-only endpoints behind the role guard.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(model.RoleAdmin))
	g.GET("/users", h.ListUsers)
	g.POST("/users/verify", h.VerifyUser)
	g.DELETE("/users/:id", h.DeleteUser)
}
