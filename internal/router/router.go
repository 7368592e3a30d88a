package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/takaruma7/MIW-sub002/internal/config"
	"github.com/takaruma7/MIW-sub002/internal/handler"
	"github.com/takaruma7/MIW-sub002/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers session endpoints under /v1/auth plus the
// protected /v1/me. User provisioning is admin-only and lives in
// RegisterAdmin.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("ADMIN", "STAFF"))
	auth.GET("/me", a.Me)
	// Authenticated logout with an empty body revokes every session of
	// the caller; /v1/auth/logout only handles the refresh-token mode.
	auth.POST("/logout", a.Logout)
}

// RegisterPublic registers the unauthenticated surface: package browse
// (Redis-cached), registration, document upload and cancellation
// submission. Write endpoints sit behind the token bucket so a stuck
// form resubmitter cannot hammer MySQL.
func RegisterPublic(e *echo.Echo, rdb *redis.Client,
	p *handler.PublicHandler, reg *handler.RegistrationHandler,
	doc *handler.DocumentHandler, can *handler.CancellationHandler) {

	cacheCfg := config.LoadCacheConfig()
	limitCfg := config.LoadRateLimitConfig()

	browse := e.Group("/v1")
	browse.Use(middleware.NewRedisCache(cacheCfg, rdb))
	browse.GET("/packages", p.ListPackages)
	browse.GET("/packages/:id", p.GetPackage)

	submit := e.Group("/v1")
	submit.Use(middleware.NewTokenBucket(limitCfg, rdb))
	submit.POST("/register", reg.Register)
	submit.POST("/documents", doc.Upload)
	submit.POST("/cancellations", can.Submit)
}

// RegisterAdmin registers the back-office surface under /v1/admin. All
// routes require a valid token; mutations that resolve money or delete
// data additionally require the ADMIN role.
func RegisterAdmin(e *echo.Echo, jwtSecret string,
	a *handler.AuthHandler, exp *handler.ExportHandler,
	man *handler.ManifestHandler, doc *handler.DocumentHandler,
	pkg *handler.PackageAdminHandler, can *handler.CancellationHandler,
	inv *handler.InvoiceHandler) {

	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole("ADMIN", "STAFF"))

	admin.POST("/export", exp.Export)
	admin.POST("/manifest", man.UpdateRoom)
	admin.GET("/packages/:id/kelengkapan", doc.Completeness)

	admin.GET("/packages", pkg.List)
	admin.GET("/packages/:id", pkg.Get)
	admin.GET("/cancellations", can.List)
	admin.GET("/invoices", inv.List)

	// Destructive or account-level operations are ADMIN only.
	strict := e.Group("/v1/admin")
	strict.Use(middleware.JWTAuth(jwtSecret))
	strict.Use(middleware.RequireRole("ADMIN"))

	strict.POST("/users", a.CreateUser)
	strict.POST("/packages", pkg.Create)
	strict.PUT("/packages/:id", pkg.Update)
	strict.DELETE("/packages/:id", pkg.Delete)
	strict.POST("/cancellations/:id/verify", can.Verify)
	strict.DELETE("/cancellations/:id", can.Reject)
	strict.POST("/invoices/:id/verify", inv.Verify)
	strict.POST("/invoices/:id/reject", inv.Reject)
}
