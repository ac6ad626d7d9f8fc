package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/handler"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Unauthenticated
// operations live under /v1/auth, while /v1/me requires a valid access
// token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.LoginLibrarian)
	g.POST("/student-login", a.LoginStudent)
	// Rotates the refresh token.
	g.POST("/refresh", a.Refresh)
	// Issues a new access token without rotating the refresh token.
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a refresh_token in the body; no JWT required.
	g.POST("/logout", a.Logout)

	// Creating librarian accounts is reserved to admins.
	e.POST("/v1/auth/register-librarian", a.RegisterLibrarian,
		middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN"))

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: the
// catalogue, the announcement board and the open/closed status.  The
// cache middleware, when enabled, fronts all of them.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, hours *handler.HoursHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1", cache)
	g.GET("/books", p.SearchBooks)
	g.GET("/books/:id", p.GetBook)
	g.GET("/announcements", p.ActiveAnnouncements)
	g.GET("/library/status", hours.Status)
}
