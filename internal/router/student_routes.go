package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/handler"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/middleware"
)

// RegisterStudent registers the student self-service endpoints under
// /v1/my.  All routes require a valid JWT with the STUDENT role.
func RegisterStudent(e *echo.Echo, borrows *handler.BorrowHandler, entries *handler.EntryHandler, reports *handler.ReportHandler, jwtSecret string) {
	g := e.Group(
		"/v1/my",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("STUDENT"),
	)

	g.GET("/borrows", borrows.MyLoans)
	g.GET("/borrows/active", borrows.MyActiveLoans)
	g.GET("/entries", entries.MyEntries)
	g.GET("/summary", reports.MySummary)
}
