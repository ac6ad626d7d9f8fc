package router

import (
	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/handler"
)

// RegisterScan registers the gate scan endpoint.  Readers authenticate
// with the scan payload rather than a JWT, so the route is public but
// sits behind the token bucket limiter to keep a stuck reader from
// hammering the ledger.
func RegisterScan(e *echo.Echo, s *handler.ScanHandler, limiter echo.MiddlewareFunc) {
	e.POST("/v1/scan", s.Scan, limiter)
}
