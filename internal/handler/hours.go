package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/service"
)

// HoursHandler manages the facility schedule.  Saving is librarian
// only; the open/closed status endpoint is public so gate displays can
// poll it.
type HoursHandler struct {
	Svc *service.HoursService
}

func NewHoursHandler(svc *service.HoursService) *HoursHandler {
	return &HoursHandler{Svc: svc}
}

type hoursReq struct {
	OpenTime    string `json:"open_time"`    // "HH:MM"
	CloseTime   string `json:"close_time"`   // "HH:MM"
	WorkingDays string `json:"working_days"` // "MON,TUE,..."
}

// Save replaces the active schedule.
func (h *HoursHandler) Save(c echo.Context) error {
	var req hoursReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	saved, err := h.Svc.Save(ctx, authUserID(c),
		strings.TrimSpace(req.OpenTime),
		strings.TrimSpace(req.CloseTime),
		strings.ToUpper(strings.TrimSpace(req.WorkingDays)))
	if err != nil {
		return badRequest(c, err.Error())
	}
	return c.JSON(http.StatusOK, saved)
}

// Current returns the active schedule row.
func (h *HoursHandler) Current(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	cur, err := h.Svc.Current(ctx)
	if err != nil {
		if err == repository.ErrHoursNotConfigured {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "library hours not configured"})
		}
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, cur)
}

// Status reports whether the library is open right now.
func (h *HoursHandler) Status(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	st, err := h.Svc.Status(ctx)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, st)
}
