package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/service"
)

// EntryHandler exposes the presence ledger to librarians: who is
// inside, manual check-in and check-out, and visit statistics.
type EntryHandler struct {
	Presence *service.PresenceService
	Entries  *repository.EntryRepo
}

func NewEntryHandler(p *service.PresenceService, e *repository.EntryRepo) *EntryHandler {
	return &EntryHandler{Presence: p, Entries: e}
}

type manualEntryReq struct {
	StudentID  uint64  `json:"student_id"`
	CaptureRef *string `json:"capture_ref"`
	Notes      *string `json:"notes"`
}

// ManualEntry records a librarian-verified entry, used when a card or
// reader fails at the gate.
func (h *EntryHandler) ManualEntry(c echo.Context) error {
	var req manualEntryReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.StudentID == 0 {
		return badRequest(c, "student_id required")
	}

	librarianID := authUserID(c)
	var verifiedBy *uint64
	if librarianID != 0 {
		verifiedBy = &librarianID
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	entry, err := h.Presence.RecordEntry(ctx, req.StudentID, model.EntryMethodManual, req.CaptureRef, verifiedBy)
	if err != nil {
		switch err {
		case service.ErrLibraryClosed:
			return c.JSON(http.StatusForbidden, echo.Map{"error": "library is closed"})
		case service.ErrAlreadyInside:
			return c.JSON(http.StatusConflict, echo.Map{"error": "student already inside"})
		case repository.ErrStudentNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return internalError(c, "record entry failed")
	}
	return c.JSON(http.StatusCreated, entry)
}

// CloseEntry checks a specific entry out by ID.  Closing an already
// closed entry is a no-op.
func (h *EntryHandler) CloseEntry(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req struct {
		CaptureRef *string `json:"capture_ref"`
	}
	_ = c.Bind(&req)

	ctx, cancel := reqCtx(c)
	defer cancel()

	entry, err := h.Presence.CloseEntry(ctx, id, time.Now().UTC(), req.CaptureRef)
	if err != nil {
		if err == repository.ErrEntryNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "entry not found"})
		}
		return internalError(c, "close entry failed")
	}
	return c.JSON(http.StatusOK, entry)
}

// Occupancy reports how many students are currently inside.
func (h *EntryHandler) Occupancy(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	n, err := h.Presence.Occupancy(ctx)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"occupancy": n})
}

// ListOpen returns every entry without an exit, oldest first.
func (h *EntryHandler) ListOpen(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Entries.ListOpen(ctx)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}

// List returns visits, optionally restricted to a from/to window passed
// as RFC 3339 query parameters.
func (h *EntryHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	fromS, toS := c.QueryParam("from"), c.QueryParam("to")
	if fromS != "" && toS != "" {
		from, err1 := time.Parse(time.RFC3339, fromS)
		to, err2 := time.Parse(time.RFC3339, toS)
		if err1 != nil || err2 != nil {
			return badRequest(c, "from/to must be RFC3339 timestamps")
		}
		out, err := h.Entries.ListBetween(ctx, from, to)
		if err != nil {
			return internalError(c, "query failed")
		}
		return c.JSON(http.StatusOK, out)
	}

	out, err := h.Entries.ListAll(ctx)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}

// MyEntries returns the authenticated student's visit history.
func (h *EntryHandler) MyEntries(c echo.Context) error {
	uid := authUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Entries.ListByStudent(ctx, uid)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}
