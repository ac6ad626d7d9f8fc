package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

// AnnouncementHandler manages notices.  Creation and editing are
// librarian only; the active list is public (and cached).
type AnnouncementHandler struct {
	Announcements *repository.AnnouncementRepo
}

func NewAnnouncementHandler(a *repository.AnnouncementRepo) *AnnouncementHandler {
	return &AnnouncementHandler{Announcements: a}
}

type announcementReq struct {
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Active    *bool      `json:"active"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Create publishes a new announcement under the calling librarian.
func (h *AnnouncementHandler) Create(c echo.Context) error {
	var req announcementReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || strings.TrimSpace(req.Content) == "" {
		return badRequest(c, "title/content required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a := &model.Announcement{
		LibrarianID: authUserID(c),
		Title:       req.Title,
		Content:     req.Content,
		Active:      true,
		ExpiresAt:   req.ExpiresAt,
	}
	if req.Active != nil {
		a.Active = *req.Active
	}
	if err := h.Announcements.Create(ctx, a); err != nil {
		return internalError(c, "create announcement failed")
	}
	return c.JSON(http.StatusCreated, a)
}

// Update edits title, content, active flag or expiry.
func (h *AnnouncementHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req announcementReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	a, err := h.Announcements.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrAnnouncementNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "announcement not found"})
		}
		return internalError(c, "query failed")
	}

	if t := strings.TrimSpace(req.Title); t != "" {
		a.Title = t
	}
	if strings.TrimSpace(req.Content) != "" {
		a.Content = req.Content
	}
	if req.Active != nil {
		a.Active = *req.Active
	}
	if req.ExpiresAt != nil {
		a.ExpiresAt = req.ExpiresAt
	}

	if err := h.Announcements.Update(ctx, a); err != nil {
		return internalError(c, "update announcement failed")
	}
	return c.JSON(http.StatusOK, a)
}

// Delete removes an announcement permanently.
func (h *AnnouncementHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Announcements.Delete(ctx, id); err != nil {
		if err == repository.ErrAnnouncementNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "announcement not found"})
		}
		return internalError(c, "delete announcement failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// ListAll returns every announcement including inactive and expired
// ones, for the management view.
func (h *AnnouncementHandler) ListAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Announcements.ListAll(ctx)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}
