// Package handler exposes HTTP handlers for both authenticated and
// public endpoints.  This file defines the public browsing API: the
// catalogue search and the announcement board, available without
// authentication.
package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

// PublicHandler serves the unauthenticated catalogue endpoints.  These
// sit behind the response cache since the data changes slowly compared
// to how often it is read.
type PublicHandler struct {
	Books         *repository.BookRepo
	Announcements *repository.AnnouncementRepo
}

func NewPublicHandler(books *repository.BookRepo, announcements *repository.AnnouncementRepo) *PublicHandler {
	return &PublicHandler{Books: books, Announcements: announcements}
}

// SearchBooks matches the q parameter against title, author, ISBN and
// category.  An empty query returns the whole catalogue.
func (h *PublicHandler) SearchBooks(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Books.Search(ctx, strings.TrimSpace(c.QueryParam("q")))
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}

// GetBook returns one catalogue entry.
func (h *PublicHandler) GetBook(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Books.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrBookNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
		}
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, b)
}

// ActiveAnnouncements returns notices that are active and not expired.
func (h *PublicHandler) ActiveAnnouncements(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Announcements.ListActive(ctx, time.Now().UTC())
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}
