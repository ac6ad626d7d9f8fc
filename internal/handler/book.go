package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

// BookHandler exposes catalogue management for librarians.  Public
// search lives in public_browse.go.
type BookHandler struct {
	Books   *repository.BookRepo
	Borrows *repository.BorrowRepo
}

func NewBookHandler(books *repository.BookRepo, borrows *repository.BorrowRepo) *BookHandler {
	return &BookHandler{Books: books, Borrows: borrows}
}

type bookReq struct {
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	ISBN            string  `json:"isbn"`
	Publisher       *string `json:"publisher"`
	PublicationYear *int    `json:"publication_year"`
	Category        *string `json:"category"`
	LocationCode    *string `json:"location_code"`
	RFIDTag         *string `json:"rfid_tag"`
	Description     *string `json:"description"`
	TotalCopies     int     `json:"total_copies"`
	Notes           *string `json:"notes"`
}

// Create adds a new title to the catalogue.  All copies start available.
func (h *BookHandler) Create(c echo.Context) error {
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	req.ISBN = strings.TrimSpace(req.ISBN)
	if req.Title == "" || req.Author == "" || req.ISBN == "" {
		return badRequest(c, "title/author/isbn required")
	}
	if req.TotalCopies < 1 {
		req.TotalCopies = 1
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	b := &model.Book{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Publisher:       req.Publisher,
		PublicationYear: req.PublicationYear,
		Category:        req.Category,
		LocationCode:    req.LocationCode,
		RFIDTag:         req.RFIDTag,
		Description:     req.Description,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
		Notes:           req.Notes,
	}
	if err := h.Books.Create(ctx, b); err != nil {
		if repository.IsDuplicateKey(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "isbn already exists"})
		}
		return internalError(c, "create book failed")
	}
	return c.JSON(http.StatusCreated, b)
}

// Update overwrites the descriptive fields and copy count of a book.
// Shrinking total copies never drives available copies negative; the
// repository clamps the value.
func (h *BookHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req bookReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
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

	if t := strings.TrimSpace(req.Title); t != "" {
		b.Title = t
	}
	if a := strings.TrimSpace(req.Author); a != "" {
		b.Author = a
	}
	if i := strings.TrimSpace(req.ISBN); i != "" {
		b.ISBN = i
	}
	if req.Publisher != nil {
		b.Publisher = req.Publisher
	}
	if req.PublicationYear != nil {
		b.PublicationYear = req.PublicationYear
	}
	if req.Category != nil {
		b.Category = req.Category
	}
	if req.LocationCode != nil {
		b.LocationCode = req.LocationCode
	}
	if req.RFIDTag != nil {
		b.RFIDTag = req.RFIDTag
	}
	if req.Description != nil {
		b.Description = req.Description
	}
	if req.Notes != nil {
		b.Notes = req.Notes
	}
	if req.TotalCopies > 0 && req.TotalCopies != b.TotalCopies {
		delta := req.TotalCopies - b.TotalCopies
		b.TotalCopies = req.TotalCopies
		b.AvailableCopies += delta
		if b.AvailableCopies < 0 {
			b.AvailableCopies = 0
		}
	}

	if err := h.Books.Update(ctx, b); err != nil {
		if repository.IsDuplicateKey(err) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "isbn already exists"})
		}
		return internalError(c, "update book failed")
	}
	return c.JSON(http.StatusOK, b)
}

// Delete removes a book that has no copies out on loan.
func (h *BookHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if rec, err := h.Borrows.ActiveForBook(ctx, id); err == nil && rec != nil {
		return c.JSON(http.StatusConflict, echo.Map{"error": "book has active loans"})
	}
	if err := h.Books.Delete(ctx, id); err != nil {
		if err == repository.ErrBookNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
		}
		return internalError(c, "delete book failed")
	}
	return c.NoContent(http.StatusNoContent)
}
