package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/queue"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/service"
)

// BorrowHandler exposes the borrow/return ledger.  All routes are
// librarian-only except the student self-service lists wired in the
// router.
type BorrowHandler struct {
	Svc      *service.BorrowService
	Books    *repository.BookRepo
	Students *repository.StudentRepo
	Borrows  *repository.BorrowRepo
}

func NewBorrowHandler(svc *service.BorrowService, books *repository.BookRepo, students *repository.StudentRepo, borrows *repository.BorrowRepo) *BorrowHandler {
	return &BorrowHandler{Svc: svc, Books: books, Students: students, Borrows: borrows}
}

type borrowReq struct {
	StudentID uint64     `json:"student_id"`
	BookID    uint64     `json:"book_id"`
	DueDate   *time.Time `json:"due_date"`
	LoanDays  int        `json:"loan_days"`
}

type fineReq struct {
	Amount float64 `json:"amount"`
	Reason string  `json:"reason"`
}

// Borrow opens a loan.  The due date wins over loan_days when both are
// present; with neither the default loan period applies.
func (h *BorrowHandler) Borrow(c echo.Context) error {
	var req borrowReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.StudentID == 0 || req.BookID == 0 {
		return badRequest(c, "student_id/book_id required")
	}

	loanDays := req.LoanDays
	if req.DueDate != nil {
		loanDays = service.ComputeLoanDays(req.DueDate)
	}

	librarianID := authUserID(c)
	var processedBy *uint64
	if librarianID != 0 {
		processedBy = &librarianID
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rec, err := h.Svc.Borrow(ctx, req.StudentID, req.BookID, loanDays, processedBy)
	if err != nil {
		switch err {
		case service.ErrNoCopiesAvailable:
			return c.JSON(http.StatusConflict, echo.Map{"error": "no copies available"})
		case repository.ErrBookNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "book not found"})
		case repository.ErrStudentNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		}
		return internalError(c, "borrow failed")
	}

	h.publishBorrowConfirmed(ctx, rec)

	return c.JSON(http.StatusCreated, rec)
}

// publishBorrowConfirmed emits the confirmation event after the loan is
// committed.  Broker trouble never fails the request.
func (h *BorrowHandler) publishBorrowConfirmed(ctx context.Context, rec *model.BorrowRecord) {
	ev := queue.BorrowConfirmedEvent{
		BorrowRecordID: rec.ID,
		StudentID:      rec.StudentID,
		BookID:         rec.BookID,
		BorrowDate:     rec.BorrowDate.UTC().Format(time.RFC3339),
		DueDate:        rec.DueDate.UTC().Format(time.RFC3339),
		FineAmount:     rec.FineAmount,
	}
	if st, err := h.Students.GetByID(ctx, rec.StudentID); err == nil {
		ev.StudentNumber = st.StudentID
	}
	if b, err := h.Books.GetByID(ctx, rec.BookID); err == nil {
		ev.BookTitle = b.Title
		ev.ISBN = b.ISBN
	}
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue.PublishBorrowConfirmed(pctx, ev)
	}()
}

// Return closes a loan and settles any late fine.  Returning an already
// returned record is a no-op that answers with the stored state.
func (h *BorrowHandler) Return(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}

	librarianID := authUserID(c)
	var processedBy *uint64
	if librarianID != 0 {
		processedBy = &librarianID
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rec, err := h.Svc.Return(ctx, id, processedBy)
	if err != nil {
		if err == repository.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "borrow record not found"})
		}
		return internalError(c, "return failed")
	}
	return c.JSON(http.StatusOK, rec)
}

// ApplyFine sets a manual fine on a record and appends the reason to
// its notes.
func (h *BorrowHandler) ApplyFine(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	var req fineReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return badRequest(c, "reason required")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rec, err := h.Svc.ApplyManualFine(ctx, id, req.Amount, strings.TrimSpace(req.Reason))
	if err != nil {
		switch err {
		case service.ErrNegativeFine:
			return badRequest(c, "fine amount must not be negative")
		case repository.ErrRecordNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "borrow record not found"})
		}
		return internalError(c, "apply fine failed")
	}
	return c.JSON(http.StatusOK, rec)
}

// MarkFinePaid clears the fine on a record.
func (h *BorrowHandler) MarkFinePaid(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rec, err := h.Svc.MarkFinePaid(ctx, id)
	if err != nil {
		if err == repository.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "borrow record not found"})
		}
		return internalError(c, "mark paid failed")
	}
	return c.JSON(http.StatusOK, rec)
}

// Get returns one borrow record.
func (h *BorrowHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	rec, err := h.Borrows.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrRecordNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "borrow record not found"})
		}
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, rec)
}

// ListOverdue returns loans past their due date that are still out.
func (h *BorrowHandler) ListOverdue(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Borrows.ListOverdue(ctx, time.Now().UTC())
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}

// ListWithFines returns records carrying an unpaid fine.
func (h *BorrowHandler) ListWithFines(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Borrows.ListWithFines(ctx)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}

// MyLoans returns the authenticated student's loan history.
func (h *BorrowHandler) MyLoans(c echo.Context) error {
	uid := authUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Borrows.ListByStudent(ctx, uid)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}

// MyActiveLoans returns the authenticated student's open loans.
func (h *BorrowHandler) MyActiveLoans(c echo.Context) error {
	uid := authUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Borrows.ListActiveByStudent(ctx, uid)
	if err != nil {
		return internalError(c, "query failed")
	}
	return c.JSON(http.StatusOK, out)
}
