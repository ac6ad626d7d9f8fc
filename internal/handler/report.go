package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/service"
)

// ReportHandler aggregates ledger data into summaries: an operational
// report for librarians and a personal one for students.
type ReportHandler struct {
	Borrows  *repository.BorrowRepo
	Entries  *repository.EntryRepo
	Presence *service.PresenceService
}

func NewReportHandler(b *repository.BorrowRepo, e *repository.EntryRepo, p *service.PresenceService) *ReportHandler {
	return &ReportHandler{Borrows: b, Entries: e, Presence: p}
}

type librarySummary struct {
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	BorrowCount   int64     `json:"borrow_count"`
	FinesAccrued  float64   `json:"fines_accrued"`
	VisitCount    int       `json:"visit_count"`
	Occupancy     int64     `json:"occupancy"`
	OverdueCount  int       `json:"overdue_count"`
	UnpaidRecords int       `json:"unpaid_fine_records"`
}

// Summary builds the librarian report for a window.  Without query
// parameters it covers the last 30 days.
func (h *ReportHandler) Summary(c echo.Context) error {
	to := time.Now().UTC()
	from := to.AddDate(0, 0, -30)
	if s := c.QueryParam("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return badRequest(c, "from must be RFC3339")
		}
		from = t
	}
	if s := c.QueryParam("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return badRequest(c, "to must be RFC3339")
		}
		to = t
	}
	if !to.After(from) {
		return badRequest(c, "to must be after from")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	borrows, err := h.Borrows.CountBetween(ctx, from, to)
	if err != nil {
		return internalError(c, "query failed")
	}
	fines, err := h.Borrows.SumFinesBetween(ctx, from, to)
	if err != nil {
		return internalError(c, "query failed")
	}
	visits, err := h.Entries.ListBetween(ctx, from, to)
	if err != nil {
		return internalError(c, "query failed")
	}
	occupancy, err := h.Presence.Occupancy(ctx)
	if err != nil {
		return internalError(c, "query failed")
	}
	overdue, err := h.Borrows.ListOverdue(ctx, time.Now().UTC())
	if err != nil {
		return internalError(c, "query failed")
	}
	unpaid, err := h.Borrows.ListWithFines(ctx)
	if err != nil {
		return internalError(c, "query failed")
	}

	return c.JSON(http.StatusOK, librarySummary{
		From:          from,
		To:            to,
		BorrowCount:   borrows,
		FinesAccrued:  fines,
		VisitCount:    len(visits),
		Occupancy:     occupancy,
		OverdueCount:  len(overdue),
		UnpaidRecords: len(unpaid),
	})
}

type studentSummary struct {
	ActiveLoans int     `json:"active_loans"`
	TotalLoans  int     `json:"total_loans"`
	UnpaidFines float64 `json:"unpaid_fines"`
	Visits      int     `json:"visits"`
}

// MySummary builds the personal dashboard for the calling student.
func (h *ReportHandler) MySummary(c echo.Context) error {
	uid := authUserID(c)
	if uid == 0 {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	all, err := h.Borrows.ListByStudent(ctx, uid)
	if err != nil {
		return internalError(c, "query failed")
	}
	visits, err := h.Entries.ListByStudent(ctx, uid)
	if err != nil {
		return internalError(c, "query failed")
	}

	sum := studentSummary{TotalLoans: len(all), Visits: len(visits)}
	for _, rec := range all {
		if rec.ReturnDate == nil && rec.Status != model.BorrowStatusLost {
			sum.ActiveLoans++
		}
		sum.UnpaidFines += rec.FineAmount
	}
	return c.JSON(http.StatusOK, sum)
}
