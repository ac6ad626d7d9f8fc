package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

// DefaultLoanDays is the loan period used when the caller does not
// request a due date.
const DefaultLoanDays = 14

// BorrowService owns the borrow/return ledger. It is the only writer
// of Book copy counters: every decrement happens inside the Borrow
// transaction and every increment inside the Return transaction.
type BorrowService struct {
	db       *sql.DB
	books    *repository.BookRepo
	students *repository.StudentRepo
	borrows  *repository.BorrowRepo
}

// NewBorrowService constructs a BorrowService. All dependencies must
// be non-nil.
func NewBorrowService(db *sql.DB, books *repository.BookRepo, students *repository.StudentRepo, borrows *repository.BorrowRepo) *BorrowService {
	if db == nil || books == nil || students == nil || borrows == nil {
		panic("nil dependency passed to NewBorrowService")
	}
	return &BorrowService{db: db, books: books, students: students, borrows: borrows}
}

// Borrow lends one copy of a book to a student for loanDays days
// (floored to 1). The availability check and decrement are a single
// conditional UPDATE, so concurrent borrows of the last copy cannot
// both succeed. On success a new BORROWED ledger row is returned.
func (s *BorrowService) Borrow(ctx context.Context, studentID, bookID uint64, loanDays int, processedBy *uint64) (*model.BorrowRecord, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	if err := s.books.DecrementAvailableTx(ctx, tx, bookID, now); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrNoCopiesAvailable
		}
		return nil, err
	}

	if loanDays < 1 {
		loanDays = 1
	}
	rec := &model.BorrowRecord{
		BookID:      bookID,
		StudentID:   studentID,
		BorrowDate:  now,
		DueDate:     now.AddDate(0, 0, loanDays),
		Status:      model.BorrowStatusBorrowed,
		FineAmount:  0,
		ProcessedBy: processedBy,
	}
	if err := s.borrows.CreateTx(ctx, tx, rec); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return rec, nil
}

// Return closes a loan. Calling it on an already-returned record is a
// no-op that returns the record unchanged. On a late return the fine
// is daysLate * FinePerDay with a minimum of one day; the availability
// increment is clamped at total_copies inside the repository.
func (s *BorrowService) Return(ctx context.Context, recordID uint64, returnProcessedBy *uint64) (*model.BorrowRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rec, err := s.borrows.GetByIDTx(ctx, tx, recordID)
	if err != nil {
		return nil, err
	}
	if rec.ReturnDate != nil {
		// Idempotent: the book already came back.
		return rec, nil
	}

	now := time.Now().UTC()
	status := model.BorrowStatusReturned
	fine := 0.0
	if now.After(rec.DueDate) {
		late := wholeDaysBetween(rec.DueDate, now)
		if late < 1 {
			late = 1
		}
		fine = float64(late) * model.FinePerDay
		status = model.BorrowStatusOverdue
	}

	if err := s.borrows.MarkReturnedTx(ctx, tx, rec.ID, now, status, fine, returnProcessedBy); err != nil {
		return nil, err
	}
	if err := s.books.IncrementAvailableTx(ctx, tx, rec.BookID, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	rec.ReturnDate = &now
	rec.Status = status
	rec.FineAmount = fine
	rec.ReturnProcessedBy = returnProcessedBy
	return rec, nil
}

// ApplyManualFine overwrites the fine of a ledger row. Amounts below
// zero are rejected. A non-blank reason is appended to the notes.
func (s *BorrowService) ApplyManualFine(ctx context.Context, recordID uint64, amount float64, reason string) (*model.BorrowRecord, error) {
	if amount < 0 {
		return nil, ErrNegativeFine
	}
	rec, err := s.borrows.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	notes := rec.Notes
	if reason != "" {
		notes = appendNote(notes, reason)
	}
	if err := s.borrows.UpdateFine(ctx, rec.ID, amount, notes); err != nil {
		return nil, err
	}
	rec.FineAmount = amount
	rec.Notes = notes
	return rec, nil
}

// MarkFinePaid zeroes the fine of a ledger row and notes the payment.
// The loan status is untouched.
func (s *BorrowService) MarkFinePaid(ctx context.Context, recordID uint64) (*model.BorrowRecord, error) {
	rec, err := s.borrows.GetByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	notes := appendNote(rec.Notes, "Fine paid")
	if err := s.borrows.UpdateFine(ctx, rec.ID, 0, notes); err != nil {
		return nil, err
	}
	rec.FineAmount = 0
	rec.Notes = notes
	return rec, nil
}

// ComputeLoanDays derives the loan period from a requested due date:
// the day span between today and the due date, DefaultLoanDays when no
// date is given, always at least 1.
func ComputeLoanDays(dueDate *time.Time) int {
	if dueDate == nil {
		return DefaultLoanDays
	}
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	days := int(due.Sub(today).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

// wholeDaysBetween returns the number of complete 24h periods between
// two instants, matching calendar day arithmetic over UTC timestamps.
func wholeDaysBetween(from, to time.Time) int64 {
	return int64(to.Sub(from).Hours() / 24)
}

func appendNote(existing *string, note string) *string {
	if existing == nil || *existing == "" {
		return &note
	}
	joined := *existing + " | " + note
	return &joined
}
