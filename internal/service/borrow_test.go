package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

func TestBorrowCreatesLedgerRowAndTakesCopy(t *testing.T) {
	db := newTestDB(t)
	svc := newBorrowService(db)
	st := seedStudent(t, db)
	b := seedBook(t, db, 2)

	librarian := uint64(7)
	rec, err := svc.Borrow(context.Background(), st.ID, b.ID, 10, &librarian)
	require.NoError(t, err)

	assert.Equal(t, model.BorrowStatusBorrowed, rec.Status)
	assert.Equal(t, st.ID, rec.StudentID)
	assert.Equal(t, b.ID, rec.BookID)
	require.NotNil(t, rec.ProcessedBy)
	assert.Equal(t, librarian, *rec.ProcessedBy)
	assert.WithinDuration(t, rec.BorrowDate.AddDate(0, 0, 10), rec.DueDate, time.Second)

	got, err := repository.NewBookRepo(db).GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableCopies)
	assert.Equal(t, 1, got.TotalBorrows)
}

func TestBorrowLoanDaysFlooredToOne(t *testing.T) {
	db := newTestDB(t)
	svc := newBorrowService(db)
	st := seedStudent(t, db)
	b := seedBook(t, db, 1)

	rec, err := svc.Borrow(context.Background(), st.ID, b.ID, 0, nil)
	require.NoError(t, err)
	assert.WithinDuration(t, rec.BorrowDate.AddDate(0, 0, 1), rec.DueDate, time.Second)
}

func TestBorrowLastCopyThenConflict(t *testing.T) {
	db := newTestDB(t)
	svc := newBorrowService(db)
	b := seedBook(t, db, 1)
	first := seedStudent(t, db)
	second := seedStudent(t, db)

	_, err := svc.Borrow(context.Background(), first.ID, b.ID, 7, nil)
	require.NoError(t, err)

	_, err = svc.Borrow(context.Background(), second.ID, b.ID, 7, nil)
	assert.ErrorIs(t, err, ErrNoCopiesAvailable)

	// The failed borrow must not leave a ledger row behind.
	loans, err := repository.NewBorrowRepo(db).ListByStudent(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Empty(t, loans)
}

func TestBorrowUnknownStudentOrBook(t *testing.T) {
	db := newTestDB(t)
	svc := newBorrowService(db)
	st := seedStudent(t, db)
	b := seedBook(t, db, 1)

	_, err := svc.Borrow(context.Background(), 9999, b.ID, 7, nil)
	assert.ErrorIs(t, err, repository.ErrStudentNotFound)

	_, err = svc.Borrow(context.Background(), st.ID, 9999, 7, nil)
	assert.ErrorIs(t, err, repository.ErrBookNotFound)
}

func TestReturnOnTimeHasNoFine(t *testing.T) {
	db := newTestDB(t)
	svc := newBorrowService(db)
	st := seedStudent(t, db)
	b := seedBook(t, db, 1)

	rec, err := svc.Borrow(context.Background(), st.ID, b.ID, 14, nil)
	require.NoError(t, err)

	returned, err := svc.Return(context.Background(), rec.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.BorrowStatusReturned, returned.Status)
	assert.Zero(t, returned.FineAmount)
	require.NotNil(t, returned.ReturnDate)

	got, err := repository.NewBookRepo(db).GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableCopies)
}

func TestReturnLateChargesPerDay(t *testing.T) {
	db := newTestDB(t)
	svc := newBorrowService(db)
	st := seedStudent(t, db)
	b := seedBook(t, db, 1)

	now := time.Now().UTC()
	rec := insertLoan(t, db, b.ID, st.ID, now.AddDate(0, 0, -10), now.AddDate(0, 0, -3))

	returned, err := svc.Return(context.Background(), rec.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.BorrowStatusOverdue, returned.Status)
	assert.InDelta(t, 3*model.FinePerDay, returned.FineAmount, 0.001)
}

func TestReturnLateUnderOneDayChargesMinimum(t *testing.T) {
	db := newTestDB(t)
	svc := newBorrowService(db)
	st := seedStudent(t, db)
	b := seedBook(t, db, 1)

	now := time.Now().UTC()
	rec := insertLoan(t, db, b.ID, st.ID, now.Add(-36*time.Hour), now.Add(-2*time.Hour))

	returned, err := svc.Return(context.Background(), rec.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, model.BorrowStatusOverdue, returned.Status)
	assert.InDelta(t, model.FinePerDay, returned.FineAmount, 0.001)
}

func TestReturnIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newBorrowService(db)
	st := seedStudent(t, db)
	b := seedBook(t, db, 1)

	rec, err := svc.Borrow(context.Background(), st.ID, b.ID, 14, nil)
	require.NoError(t, err)

	first, err := svc.Return(context.Background(), rec.ID, nil)
	require.NoError(t, err)
	second, err := svc.Return(context.Background(), rec.ID, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	require.NotNil(t, second.ReturnDate)
	assert.True(t, first.ReturnDate.Equal(*second.ReturnDate))

	// The second return must not push availability past total copies.
	got, err := repository.NewBookRepo(db).GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableCopies)
}

func TestApplyManualFineOverwritesAndNotes(t *testing.T) {
	db := newTestDB(t)
	svc := newBorrowService(db)
	st := seedStudent(t, db)
	b := seedBook(t, db, 1)

	rec, err := svc.Borrow(context.Background(), st.ID, b.ID, 14, nil)
	require.NoError(t, err)

	fined, err := svc.ApplyManualFine(context.Background(), rec.ID, 12.50, "Water damage")
	require.NoError(t, err)
	assert.Equal(t, 12.50, fined.FineAmount)
	require.NotNil(t, fined.Notes)
	assert.Equal(t, "Water damage", *fined.Notes)

	// A second fine overwrites the amount and appends the reason.
	fined, err = svc.ApplyManualFine(context.Background(), rec.ID, 5, "Torn cover")
	require.NoError(t, err)
	assert.Equal(t, 5.0, fined.FineAmount)
	require.NotNil(t, fined.Notes)
	assert.Equal(t, "Water damage | Torn cover", *fined.Notes)
}

func TestApplyManualFineRejectsNegative(t *testing.T) {
	db := newTestDB(t)
	svc := newBorrowService(db)
	st := seedStudent(t, db)
	b := seedBook(t, db, 1)

	rec, err := svc.Borrow(context.Background(), st.ID, b.ID, 14, nil)
	require.NoError(t, err)

	_, err = svc.ApplyManualFine(context.Background(), rec.ID, -1, "nope")
	assert.ErrorIs(t, err, ErrNegativeFine)
}

func TestMarkFinePaidZeroesFine(t *testing.T) {
	db := newTestDB(t)
	svc := newBorrowService(db)
	st := seedStudent(t, db)
	b := seedBook(t, db, 1)

	now := time.Now().UTC()
	rec := insertLoan(t, db, b.ID, st.ID, now.AddDate(0, 0, -10), now.AddDate(0, 0, -4))
	returned, err := svc.Return(context.Background(), rec.ID, nil)
	require.NoError(t, err)
	require.Positive(t, returned.FineAmount)

	paid, err := svc.MarkFinePaid(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Zero(t, paid.FineAmount)
	require.NotNil(t, paid.Notes)
	assert.Contains(t, *paid.Notes, "Fine paid")

	// The loan status keeps its OVERDUE history.
	got, err := repository.NewBorrowRepo(db).GetByID(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BorrowStatusOverdue, got.Status)
}

func TestComputeLoanDays(t *testing.T) {
	assert.Equal(t, DefaultLoanDays, ComputeLoanDays(nil))

	in5 := time.Now().UTC().AddDate(0, 0, 5)
	assert.Equal(t, 5, ComputeLoanDays(&in5))

	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	assert.Equal(t, 1, ComputeLoanDays(&yesterday))
}
