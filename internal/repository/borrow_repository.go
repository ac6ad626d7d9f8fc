package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
)

// ErrRecordNotFound is returned when a borrow record lookup matches no row.
var ErrRecordNotFound = errors.New("borrow record not found")

// BorrowRepo provides access to the borrow ledger.  Rows are inserted
// and updated but never deleted; the ledger is the source of truth for
// loan history and fines.  Mutating methods that participate in the
// borrow/return transaction take a *sql.Tx.
type BorrowRepo struct{ db *sql.DB }

// NewBorrowRepo returns a new BorrowRepo bound to the given database.
func NewBorrowRepo(db *sql.DB) *BorrowRepo { return &BorrowRepo{db: db} }

// DB exposes the underlying handle so the service layer can open
// transactions spanning books and borrow_records.
func (r *BorrowRepo) DB() *sql.DB { return r.db }

const borrowColumns = `id, book_id, student_id, borrow_date, due_date, return_date,
	status, fine_amount, notes, processed_by, return_processed_by, created_at, updated_at`

// CreateTx inserts a new ledger row within an existing transaction and
// populates the generated ID.
func (r *BorrowRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *model.BorrowRecord) error {
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	res, err := tx.ExecContext(ctx,
		`INSERT INTO borrow_records (book_id, student_id, borrow_date, due_date, return_date,
			status, fine_amount, notes, processed_by, return_processed_by, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		rec.BookID, rec.StudentID, rec.BorrowDate, rec.DueDate, rec.ReturnDate,
		rec.Status, rec.FineAmount, rec.Notes, rec.ProcessedBy, rec.ReturnProcessedBy,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// GetByID fetches a ledger row or ErrRecordNotFound.
func (r *BorrowRepo) GetByID(ctx context.Context, id uint64) (*model.BorrowRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+borrowColumns+" FROM borrow_records WHERE id = ?", id)
	rec, err := scanBorrow(row)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	return rec, err
}

// GetByIDTx is GetByID within an existing transaction.
func (r *BorrowRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.BorrowRecord, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+borrowColumns+" FROM borrow_records WHERE id = ?", id)
	rec, err := scanBorrow(row)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	return rec, err
}

// MarkReturnedTx closes a loan inside an existing transaction, writing
// the return date, final status and fine in one statement.
func (r *BorrowRepo) MarkReturnedTx(ctx context.Context, tx *sql.Tx, id uint64, returnedAt time.Time, status string, fine float64, returnProcessedBy *uint64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE borrow_records
		 SET return_date=?, status=?, fine_amount=?, return_processed_by=?, updated_at=?
		 WHERE id=? AND return_date IS NULL`,
		returnedAt, status, fine, returnProcessedBy, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrRecordNotFound
	}
	return err
}

// UpdateFine overwrites the fine amount and notes of a ledger row.
func (r *BorrowRepo) UpdateFine(ctx context.Context, id uint64, fine float64, notes *string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE borrow_records SET fine_amount=?, notes=?, updated_at=? WHERE id=?",
		fine, notes, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrRecordNotFound
	}
	return err
}

// ListActiveByStudent returns loans that have not been returned yet.
func (r *BorrowRepo) ListActiveByStudent(ctx context.Context, studentID uint64) ([]*model.BorrowRecord, error) {
	return r.list(ctx,
		"SELECT "+borrowColumns+" FROM borrow_records WHERE student_id=? AND return_date IS NULL ORDER BY due_date",
		studentID)
}

// ListByStudent returns the full loan history for a student, newest first.
func (r *BorrowRepo) ListByStudent(ctx context.Context, studentID uint64) ([]*model.BorrowRecord, error) {
	return r.list(ctx,
		"SELECT "+borrowColumns+" FROM borrow_records WHERE student_id=? ORDER BY borrow_date DESC",
		studentID)
}

// ListOverdue returns open loans whose due date has passed the given instant.
func (r *BorrowRepo) ListOverdue(ctx context.Context, now time.Time) ([]*model.BorrowRecord, error) {
	return r.list(ctx,
		"SELECT "+borrowColumns+" FROM borrow_records WHERE return_date IS NULL AND due_date < ? ORDER BY due_date",
		now)
}

// ListWithFines returns ledger rows carrying an unpaid fine.
func (r *BorrowRepo) ListWithFines(ctx context.Context) ([]*model.BorrowRecord, error) {
	return r.list(ctx,
		"SELECT "+borrowColumns+" FROM borrow_records WHERE fine_amount > 0 ORDER BY updated_at DESC")
}

// ActiveForBook returns the newest open loan for a book, if any.
// Titles with several copies can have several open loans; callers that
// only care whether any copy is out just check for ErrRecordNotFound.
func (r *BorrowRepo) ActiveForBook(ctx context.Context, bookID uint64) (*model.BorrowRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+borrowColumns+" FROM borrow_records WHERE book_id=? AND return_date IS NULL ORDER BY borrow_date DESC LIMIT 1",
		bookID)
	rec, err := scanBorrow(row)
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	return rec, err
}

// CountBetween returns the number of loans opened in [start, end).
func (r *BorrowRepo) CountBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM borrow_records WHERE borrow_date >= ? AND borrow_date < ?",
		start, end).Scan(&n)
	return n, err
}

// SumFinesBetween returns the total fines recorded in [start, end).
func (r *BorrowRepo) SumFinesBetween(ctx context.Context, start, end time.Time) (float64, error) {
	var total sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(fine_amount) FROM borrow_records WHERE updated_at >= ? AND updated_at < ?",
		start, end).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}

func (r *BorrowRepo) list(ctx context.Context, query string, args ...any) ([]*model.BorrowRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.BorrowRecord
	for rows.Next() {
		rec, err := scanBorrow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanBorrow(rs rowScanner) (*model.BorrowRecord, error) {
	var (
		rec        model.BorrowRecord
		returnDate sql.NullTime
		notes      sql.NullString
		procBy     sql.NullInt64
		retProcBy  sql.NullInt64
	)
	err := rs.Scan(&rec.ID, &rec.BookID, &rec.StudentID, &rec.BorrowDate, &rec.DueDate,
		&returnDate, &rec.Status, &rec.FineAmount, &notes, &procBy, &retProcBy,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.ReturnDate = timePtr(returnDate)
	rec.Notes = strPtr(notes)
	rec.ProcessedBy = uintPtr(procBy)
	rec.ReturnProcessedBy = uintPtr(retProcBy)
	return &rec, nil
}
