package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
)

// ErrEntryNotFound is returned when a library entry lookup matches no row.
var ErrEntryNotFound = errors.New("library entry not found")

// EntryRepo provides access to the presence ledger (library_entries).
// A row with exit_time IS NULL is an open entry; the presence service
// keeps at most one open row per student.
type EntryRepo struct{ db *sql.DB }

// NewEntryRepo returns a new EntryRepo bound to the given database.
func NewEntryRepo(db *sql.DB) *EntryRepo { return &EntryRepo{db: db} }

// DB exposes the underlying handle so the presence service can open
// transactions around the open-entry check and insert.
func (r *EntryRepo) DB() *sql.DB { return r.db }

const entryColumns = `id, student_id, entry_time, exit_time, entry_method,
	entry_capture_ref, exit_capture_ref, verified_by, notes, created_at, updated_at`

// CreateTx inserts an entry row within an existing transaction and
// populates the generated ID.
func (r *EntryRepo) CreateTx(ctx context.Context, tx *sql.Tx, e *model.LibraryEntry) error {
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	res, err := tx.ExecContext(ctx,
		`INSERT INTO library_entries (student_id, entry_time, exit_time, entry_method,
			entry_capture_ref, exit_capture_ref, verified_by, notes, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		e.StudentID, e.EntryTime, e.ExitTime, e.EntryMethod,
		e.EntryCaptureRef, e.ExitCaptureRef, e.VerifiedBy, e.Notes, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	return nil
}

// GetByID fetches an entry or ErrEntryNotFound.
func (r *EntryRepo) GetByID(ctx context.Context, id uint64) (*model.LibraryEntry, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM library_entries WHERE id = ?", id)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	return e, err
}

// OpenEntryForStudentTx returns the most recently opened entry with no
// exit time for the student, locking nothing beyond the transaction's
// isolation. sql.ErrNoRows maps to ErrEntryNotFound.
func (r *EntryRepo) OpenEntryForStudentTx(ctx context.Context, tx *sql.Tx, studentID uint64) (*model.LibraryEntry, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+entryColumns+` FROM library_entries
		 WHERE student_id = ? AND exit_time IS NULL
		 ORDER BY entry_time DESC, id DESC LIMIT 1`, studentID)
	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	return e, err
}

// ListOpen returns every entry still missing an exit time.
func (r *EntryRepo) ListOpen(ctx context.Context) ([]*model.LibraryEntry, error) {
	return r.list(ctx,
		"SELECT "+entryColumns+" FROM library_entries WHERE exit_time IS NULL ORDER BY entry_time")
}

// CountOpen returns how many students are currently inside.
func (r *EntryRepo) CountOpen(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM library_entries WHERE exit_time IS NULL").Scan(&n)
	return n, err
}

// Close sets the exit time and capture reference of an open entry.
// Already-closed rows are left untouched (zero rows affected).
func (r *EntryRepo) Close(ctx context.Context, id uint64, exitTime time.Time, captureRef *string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE library_entries SET exit_time=?, exit_capture_ref=?, updated_at=?
		 WHERE id=? AND exit_time IS NULL`,
		exitTime, captureRef, time.Now().UTC(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// CloseTx is Close within an existing transaction, used by the exit
// flow so the open-entry lookup and the close are atomic.
func (r *EntryRepo) CloseTx(ctx context.Context, tx *sql.Tx, id uint64, exitTime time.Time, captureRef *string) (bool, error) {
	res, err := tx.ExecContext(ctx,
		`UPDATE library_entries SET exit_time=?, exit_capture_ref=?, updated_at=?
		 WHERE id=? AND exit_time IS NULL`,
		exitTime, captureRef, time.Now().UTC(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ListByStudent returns the visit history for a student, newest first.
func (r *EntryRepo) ListByStudent(ctx context.Context, studentID uint64) ([]*model.LibraryEntry, error) {
	return r.list(ctx,
		"SELECT "+entryColumns+" FROM library_entries WHERE student_id=? ORDER BY entry_time DESC",
		studentID)
}

// ListBetween returns entries whose entry time is in [start, end).
func (r *EntryRepo) ListBetween(ctx context.Context, start, end time.Time) ([]*model.LibraryEntry, error) {
	return r.list(ctx,
		"SELECT "+entryColumns+" FROM library_entries WHERE entry_time >= ? AND entry_time < ? ORDER BY entry_time",
		start, end)
}

// ListAll returns the full presence ledger, newest first.
func (r *EntryRepo) ListAll(ctx context.Context) ([]*model.LibraryEntry, error) {
	return r.list(ctx,
		"SELECT "+entryColumns+" FROM library_entries ORDER BY entry_time DESC")
}

func (r *EntryRepo) list(ctx context.Context, query string, args ...any) ([]*model.LibraryEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.LibraryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanEntry(rs rowScanner) (*model.LibraryEntry, error) {
	var (
		e          model.LibraryEntry
		exitTime   sql.NullTime
		entryRef   sql.NullString
		exitRef    sql.NullString
		verifiedBy sql.NullInt64
		notes      sql.NullString
	)
	err := rs.Scan(&e.ID, &e.StudentID, &e.EntryTime, &exitTime, &e.EntryMethod,
		&entryRef, &exitRef, &verifiedBy, &notes, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.ExitTime = timePtr(exitTime)
	e.EntryCaptureRef = strPtr(entryRef)
	e.ExitCaptureRef = strPtr(exitRef)
	e.VerifiedBy = uintPtr(verifiedBy)
	e.Notes = strPtr(notes)
	return &e, nil
}
