package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
)

// ErrHoursNotConfigured is returned when no active schedule row exists.
var ErrHoursNotConfigured = errors.New("library hours not configured")

// HoursRepo manages the library_hours configuration table.  The table
// keeps history; only one row is active at a time and Replace swaps the
// active row atomically.
type HoursRepo struct{ db *sql.DB }

// NewHoursRepo returns a new HoursRepo bound to the given database.
func NewHoursRepo(db *sql.DB) *HoursRepo { return &HoursRepo{db: db} }

const hoursColumns = `id, librarian_id, open_time, close_time, working_days, active,
	created_at, updated_at`

// Active returns the single active schedule row.
func (r *HoursRepo) Active(ctx context.Context) (*model.LibraryHours, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+hoursColumns+` FROM library_hours
		 WHERE active = ? ORDER BY created_at DESC, id DESC LIMIT 1`, true)
	h, err := scanHours(row)
	if err == sql.ErrNoRows {
		return nil, ErrHoursNotConfigured
	}
	return h, err
}

// Replace deactivates every existing schedule row and inserts the new
// one as active, all in one transaction, so there is never a window
// with zero or two active rows.
func (r *HoursRepo) Replace(ctx context.Context, h *model.LibraryHours) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		"UPDATE library_hours SET active=?, updated_at=? WHERE active=?",
		false, now, true); err != nil {
		return err
	}

	h.WorkingDays = strings.ToUpper(strings.ReplaceAll(h.WorkingDays, " ", ""))
	h.Active = true
	h.CreatedAt = now
	h.UpdatedAt = now
	res, err := tx.ExecContext(ctx,
		`INSERT INTO library_hours (librarian_id, open_time, close_time, working_days,
			active, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?)`,
		h.LibrarianID, h.OpenTime, h.CloseTime, h.WorkingDays, h.Active,
		h.CreatedAt, h.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func scanHours(rs rowScanner) (*model.LibraryHours, error) {
	var h model.LibraryHours
	err := rs.Scan(&h.ID, &h.LibrarianID, &h.OpenTime, &h.CloseTime, &h.WorkingDays,
		&h.Active, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}
