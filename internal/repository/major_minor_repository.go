package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
)

// ErrMajorMinorNotFound is returned when a major/minor lookup matches no row.
var ErrMajorMinorNotFound = errors.New("major/minor record not found")

// MajorMinorRepo stores which departments a student majors and
// optionally minors in.
type MajorMinorRepo struct{ db *sql.DB }

// NewMajorMinorRepo returns a new MajorMinorRepo bound to the given database.
func NewMajorMinorRepo(db *sql.DB) *MajorMinorRepo { return &MajorMinorRepo{db: db} }

const majorMinorColumns = `id, student_id, major_department_id, minor_department_id,
	created_at, updated_at`

// Create inserts a record and populates the generated ID.
func (r *MajorMinorRepo) Create(ctx context.Context, m *model.StudentMajorMinor) error {
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO student_major_minor (student_id, major_department_id,
			minor_department_id, created_at, updated_at)
		 VALUES (?,?,?,?,?)`,
		m.StudentID, m.MajorDepartmentID, m.MinorDepartmentID, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// Update rewrites the major and minor departments.
func (r *MajorMinorRepo) Update(ctx context.Context, m *model.StudentMajorMinor) error {
	m.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE student_major_minor SET student_id=?, major_department_id=?,
			minor_department_id=?, updated_at=? WHERE id=?`,
		m.StudentID, m.MajorDepartmentID, m.MinorDepartmentID, m.UpdatedAt, m.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrMajorMinorNotFound
	}
	return err
}

// Delete removes a record.
func (r *MajorMinorRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM student_major_minor WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrMajorMinorNotFound
	}
	return err
}

// GetByID fetches a record or ErrMajorMinorNotFound.
func (r *MajorMinorRepo) GetByID(ctx context.Context, id uint64) (*model.StudentMajorMinor, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+majorMinorColumns+" FROM student_major_minor WHERE id = ?", id)
	m, err := scanMajorMinor(row)
	if err == sql.ErrNoRows {
		return nil, ErrMajorMinorNotFound
	}
	return m, err
}

// GetByStudent fetches the record for one student, if any.
func (r *MajorMinorRepo) GetByStudent(ctx context.Context, studentID uint64) (*model.StudentMajorMinor, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+majorMinorColumns+" FROM student_major_minor WHERE student_id = ? LIMIT 1",
		studentID)
	m, err := scanMajorMinor(row)
	if err == sql.ErrNoRows {
		return nil, ErrMajorMinorNotFound
	}
	return m, err
}

// ListAll returns every record.
func (r *MajorMinorRepo) ListAll(ctx context.Context) ([]*model.StudentMajorMinor, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+majorMinorColumns+" FROM student_major_minor ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.StudentMajorMinor
	for rows.Next() {
		m, err := scanMajorMinor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMajorMinor(rs rowScanner) (*model.StudentMajorMinor, error) {
	var (
		m     model.StudentMajorMinor
		minor sql.NullInt64
	)
	err := rs.Scan(&m.ID, &m.StudentID, &m.MajorDepartmentID, &minor,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.MinorDepartmentID = uintPtr(minor)
	return &m, nil
}
