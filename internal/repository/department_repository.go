package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
)

// ErrDepartmentNotFound is returned when a department lookup matches no row.
var ErrDepartmentNotFound = errors.New("department not found")

// DepartmentRepo provides CRUD over academic departments.
type DepartmentRepo struct{ db *sql.DB }

// NewDepartmentRepo returns a new DepartmentRepo bound to the given database.
func NewDepartmentRepo(db *sql.DB) *DepartmentRepo { return &DepartmentRepo{db: db} }

const departmentColumns = `id, name, description, created_at, updated_at`

// Create inserts a department and populates the generated ID.
func (r *DepartmentRepo) Create(ctx context.Context, d *model.Department) error {
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO departments (name, description, created_at, updated_at) VALUES (?,?,?,?)",
		d.Name, d.Description, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	d.ID = uint64(id)
	return nil
}

// Update rewrites name and description.
func (r *DepartmentRepo) Update(ctx context.Context, d *model.Department) error {
	d.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"UPDATE departments SET name=?, description=?, updated_at=? WHERE id=?",
		d.Name, d.Description, d.UpdatedAt, d.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrDepartmentNotFound
	}
	return err
}

// Delete removes a department together with its courses, in one
// transaction so the catalogue never holds orphaned courses.
func (r *DepartmentRepo) Delete(ctx context.Context, id uint64) error {
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

	if _, err := tx.ExecContext(ctx, "DELETE FROM courses WHERE department_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM departments WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrDepartmentNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches a department or ErrDepartmentNotFound.
func (r *DepartmentRepo) GetByID(ctx context.Context, id uint64) (*model.Department, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+departmentColumns+" FROM departments WHERE id = ?", id)
	d, err := scanDepartment(row)
	if err == sql.ErrNoRows {
		return nil, ErrDepartmentNotFound
	}
	return d, err
}

// ListAll returns every department ordered by name.
func (r *DepartmentRepo) ListAll(ctx context.Context) ([]*model.Department, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+departmentColumns+" FROM departments ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDepartment(rs rowScanner) (*model.Department, error) {
	var (
		d    model.Department
		desc sql.NullString
	)
	err := rs.Scan(&d.ID, &d.Name, &desc, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		d.Description = &desc.String
	}
	return &d, nil
}
