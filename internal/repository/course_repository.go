package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
)

// ErrCourseNotFound is returned when a course lookup matches no row.
var ErrCourseNotFound = errors.New("course not found")

// CourseRepo provides CRUD over the courses a department offers.
type CourseRepo struct{ db *sql.DB }

// NewCourseRepo returns a new CourseRepo bound to the given database.
func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{db: db} }

const courseColumns = `id, department_id, name, description, created_at, updated_at`

// Create inserts a course and populates the generated ID.
func (r *CourseRepo) Create(ctx context.Context, course *model.Course) error {
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO courses (department_id, name, description, created_at, updated_at) VALUES (?,?,?,?,?)",
		course.DepartmentID, course.Name, course.Description, course.CreatedAt, course.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	course.ID = uint64(id)
	return nil
}

// Update rewrites department, name and description.
func (r *CourseRepo) Update(ctx context.Context, course *model.Course) error {
	course.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"UPDATE courses SET department_id=?, name=?, description=?, updated_at=? WHERE id=?",
		course.DepartmentID, course.Name, course.Description, course.UpdatedAt, course.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrCourseNotFound
	}
	return err
}

// Delete removes a course.
func (r *CourseRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM courses WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrCourseNotFound
	}
	return err
}

// GetByID fetches a course or ErrCourseNotFound.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (*model.Course, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE id = ?", id)
	course, err := scanCourse(row)
	if err == sql.ErrNoRows {
		return nil, ErrCourseNotFound
	}
	return course, err
}

// ListAll returns every course ordered by name.
func (r *CourseRepo) ListAll(ctx context.Context) ([]*model.Course, error) {
	return r.list(ctx, "SELECT "+courseColumns+" FROM courses ORDER BY name")
}

// ListByDepartment returns the courses a department offers.
func (r *CourseRepo) ListByDepartment(ctx context.Context, departmentID uint64) ([]*model.Course, error) {
	return r.list(ctx,
		"SELECT "+courseColumns+" FROM courses WHERE department_id = ? ORDER BY name",
		departmentID)
}

func (r *CourseRepo) list(ctx context.Context, query string, args ...any) ([]*model.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, course)
	}
	return out, rows.Err()
}

func scanCourse(rs rowScanner) (*model.Course, error) {
	var (
		course model.Course
		desc   sql.NullString
	)
	err := rs.Scan(&course.ID, &course.DepartmentID, &course.Name, &desc,
		&course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		course.Description = &desc.String
	}
	return &course, nil
}
