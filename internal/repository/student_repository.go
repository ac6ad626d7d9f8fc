package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
)

// ErrStudentNotFound is returned when a student lookup matches no row.
var ErrStudentNotFound = errors.New("student not found")

// ErrInvalidStudentID is returned when a student number is not exactly
// eight digits.
var ErrInvalidStudentID = errors.New("student id must be exactly 8 digits")

var studentIDPattern = regexp.MustCompile(`^[0-9]{8}$`)

// StudentRepo provides CRUD operations over the students table.
// Students are looked up by database id, by their 8 digit university
// student number, or by RFID card UID at the gate.
type StudentRepo struct{ db *sql.DB }

// NewStudentRepo returns a new StudentRepo bound to the given database.
func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{db: db} }

const studentColumns = `id, student_id, password_hash, university_card_id, first_name,
	last_name, email, phone_number, department, major, minor_subject, year_level,
	rfid_uid, role, active, created_at, updated_at`

// Create inserts a student after validating the university student
// number format. Duplicate student numbers, emails, card ids or RFID
// UIDs surface as ErrConflict.
func (r *StudentRepo) Create(ctx context.Context, s *model.Student) error {
	s.StudentID = strings.TrimSpace(s.StudentID)
	if !studentIDPattern.MatchString(s.StudentID) {
		return ErrInvalidStudentID
	}
	if s.Role == "" {
		s.Role = model.RoleStudent
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO students (student_id, password_hash, university_card_id, first_name,
			last_name, email, phone_number, department, major, minor_subject, year_level,
			rfid_uid, role, active, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		s.StudentID, s.PasswordHash, s.UniversityCardID, s.FirstName,
		s.LastName, strings.ToLower(strings.TrimSpace(s.Email)), s.PhoneNumber,
		s.Department, s.Major, s.MinorSubject, s.YearLevel,
		s.RFIDUID, s.Role, s.Active, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if IsDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID fetches a student by primary key.
func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (*model.Student, error) {
	return r.getOne(ctx, "SELECT "+studentColumns+" FROM students WHERE id = ?", id)
}

// GetByStudentID fetches a student by university student number.
func (r *StudentRepo) GetByStudentID(ctx context.Context, studentID string) (*model.Student, error) {
	return r.getOne(ctx, "SELECT "+studentColumns+" FROM students WHERE student_id = ?",
		strings.TrimSpace(studentID))
}

// GetByRFIDUID fetches a student by the UID of their campus card.
func (r *StudentRepo) GetByRFIDUID(ctx context.Context, uid string) (*model.Student, error) {
	return r.getOne(ctx, "SELECT "+studentColumns+" FROM students WHERE rfid_uid = ?",
		strings.TrimSpace(uid))
}

func (r *StudentRepo) getOne(ctx context.Context, query string, args ...any) (*model.Student, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	s, err := scanStudent(row)
	if err == sql.ErrNoRows {
		return nil, ErrStudentNotFound
	}
	return s, err
}

// Update rewrites the mutable profile columns. Identity columns
// (student_id, university_card_id) stay as created unless explicitly
// set on the passed model.
func (r *StudentRepo) Update(ctx context.Context, s *model.Student) error {
	if !studentIDPattern.MatchString(s.StudentID) {
		return ErrInvalidStudentID
	}
	s.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET student_id=?, university_card_id=?, first_name=?, last_name=?,
			email=?, phone_number=?, department=?, major=?, minor_subject=?, year_level=?,
			rfid_uid=?, active=?, updated_at=?
		 WHERE id=?`,
		s.StudentID, s.UniversityCardID, s.FirstName, s.LastName,
		strings.ToLower(strings.TrimSpace(s.Email)), s.PhoneNumber, s.Department,
		s.Major, s.MinorSubject, s.YearLevel, s.RFIDUID, s.Active, s.UpdatedAt, s.ID)
	if err != nil {
		if IsDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrStudentNotFound
	}
	return err
}

// SetActive flips the active flag without touching the profile.
func (r *StudentRepo) SetActive(ctx context.Context, id uint64, active bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE students SET active=?, updated_at=? WHERE id=?",
		active, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrStudentNotFound
	}
	return err
}

// List returns all students ordered by student number.
func (r *StudentRepo) List(ctx context.Context) ([]*model.Student, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+studentColumns+" FROM students ORDER BY student_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Student
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanStudent(rs rowScanner) (*model.Student, error) {
	var (
		s       model.Student
		phone   sql.NullString
		major   sql.NullString
		minor   sql.NullString
		year    sql.NullInt64
		rfidUID sql.NullString
	)
	err := rs.Scan(&s.ID, &s.StudentID, &s.PasswordHash, &s.UniversityCardID,
		&s.FirstName, &s.LastName, &s.Email, &phone, &s.Department, &major,
		&minor, &year, &rfidUID, &s.Role, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.PhoneNumber = strPtr(phone)
	s.Major = strPtr(major)
	s.MinorSubject = strPtr(minor)
	if year.Valid {
		y := int(year.Int64)
		s.YearLevel = &y
	}
	s.RFIDUID = strPtr(rfidUID)
	return &s, nil
}
