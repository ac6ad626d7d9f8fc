package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
)

// ErrLibrarianNotFound is returned when a librarian lookup matches no row.
var ErrLibrarianNotFound = errors.New("librarian not found")

// LibrarianRepo provides CRUD operations over the librarians table.
type LibrarianRepo struct{ db *sql.DB }

// NewLibrarianRepo returns a new LibrarianRepo bound to the given database.
func NewLibrarianRepo(db *sql.DB) *LibrarianRepo { return &LibrarianRepo{db: db} }

const librarianColumns = `id, staff_id, username, password_hash, first_name, last_name,
	email, role, active, last_login, created_at, updated_at`

// Create inserts a librarian. Duplicate usernames or emails surface as
// ErrConflict.
func (r *LibrarianRepo) Create(ctx context.Context, l *model.Librarian) error {
	if l.Role != model.RoleAdmin {
		l.Role = model.RoleLibrarian
	}
	now := time.Now().UTC()
	l.CreatedAt = now
	l.UpdatedAt = now
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO librarians (staff_id, username, password_hash, first_name, last_name,
			email, role, active, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?)`,
		l.StaffID, strings.ToLower(strings.TrimSpace(l.Username)), l.PasswordHash,
		l.FirstName, l.LastName, strings.ToLower(strings.TrimSpace(l.Email)),
		l.Role, l.Active, l.CreatedAt, l.UpdatedAt)
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
	l.ID = uint64(id)
	return nil
}

// GetByID fetches a librarian by primary key.
func (r *LibrarianRepo) GetByID(ctx context.Context, id uint64) (*model.Librarian, error) {
	return r.getOne(ctx, "SELECT "+librarianColumns+" FROM librarians WHERE id = ?", id)
}

// GetByUsername fetches a librarian by normalized username.
func (r *LibrarianRepo) GetByUsername(ctx context.Context, username string) (*model.Librarian, error) {
	return r.getOne(ctx, "SELECT "+librarianColumns+" FROM librarians WHERE username = ?",
		strings.ToLower(strings.TrimSpace(username)))
}

func (r *LibrarianRepo) getOne(ctx context.Context, query string, args ...any) (*model.Librarian, error) {
	var (
		l         model.Librarian
		lastLogin sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&l.ID, &l.StaffID, &l.Username, &l.PasswordHash, &l.FirstName, &l.LastName,
		&l.Email, &l.Role, &l.Active, &lastLogin, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrLibrarianNotFound
	}
	if err != nil {
		return nil, err
	}
	l.LastLogin = timePtr(lastLogin)
	return &l, nil
}

// TouchLastLogin records a successful login.
func (r *LibrarianRepo) TouchLastLogin(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE librarians SET last_login=?, updated_at=? WHERE id=?",
		time.Now().UTC(), time.Now().UTC(), id)
	return err
}
