package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
)

// ErrAnnouncementNotFound is returned when an announcement lookup matches no row.
var ErrAnnouncementNotFound = errors.New("announcement not found")

// AnnouncementRepo provides CRUD over librarian announcements.
type AnnouncementRepo struct{ db *sql.DB }

// NewAnnouncementRepo returns a new AnnouncementRepo bound to the given database.
func NewAnnouncementRepo(db *sql.DB) *AnnouncementRepo { return &AnnouncementRepo{db: db} }

const announcementColumns = `id, librarian_id, title, content, active, expires_at,
	created_at, updated_at`

// Create inserts an announcement and populates the generated ID.
func (r *AnnouncementRepo) Create(ctx context.Context, a *model.Announcement) error {
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO announcements (librarian_id, title, content, active, expires_at,
			created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?)`,
		a.LibrarianID, a.Title, a.Content, a.Active, a.ExpiresAt, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// Update rewrites title, content, active flag and expiry.
func (r *AnnouncementRepo) Update(ctx context.Context, a *model.Announcement) error {
	a.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"UPDATE announcements SET title=?, content=?, active=?, expires_at=?, updated_at=? WHERE id=?",
		a.Title, a.Content, a.Active, a.ExpiresAt, a.UpdatedAt, a.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrAnnouncementNotFound
	}
	return err
}

// Delete removes an announcement.
func (r *AnnouncementRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrAnnouncementNotFound
	}
	return err
}

// GetByID fetches an announcement or ErrAnnouncementNotFound.
func (r *AnnouncementRepo) GetByID(ctx context.Context, id uint64) (*model.Announcement, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+announcementColumns+" FROM announcements WHERE id = ?", id)
	a, err := scanAnnouncement(row)
	if err == sql.ErrNoRows {
		return nil, ErrAnnouncementNotFound
	}
	return a, err
}

// ListActive returns announcements students should see: active and not
// expired at the given instant.
func (r *AnnouncementRepo) ListActive(ctx context.Context, now time.Time) ([]*model.Announcement, error) {
	return r.list(ctx,
		`SELECT `+announcementColumns+` FROM announcements
		 WHERE active = ? AND (expires_at IS NULL OR expires_at > ?)
		 ORDER BY created_at DESC`, true, now)
}

// ListAll returns every announcement for the librarian view.
func (r *AnnouncementRepo) ListAll(ctx context.Context) ([]*model.Announcement, error) {
	return r.list(ctx,
		"SELECT "+announcementColumns+" FROM announcements ORDER BY created_at DESC")
}

func (r *AnnouncementRepo) list(ctx context.Context, query string, args ...any) ([]*model.Announcement, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAnnouncement(rs rowScanner) (*model.Announcement, error) {
	var (
		a         model.Announcement
		expiresAt sql.NullTime
	)
	err := rs.Scan(&a.ID, &a.LibrarianID, &a.Title, &a.Content, &a.Active, &expiresAt,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	a.ExpiresAt = timePtr(expiresAt)
	return &a, nil
}
