package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
)

// ErrEventNotFound is returned when a CCTV event lookup matches no row.
var ErrEventNotFound = errors.New("cctv event not found")

// CCTVRepo stores camera event metadata.  Events are create/update/
// delete records with review flags; there is no lifecycle beyond that.
type CCTVRepo struct{ db *sql.DB }

// NewCCTVRepo returns a new CCTVRepo bound to the given database.
func NewCCTVRepo(db *sql.DB) *CCTVRepo { return &CCTVRepo{db: db} }

const cctvColumns = `id, event_time, event_type, camera_id, location, capture_ref,
	library_entry_id, student_id, recognition_confidence, needs_review, reviewed_by,
	review_time, review_notes, description, created_at, updated_at`

// Create inserts an event row and populates the generated ID.
func (r *CCTVRepo) Create(ctx context.Context, ev *model.CCTVEvent) error {
	now := time.Now().UTC()
	ev.CreatedAt = now
	ev.UpdatedAt = now
	if ev.EventTime.IsZero() {
		ev.EventTime = now
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO cctv_events (event_time, event_type, camera_id, location, capture_ref,
			library_entry_id, student_id, recognition_confidence, needs_review, reviewed_by,
			review_time, review_notes, description, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		ev.EventTime, ev.EventType, ev.CameraID, ev.Location, ev.CaptureRef,
		ev.LibraryEntryID, ev.StudentID, ev.RecognitionConfidence, ev.NeedsReview,
		ev.ReviewedBy, ev.ReviewTime, ev.ReviewNotes, ev.Description,
		ev.CreatedAt, ev.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	return nil
}

// GetByID fetches an event or ErrEventNotFound.
func (r *CCTVRepo) GetByID(ctx context.Context, id uint64) (*model.CCTVEvent, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+cctvColumns+" FROM cctv_events WHERE id = ?", id)
	ev, err := scanCCTV(row)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}
	return ev, err
}

// Delete removes an event row.
func (r *CCTVRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM cctv_events WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrEventNotFound
	}
	return err
}

// Search filters events by camera, type and time range. Zero-valued
// filters are skipped.
func (r *CCTVRepo) Search(ctx context.Context, cameraID, eventType string, start, end *time.Time) ([]*model.CCTVEvent, error) {
	query := "SELECT " + cctvColumns + " FROM cctv_events WHERE 1=1"
	args := []any{}
	if cameraID != "" {
		query += " AND camera_id = ?"
		args = append(args, cameraID)
	}
	if eventType != "" {
		query += " AND event_type = ?"
		args = append(args, eventType)
	}
	if start != nil {
		query += " AND event_time >= ?"
		args = append(args, *start)
	}
	if end != nil {
		query += " AND event_time < ?"
		args = append(args, *end)
	}
	query += " ORDER BY event_time DESC"
	return r.list(ctx, query, args...)
}

// ListNeedingReview returns events flagged for review, oldest first.
func (r *CCTVRepo) ListNeedingReview(ctx context.Context) ([]*model.CCTVEvent, error) {
	return r.list(ctx,
		"SELECT "+cctvColumns+" FROM cctv_events WHERE needs_review = ? ORDER BY event_time", true)
}

// FlagForReview marks an event as needing librarian attention.
func (r *CCTVRepo) FlagForReview(ctx context.Context, id uint64, notes *string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE cctv_events SET needs_review=?, review_notes=?, updated_at=? WHERE id=?",
		true, notes, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrEventNotFound
	}
	return err
}

// MarkReviewed clears the review flag and records who reviewed when.
func (r *CCTVRepo) MarkReviewed(ctx context.Context, id, reviewerID uint64, notes *string) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE cctv_events SET needs_review=?, reviewed_by=?, review_time=?,
			review_notes=?, updated_at=? WHERE id=?`,
		false, reviewerID, now, notes, now, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrEventNotFound
	}
	return err
}

func (r *CCTVRepo) list(ctx context.Context, query string, args ...any) ([]*model.CCTVEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.CCTVEvent
	for rows.Next() {
		ev, err := scanCCTV(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func scanCCTV(rs rowScanner) (*model.CCTVEvent, error) {
	var (
		ev         model.CCTVEvent
		location   sql.NullString
		captureRef sql.NullString
		entryID    sql.NullInt64
		studentID  sql.NullInt64
		confidence sql.NullInt64
		reviewedBy sql.NullInt64
		reviewTime sql.NullTime
		reviewNote sql.NullString
		descr      sql.NullString
	)
	err := rs.Scan(&ev.ID, &ev.EventTime, &ev.EventType, &ev.CameraID, &location,
		&captureRef, &entryID, &studentID, &confidence, &ev.NeedsReview, &reviewedBy,
		&reviewTime, &reviewNote, &descr, &ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	ev.Location = strPtr(location)
	ev.CaptureRef = strPtr(captureRef)
	ev.LibraryEntryID = uintPtr(entryID)
	ev.StudentID = uintPtr(studentID)
	if confidence.Valid {
		c := int(confidence.Int64)
		ev.RecognitionConfidence = &c
	}
	ev.ReviewedBy = uintPtr(reviewedBy)
	ev.ReviewTime = timePtr(reviewTime)
	ev.ReviewNotes = strPtr(reviewNote)
	ev.Description = strPtr(descr)
	return &ev, nil
}
