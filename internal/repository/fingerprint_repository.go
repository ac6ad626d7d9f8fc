package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
)

// ErrFingerprintNotFound is returned when a fingerprint lookup matches no row.
var ErrFingerprintNotFound = errors.New("fingerprint record not found")

// FingerprintRepo stores fingerprint template hashes and their
// retention metadata. Expired rows are hard-deleted by PurgeExpired.
type FingerprintRepo struct{ db *sql.DB }

// NewFingerprintRepo returns a new FingerprintRepo bound to the given database.
func NewFingerprintRepo(db *sql.DB) *FingerprintRepo { return &FingerprintRepo{db: db} }

const fingerprintColumns = `id, student_id, template_hash, finger_position, quality_score,
	verified, last_verified_at, consent_date, retention_end_date, enrolled_by,
	created_at, updated_at`

// Create inserts an enrollment row and populates the generated ID.
func (r *FingerprintRepo) Create(ctx context.Context, f *model.FingerprintRecord) error {
	now := time.Now().UTC()
	f.CreatedAt = now
	f.UpdatedAt = now
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO fingerprint_records (student_id, template_hash, finger_position,
			quality_score, verified, last_verified_at, consent_date, retention_end_date,
			enrolled_by, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		f.StudentID, f.TemplateHash, f.FingerPosition, f.QualityScore, f.Verified,
		f.LastVerifiedAt, f.ConsentDate, f.RetentionEndDate, f.EnrolledBy,
		f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// GetByID fetches a record or ErrFingerprintNotFound.
func (r *FingerprintRepo) GetByID(ctx context.Context, id uint64) (*model.FingerprintRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+fingerprintColumns+" FROM fingerprint_records WHERE id = ?", id)
	f, err := scanFingerprint(row)
	if err == sql.ErrNoRows {
		return nil, ErrFingerprintNotFound
	}
	return f, err
}

// GetByTemplateHash looks up an enrollment by the hash computed from a
// presented template. Used by the verification flow.
func (r *FingerprintRepo) GetByTemplateHash(ctx context.Context, hash string) (*model.FingerprintRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+fingerprintColumns+" FROM fingerprint_records WHERE template_hash = ?", hash)
	f, err := scanFingerprint(row)
	if err == sql.ErrNoRows {
		return nil, ErrFingerprintNotFound
	}
	return f, err
}

// ListByStudent returns every enrollment for a student.
func (r *FingerprintRepo) ListByStudent(ctx context.Context, studentID uint64) ([]*model.FingerprintRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+fingerprintColumns+" FROM fingerprint_records WHERE student_id = ? ORDER BY created_at",
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*model.FingerprintRecord
	for rows.Next() {
		f, err := scanFingerprint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// TouchVerified marks a successful verification.
func (r *FingerprintRepo) TouchVerified(ctx context.Context, id uint64) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"UPDATE fingerprint_records SET verified=?, last_verified_at=?, updated_at=? WHERE id=?",
		true, now, now, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrFingerprintNotFound
	}
	return err
}

// PurgeExpired hard-deletes records whose retention window has ended
// and returns how many were removed.
func (r *FingerprintRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM fingerprint_records WHERE retention_end_date < ?", now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanFingerprint(rs rowScanner) (*model.FingerprintRecord, error) {
	var (
		f            model.FingerprintRecord
		quality      sql.NullInt64
		lastVerified sql.NullTime
		enrolledBy   sql.NullInt64
	)
	err := rs.Scan(&f.ID, &f.StudentID, &f.TemplateHash, &f.FingerPosition, &quality,
		&f.Verified, &lastVerified, &f.ConsentDate, &f.RetentionEndDate, &enrolledBy,
		&f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if quality.Valid {
		q := int(quality.Int64)
		f.QualityScore = &q
	}
	f.LastVerifiedAt = timePtr(lastVerified)
	f.EnrolledBy = uintPtr(enrolledBy)
	return &f, nil
}
