package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
)

const repoTestSchema = `
CREATE TABLE fingerprint_records (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    student_id         INTEGER NOT NULL,
    template_hash      TEXT NOT NULL UNIQUE,
    finger_position    TEXT NOT NULL,
    quality_score      INTEGER,
    verified           BOOLEAN NOT NULL DEFAULT 0,
    last_verified_at   DATETIME,
    consent_date       DATETIME NOT NULL,
    retention_end_date DATETIME NOT NULL,
    enrolled_by        INTEGER,
    created_at         DATETIME NOT NULL,
    updated_at         DATETIME NOT NULL
);
CREATE TABLE refresh_tokens (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    subject_kind TEXT NOT NULL,
    user_id      INTEGER NOT NULL,
    token_hash   TEXT NOT NULL UNIQUE,
    expires_at   DATETIME NOT NULL,
    revoked_at   DATETIME
);
CREATE TABLE departments (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    name        TEXT NOT NULL UNIQUE,
    description TEXT,
    created_at  DATETIME NOT NULL,
    updated_at  DATETIME NOT NULL
);
CREATE TABLE courses (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    department_id INTEGER NOT NULL,
    name          TEXT NOT NULL,
    description   TEXT,
    created_at    DATETIME NOT NULL,
    updated_at    DATETIME NOT NULL
);
CREATE TABLE student_major_minor (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    student_id          INTEGER NOT NULL,
    major_department_id INTEGER NOT NULL,
    minor_department_id INTEGER,
    created_at          DATETIME NOT NULL,
    updated_at          DATETIME NOT NULL
);
`

func newRepoTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(repoTestSchema)
	require.NoError(t, err)
	return db
}

func enrollFingerprint(t *testing.T, repo *FingerprintRepo, hash string, retentionEnd time.Time) *model.FingerprintRecord {
	t.Helper()
	f := &model.FingerprintRecord{
		StudentID:        1,
		TemplateHash:     hash,
		FingerPosition:   "RIGHT_INDEX",
		ConsentDate:      time.Now().UTC(),
		RetentionEndDate: retentionEnd,
	}
	require.NoError(t, repo.Create(context.Background(), f))
	return f
}

func TestFingerprintPurgeExpired(t *testing.T) {
	repo := NewFingerprintRepo(newRepoTestDB(t))
	now := time.Now().UTC()

	expired := enrollFingerprint(t, repo, "hash-old", now.Add(-24*time.Hour))
	kept := enrollFingerprint(t, repo, "hash-new", now.Add(365*24*time.Hour))

	n, err := repo.PurgeExpired(context.Background(), now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repo.GetByID(context.Background(), expired.ID)
	assert.ErrorIs(t, err, ErrFingerprintNotFound)

	got, err := repo.GetByID(context.Background(), kept.ID)
	require.NoError(t, err)
	assert.Equal(t, "hash-new", got.TemplateHash)
}

func TestFingerprintTouchVerified(t *testing.T) {
	repo := NewFingerprintRepo(newRepoTestDB(t))
	f := enrollFingerprint(t, repo, "hash-a", time.Now().UTC().Add(24*time.Hour))

	require.NoError(t, repo.TouchVerified(context.Background(), f.ID))

	got, err := repo.GetByID(context.Background(), f.ID)
	require.NoError(t, err)
	assert.True(t, got.Verified)
	require.NotNil(t, got.LastVerifiedAt)

	assert.ErrorIs(t, repo.TouchVerified(context.Background(), 9999), ErrFingerprintNotFound)
}

func TestRefreshTokenLifecycle(t *testing.T) {
	repo := NewTokenRepo(newRepoTestDB(t))
	ctx := context.Background()
	exp := time.Now().UTC().Add(time.Hour)

	require.NoError(t, repo.StoreRefresh(ctx, SubjectStudent, 7, "hash-1", exp))

	kind, userID, err := repo.ValidateRefresh(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, SubjectStudent, kind)
	assert.EqualValues(t, 7, userID)

	require.NoError(t, repo.RevokeByHash(ctx, "hash-1"))
	_, _, err = repo.ValidateRefresh(ctx, "hash-1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRefreshTokenExpiryAndUnknownHash(t *testing.T) {
	repo := NewTokenRepo(newRepoTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.StoreRefresh(ctx, SubjectLibrarian, 3, "hash-exp",
		time.Now().UTC().Add(-time.Minute)))
	_, _, err := repo.ValidateRefresh(ctx, "hash-exp")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, _, err = repo.ValidateRefresh(ctx, "no-such-hash")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestRevokeAllForUser(t *testing.T) {
	repo := NewTokenRepo(newRepoTestDB(t))
	ctx := context.Background()
	exp := time.Now().UTC().Add(time.Hour)

	require.NoError(t, repo.StoreRefresh(ctx, SubjectStudent, 7, "u7-a", exp))
	require.NoError(t, repo.StoreRefresh(ctx, SubjectStudent, 7, "u7-b", exp))
	require.NoError(t, repo.StoreRefresh(ctx, SubjectStudent, 8, "u8-a", exp))

	require.NoError(t, repo.RevokeAllForUser(ctx, SubjectStudent, 7))

	_, _, err := repo.ValidateRefresh(ctx, "u7-a")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, _, err = repo.ValidateRefresh(ctx, "u7-b")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	_, _, err = repo.ValidateRefresh(ctx, "u8-a")
	assert.NoError(t, err)
}
