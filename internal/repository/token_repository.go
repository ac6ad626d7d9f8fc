package repository

import (
	"context"
	"database/sql"
	"time"
)

// Subject kinds stored alongside refresh tokens. Students and
// librarians live in separate tables, so the token row records which
// table the user id refers to.
const (
	SubjectStudent   = "STUDENT"
	SubjectLibrarian = "LIBRARIAN"
)

// TokenRepo persists/validates refresh tokens (single 'token_hash' column).
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row for the given subject.
func (r *TokenRepo) StoreRefresh(ctx context.Context, subjectKind string, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (subject_kind, user_id, token_hash, expires_at) VALUES (?,?,?,?)",
		subjectKind, userID, tokenHash, exp)
	return err
}

// ValidateRefresh returns the subject kind and userID if a non-revoked,
// non-expired token exists.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (string, uint64, error) {
	var (
		subjectKind string
		userID      uint64
		expiresAt   time.Time
		revokedAt   sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT subject_kind, user_id, expires_at, revoked_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&subjectKind, &userID, &expiresAt, &revokedAt)
	if err != nil {
		return "", 0, err
	}
	if revokedAt.Valid {
		return "", 0, sql.ErrNoRows
	}
	if time.Now().UTC().After(expiresAt) {
		return "", 0, sql.ErrNoRows
	}
	return subjectKind, userID, nil
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=? WHERE token_hash=? AND revoked_at IS NULL",
		time.Now().UTC(), tokenHash)
	return err
}

// RevokeAllForUser revokes all of a subject's active tokens.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, subjectKind string, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=? WHERE subject_kind=? AND user_id=? AND revoked_at IS NULL",
		time.Now().UTC(), subjectKind, userID)
	return err
}
