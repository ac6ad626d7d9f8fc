package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/config"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/utils"
)

const authTestSchema = `
CREATE TABLE refresh_tokens (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    subject_kind TEXT NOT NULL,
    user_id      INTEGER NOT NULL,
    token_hash   TEXT NOT NULL UNIQUE,
    expires_at   DATETIME NOT NULL,
    revoked_at   DATETIME
);
`

func newAuthHandler(t *testing.T) (*AuthHandler, *repository.TokenRepo) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(authTestSchema)
	require.NoError(t, err)

	cfg := config.Config{JWTSecret: "auth-test-secret", AccessTTLMin: 15, RefreshTTLDays: 30}
	tokens := repository.NewTokenRepo(db)
	h := NewAuthHandler(cfg, repository.NewStudentRepo(db), repository.NewLibrarianRepo(db), tokens)
	return h, tokens
}

// logoutCtx builds the request context the way the public route does:
// no auth middleware ran, anything in the header is raw.
func logoutCtx(body, bearer string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func storeRefresh(t *testing.T, tokens *repository.TokenRepo, kind string, userID uint64) string {
	t.Helper()
	refresh, err := utils.NewRefreshToken(30)
	require.NoError(t, err)
	require.NoError(t, tokens.StoreRefresh(context.Background(), kind, userID,
		utils.HashRefreshRaw(refresh.Raw), time.Now().UTC().Add(time.Hour)))
	return refresh.Raw
}

func TestLogoutRevokesPresentedRefreshToken(t *testing.T) {
	h, tokens := newAuthHandler(t)
	raw := storeRefresh(t, tokens, repository.SubjectStudent, 7)

	c, rec := logoutCtx(fmt.Sprintf(`{"refresh_token":%q}`, raw), "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, _, err := tokens.ValidateRefresh(context.Background(), utils.HashRefreshRaw(raw))
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLogoutWithBearerRevokesAllSessions(t *testing.T) {
	h, tokens := newAuthHandler(t)
	rawA := storeRefresh(t, tokens, repository.SubjectStudent, 7)
	rawB := storeRefresh(t, tokens, repository.SubjectStudent, 7)
	other := storeRefresh(t, tokens, repository.SubjectStudent, 8)

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, 7, "STUDENT", 15)
	require.NoError(t, err)

	c, rec := logoutCtx(`{}`, access.Token)
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	ctx := context.Background()
	_, _, err = tokens.ValidateRefresh(ctx, utils.HashRefreshRaw(rawA))
	assert.ErrorIs(t, err, sql.ErrNoRows)
	_, _, err = tokens.ValidateRefresh(ctx, utils.HashRefreshRaw(rawB))
	assert.ErrorIs(t, err, sql.ErrNoRows)

	// A different student's session stays valid.
	_, _, err = tokens.ValidateRefresh(ctx, utils.HashRefreshRaw(other))
	assert.NoError(t, err)
}

func TestLogoutWithLibrarianBearerTargetsLibrarianSessions(t *testing.T) {
	h, tokens := newAuthHandler(t)
	raw := storeRefresh(t, tokens, repository.SubjectLibrarian, 3)

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, 3, "LIBRARIAN", 15)
	require.NoError(t, err)

	c, rec := logoutCtx(`{}`, access.Token)
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	_, _, err = tokens.ValidateRefresh(context.Background(), utils.HashRefreshRaw(raw))
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLogoutWithoutCredentialsIsRejected(t *testing.T) {
	h, _ := newAuthHandler(t)

	c, rec := logoutCtx(`{}`, "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutRejectsForgedBearer(t *testing.T) {
	h, tokens := newAuthHandler(t)
	raw := storeRefresh(t, tokens, repository.SubjectStudent, 7)

	forged, err := utils.NewAccessToken("some-other-secret", 7, "STUDENT", 15)
	require.NoError(t, err)

	c, rec := logoutCtx(`{}`, forged.Token)
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, _, err = tokens.ValidateRefresh(context.Background(), utils.HashRefreshRaw(raw))
	assert.NoError(t, err)
}
