package router

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/config"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/handler"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/middleware"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/service"
)

const routerTestSchema = `
CREATE TABLE books (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    title            TEXT NOT NULL,
    author           TEXT NOT NULL,
    isbn             TEXT NOT NULL UNIQUE,
    publisher        TEXT,
    publication_year INTEGER,
    category         TEXT,
    location_code    TEXT,
    rfid_tag         TEXT,
    description      TEXT,
    total_copies     INTEGER NOT NULL DEFAULT 1,
    available_copies INTEGER NOT NULL DEFAULT 1,
    total_borrows    INTEGER NOT NULL DEFAULT 0,
    notes            TEXT,
    created_at       DATETIME NOT NULL,
    updated_at       DATETIME NOT NULL
);
`

// newTestServer wires every route group in the same order as
// cmd/server/main.go so registration-order bugs are visible.
func newTestServer(t *testing.T) (*echo.Echo, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(routerTestSchema)
	require.NoError(t, err)

	cfg := config.Config{JWTSecret: "router-test-secret", AccessTTLMin: 15, RefreshTTLDays: 30}

	books := repository.NewBookRepo(db)
	students := repository.NewStudentRepo(db)
	librarians := repository.NewLibrarianRepo(db)
	borrows := repository.NewBorrowRepo(db)
	entries := repository.NewEntryRepo(db)
	announcements := repository.NewAnnouncementRepo(db)
	departments := repository.NewDepartmentRepo(db)
	courses := repository.NewCourseRepo(db)

	hoursSvc := service.NewHoursService(repository.NewHoursRepo(db))
	borrowSvc := service.NewBorrowService(db, books, students, borrows)
	presenceSvc := service.NewPresenceService(db, entries, students, hoursSvc)

	passthruCache := middleware.NewRedisCache(config.CacheConfig{}, nil)
	passthruLimiter := middleware.NewTokenBucket(config.RateLimitConfig{}, nil)

	borrowH := handler.NewBorrowHandler(borrowSvc, books, students, borrows)
	entryH := handler.NewEntryHandler(presenceSvc, entries)
	reportH := handler.NewReportHandler(borrows, entries, presenceSvc)

	e := echo.New()
	RegisterRoutes(e)
	RegisterAuth(e, handler.NewAuthHandler(cfg, students, librarians, repository.NewTokenRepo(db)), cfg.JWTSecret)
	RegisterPublic(e, handler.NewPublicHandler(books, announcements), handler.NewHoursHandler(hoursSvc), passthruCache)
	RegisterScan(e, handler.NewScanHandler(cfg, presenceSvc, students), passthruLimiter)
	RegisterStudent(e, borrowH, entryH, reportH, cfg.JWTSecret)
	RegisterLibrarian(e, LibrarianHandlers{
		Books:         handler.NewBookHandler(books, borrows),
		Students:      handler.NewStudentHandler(cfg, students, borrows, entries),
		Borrows:       borrowH,
		Entries:       entryH,
		Hours:         handler.NewHoursHandler(hoursSvc),
		Announcements: handler.NewAnnouncementHandler(announcements),
		CCTV:          handler.NewCCTVHandler(repository.NewCCTVRepo(db)),
		Fingerprints:  handler.NewFingerprintHandler(repository.NewFingerprintRepo(db), students),
		Reports:       reportH,
		Departments:   handler.NewDepartmentHandler(departments, courses),
		Courses:       handler.NewCourseHandler(courses, departments),
		MajorMinors:   handler.NewMajorMinorHandler(repository.NewMajorMinorRepo(db), students, departments),
	}, cfg.JWTSecret)

	return e, db
}

func TestPublicBookDetailNeedsNoAuth(t *testing.T) {
	e, db := newTestServer(t)

	b := &model.Book{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441172719",
		TotalCopies: 2, AvailableCopies: 2}
	require.NoError(t, repository.NewBookRepo(db).Create(context.Background(), b))

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/books/%d", b.ID), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dune")
}

func TestPublicBookSearchNeedsNoAuth(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/books", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestBookManagementStaysGuarded(t *testing.T) {
	e, _ := newTestServer(t)

	for _, probe := range []struct{ method, path string }{
		{http.MethodPost, "/v1/books"},
		{http.MethodPut, "/v1/books/1"},
		{http.MethodDelete, "/v1/books/1"},
	} {
		req := httptest.NewRequest(probe.method, probe.path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", probe.method, probe.path)
	}
}
