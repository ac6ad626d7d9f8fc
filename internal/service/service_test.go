package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

// The repositories stick to portable SQL (? placeholders, timestamps
// supplied from Go), so the tests run them against in-memory SQLite
// instead of a MySQL server.
const testSchema = `
CREATE TABLE students (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    student_id         TEXT NOT NULL UNIQUE,
    password_hash      TEXT NOT NULL,
    university_card_id TEXT NOT NULL,
    first_name         TEXT NOT NULL,
    last_name          TEXT NOT NULL,
    email              TEXT NOT NULL UNIQUE,
    phone_number       TEXT,
    department         TEXT NOT NULL,
    major              TEXT,
    minor_subject      TEXT,
    year_level         INTEGER,
    rfid_uid           TEXT UNIQUE,
    role               TEXT NOT NULL DEFAULT 'STUDENT',
    active             BOOLEAN NOT NULL DEFAULT 1,
    created_at         DATETIME NOT NULL,
    updated_at         DATETIME NOT NULL
);
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
CREATE TABLE borrow_records (
    id                  INTEGER PRIMARY KEY AUTOINCREMENT,
    book_id             INTEGER NOT NULL,
    student_id          INTEGER NOT NULL,
    borrow_date         DATETIME NOT NULL,
    due_date            DATETIME NOT NULL,
    return_date         DATETIME,
    status              TEXT NOT NULL DEFAULT 'BORROWED',
    fine_amount         REAL NOT NULL DEFAULT 0,
    notes               TEXT,
    processed_by        INTEGER,
    return_processed_by INTEGER,
    created_at          DATETIME NOT NULL,
    updated_at          DATETIME NOT NULL
);
CREATE TABLE library_entries (
    id                INTEGER PRIMARY KEY AUTOINCREMENT,
    student_id        INTEGER NOT NULL,
    entry_time        DATETIME NOT NULL,
    exit_time         DATETIME,
    entry_method      TEXT NOT NULL,
    entry_capture_ref TEXT,
    exit_capture_ref  TEXT,
    verified_by       INTEGER,
    notes             TEXT,
    created_at        DATETIME NOT NULL,
    updated_at        DATETIME NOT NULL
);
CREATE TABLE library_hours (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    librarian_id INTEGER NOT NULL,
    open_time    TEXT NOT NULL,
    close_time   TEXT NOT NULL,
    working_days TEXT NOT NULL,
    active       BOOLEAN NOT NULL DEFAULT 1,
    created_at   DATETIME NOT NULL,
    updated_at   DATETIME NOT NULL
);
`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// A single connection keeps every statement on the same in-memory
	// database.
	db.SetMaxOpenConns(1)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

var studentSeq int

func seedStudent(t *testing.T, db *sql.DB) *model.Student {
	t.Helper()
	studentSeq++
	st := &model.Student{
		StudentID:        fmt.Sprintf("2023%04d", studentSeq),
		PasswordHash:     "x",
		UniversityCardID: fmt.Sprintf("CARD-%04d", studentSeq),
		FirstName:        "Test",
		LastName:         "Student",
		Email:            fmt.Sprintf("student%d@test.edu", studentSeq),
		Department:       "Computer Science",
		Role:             model.RoleStudent,
		Active:           true,
	}
	require.NoError(t, repository.NewStudentRepo(db).Create(context.Background(), st))
	return st
}

var bookSeq int

func seedBook(t *testing.T, db *sql.DB, copies int) *model.Book {
	t.Helper()
	bookSeq++
	b := &model.Book{
		Title:           fmt.Sprintf("Book %d", bookSeq),
		Author:          "Author",
		ISBN:            fmt.Sprintf("978-0-00-%06d-0", bookSeq),
		TotalCopies:     copies,
		AvailableCopies: copies,
	}
	require.NoError(t, repository.NewBookRepo(db).Create(context.Background(), b))
	return b
}

// seedHours installs an active schedule directly through the repo,
// bypassing service validation so tests can force odd configurations.
func seedHours(t *testing.T, db *sql.DB, openTime, closeTime, days string) {
	t.Helper()
	h := &model.LibraryHours{LibrarianID: 1, OpenTime: openTime, CloseTime: closeTime, WorkingDays: days}
	require.NoError(t, repository.NewHoursRepo(db).Replace(context.Background(), h))
}

func allDayCodes() []string {
	return []string{"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN"}
}

// daysExcludingToday builds a working-day list that never matches the
// current day, so the facility is deterministically closed.
func daysExcludingToday() string {
	today := strings.ToUpper(time.Now().Weekday().String()[:3])
	var out []string
	for _, d := range allDayCodes() {
		if d != today {
			out = append(out, d)
		}
	}
	return strings.Join(out, ",")
}

func newBorrowService(db *sql.DB) *BorrowService {
	return NewBorrowService(db,
		repository.NewBookRepo(db),
		repository.NewStudentRepo(db),
		repository.NewBorrowRepo(db))
}

func newPresenceService(db *sql.DB) *PresenceService {
	return NewPresenceService(db,
		repository.NewEntryRepo(db),
		repository.NewStudentRepo(db),
		NewHoursService(repository.NewHoursRepo(db)))
}

// insertLoan writes a ledger row with explicit dates, used to backdate
// due dates for fine tests.
func insertLoan(t *testing.T, db *sql.DB, bookID, studentID uint64, borrowed, due time.Time) *model.BorrowRecord {
	t.Helper()
	tx, err := db.Begin()
	require.NoError(t, err)
	rec := &model.BorrowRecord{
		BookID:     bookID,
		StudentID:  studentID,
		BorrowDate: borrowed,
		DueDate:    due,
		Status:     model.BorrowStatusBorrowed,
	}
	require.NoError(t, repository.NewBorrowRepo(db).CreateTx(context.Background(), tx, rec))
	require.NoError(t, tx.Commit())
	return rec
}
