package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

// PresenceService owns the presence ledger. It enforces the one open
// entry per student invariant and runs the auto-exit sweep that closes
// open rows once the facility has closed.
type PresenceService struct {
	db       *sql.DB
	entries  *repository.EntryRepo
	students *repository.StudentRepo
	hours    *HoursService
}

// NewPresenceService constructs a PresenceService. All dependencies
// must be non-nil.
func NewPresenceService(db *sql.DB, entries *repository.EntryRepo, students *repository.StudentRepo, hours *HoursService) *PresenceService {
	if db == nil || entries == nil || students == nil || hours == nil {
		panic("nil dependency passed to NewPresenceService")
	}
	return &PresenceService{db: db, entries: entries, students: students, hours: hours}
}

// RecordEntry opens a presence row for the student. It fails with
// ErrLibraryClosed outside opening hours and with ErrAlreadyInside
// when the student already has an open row; the open-entry check and
// the insert run inside one transaction.
func (s *PresenceService) RecordEntry(ctx context.Context, studentID uint64, method string, captureRef *string, verifiedBy *uint64) (*model.LibraryEntry, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	open, err := s.hours.IsOpen(ctx)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, ErrLibraryClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if _, err := s.entries.OpenEntryForStudentTx(ctx, tx, studentID); err == nil {
		return nil, ErrAlreadyInside
	} else if !errors.Is(err, repository.ErrEntryNotFound) {
		return nil, err
	}

	entry := &model.LibraryEntry{
		StudentID:       studentID,
		EntryTime:       time.Now().UTC(),
		EntryMethod:     method,
		EntryCaptureRef: captureRef,
		VerifiedBy:      verifiedBy,
	}
	if err := s.entries.CreateTx(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return entry, nil
}

// RecordExit closes the student's open entry. When several open rows
// exist despite the invariant, the most recently opened one is closed.
func (s *PresenceService) RecordExit(ctx context.Context, studentID uint64, captureRef *string) (*model.LibraryEntry, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	entry, err := s.entries.OpenEntryForStudentTx(ctx, tx, studentID)
	if errors.Is(err, repository.ErrEntryNotFound) {
		return nil, ErrNoOpenEntry
	}
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if _, err := s.entries.CloseTx(ctx, tx, entry.ID, now, captureRef); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	entry.ExitTime = &now
	entry.ExitCaptureRef = captureRef
	return entry, nil
}

// CloseEntry closes a specific entry by id. Closing an already-closed
// entry is a no-op that returns the row unchanged.
func (s *PresenceService) CloseEntry(ctx context.Context, entryID uint64, exitTime time.Time, captureRef *string) (*model.LibraryEntry, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.ExitTime != nil {
		return entry, nil
	}
	if exitTime.IsZero() {
		exitTime = time.Now().UTC()
	}
	closed, err := s.entries.Close(ctx, entryID, exitTime, captureRef)
	if err != nil {
		return nil, err
	}
	if closed {
		entry.ExitTime = &exitTime
		entry.ExitCaptureRef = captureRef
	}
	return entry, nil
}

// AutoExitIfClosed is the periodic sweep. When the facility is closed
// it closes every open entry with the AUTO_EXIT_LIBRARY_CLOSED capture
// reference and returns how many rows it closed. Each row is closed
// independently; one failure does not stop the rest.
func (s *PresenceService) AutoExitIfClosed(ctx context.Context) (int, error) {
	open, err := s.hours.IsOpen(ctx)
	if err != nil {
		return 0, err
	}
	if open {
		return 0, nil
	}

	stillInside, err := s.entries.ListOpen(ctx)
	if err != nil {
		return 0, err
	}
	if len(stillInside) == 0 {
		return 0, nil
	}

	log.Printf("auto-exit: library is closed, exiting %d student(s)", len(stillInside))
	now := time.Now().UTC()
	ref := model.AutoExitCaptureRef
	closed := 0
	for _, entry := range stillInside {
		ok, err := s.entries.Close(ctx, entry.ID, now, &ref)
		if err != nil {
			log.Printf("auto-exit: close entry %d failed: %v", entry.ID, err)
			continue
		}
		if ok {
			closed++
		}
	}
	return closed, nil
}

// Occupancy returns how many students are currently inside.
func (s *PresenceService) Occupancy(ctx context.Context) (int64, error) {
	return s.entries.CountOpen(ctx)
}
