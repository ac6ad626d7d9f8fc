package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

func TestRecordEntryAndExit(t *testing.T) {
	db := newTestDB(t)
	svc := newPresenceService(db)
	st := seedStudent(t, db)

	ref := "cam-01/frame-100"
	entry, err := svc.RecordEntry(context.Background(), st.ID, model.EntryMethodRFID, &ref, nil)
	require.NoError(t, err)
	assert.Nil(t, entry.ExitTime)
	assert.Equal(t, model.EntryMethodRFID, entry.EntryMethod)

	n, err := svc.Occupancy(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	exited, err := svc.RecordExit(context.Background(), st.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, entry.ID, exited.ID)
	require.NotNil(t, exited.ExitTime)

	n, err = svc.Occupancy(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestRecordEntryTwiceIsConflict(t *testing.T) {
	db := newTestDB(t)
	svc := newPresenceService(db)
	st := seedStudent(t, db)

	_, err := svc.RecordEntry(context.Background(), st.ID, model.EntryMethodQR, nil, nil)
	require.NoError(t, err)

	_, err = svc.RecordEntry(context.Background(), st.ID, model.EntryMethodQR, nil, nil)
	assert.ErrorIs(t, err, ErrAlreadyInside)
}

func TestRecordExitWithoutEntry(t *testing.T) {
	db := newTestDB(t)
	svc := newPresenceService(db)
	st := seedStudent(t, db)

	_, err := svc.RecordExit(context.Background(), st.ID, nil)
	assert.ErrorIs(t, err, ErrNoOpenEntry)
}

func TestRecordEntryUnknownStudent(t *testing.T) {
	db := newTestDB(t)
	svc := newPresenceService(db)

	_, err := svc.RecordEntry(context.Background(), 424242, model.EntryMethodQR, nil, nil)
	assert.ErrorIs(t, err, repository.ErrStudentNotFound)
}

func TestRecordEntryRejectedWhenClosed(t *testing.T) {
	db := newTestDB(t)
	svc := newPresenceService(db)
	st := seedStudent(t, db)
	seedHours(t, db, "08:00", "20:00", daysExcludingToday())

	_, err := svc.RecordEntry(context.Background(), st.ID, model.EntryMethodQR, nil, nil)
	assert.ErrorIs(t, err, ErrLibraryClosed)
}

func TestRecordEntryFailsOpenWithoutSchedule(t *testing.T) {
	db := newTestDB(t)
	svc := newPresenceService(db)
	st := seedStudent(t, db)

	// No library_hours row at all: entry must succeed.
	_, err := svc.RecordEntry(context.Background(), st.ID, model.EntryMethodQR, nil, nil)
	assert.NoError(t, err)
}

func TestCloseEntryByIDIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newPresenceService(db)
	st := seedStudent(t, db)

	entry, err := svc.RecordEntry(context.Background(), st.ID, model.EntryMethodManual, nil, nil)
	require.NoError(t, err)

	exitAt := time.Now().UTC()
	first, err := svc.CloseEntry(context.Background(), entry.ID, exitAt, nil)
	require.NoError(t, err)
	require.NotNil(t, first.ExitTime)

	second, err := svc.CloseEntry(context.Background(), entry.ID, exitAt.Add(time.Hour), nil)
	require.NoError(t, err)
	require.NotNil(t, second.ExitTime)
	assert.True(t, first.ExitTime.Equal(*second.ExitTime))
}

func TestAutoExitClosesEveryoneWhenClosed(t *testing.T) {
	db := newTestDB(t)
	svc := newPresenceService(db)
	first := seedStudent(t, db)
	second := seedStudent(t, db)

	_, err := svc.RecordEntry(context.Background(), first.ID, model.EntryMethodRFID, nil, nil)
	require.NoError(t, err)
	_, err = svc.RecordEntry(context.Background(), second.ID, model.EntryMethodQR, nil, nil)
	require.NoError(t, err)

	// The library closes after they are inside.
	seedHours(t, db, "08:00", "20:00", daysExcludingToday())

	closed, err := svc.AutoExitIfClosed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	n, err := svc.Occupancy(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)

	// Swept rows carry the auto-exit marker.
	entries, err := repository.NewEntryRepo(db).ListByStudent(context.Background(), first.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].ExitCaptureRef)
	assert.Equal(t, model.AutoExitCaptureRef, *entries[0].ExitCaptureRef)
}

func TestAutoExitDoesNothingWhileOpen(t *testing.T) {
	db := newTestDB(t)
	svc := newPresenceService(db)
	st := seedStudent(t, db)
	seedHours(t, db, "00:00", "23:59", strings.Join(allDayCodes(), ","))

	_, err := svc.RecordEntry(context.Background(), st.ID, model.EntryMethodRFID, nil, nil)
	require.NoError(t, err)

	closed, err := svc.AutoExitIfClosed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, closed)

	n, err := svc.Occupancy(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
