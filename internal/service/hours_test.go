package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

// mustTime builds a time on a fixed calendar day; 2026-08-24 is a
// Monday.
func mustTime(t *testing.T, hour, minute int) time.Time {
	t.Helper()
	return time.Date(2026, 8, 24, hour, minute, 0, 0, time.UTC)
}

func TestOpenAt(t *testing.T) {
	h := &model.LibraryHours{OpenTime: "08:00", CloseTime: "20:00", WorkingDays: "MON,TUE,WED,THU,FRI"}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"inside working hours", mustTime(t, 12, 0), true},
		{"exactly at open", mustTime(t, 8, 0), true},
		{"exactly at close", mustTime(t, 20, 0), true},
		{"one minute before open", mustTime(t, 7, 59), false},
		{"one minute after close", mustTime(t, 20, 1), false},
		{"non-working day", time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC), false}, // Sunday
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, OpenAt(h, tc.at))
		})
	}
}

func TestOpenAtBrokenScheduleIsClosed(t *testing.T) {
	h := &model.LibraryHours{OpenTime: "bogus", CloseTime: "20:00", WorkingDays: "MON"}
	assert.False(t, OpenAt(h, mustTime(t, 12, 0)))
}

func TestIsOpenFailsOpenWithoutConfiguration(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(repository.NewHoursRepo(db))

	open, err := svc.IsOpen(context.Background())
	require.NoError(t, err)
	assert.True(t, open)

	st, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Open)
}

func TestSaveReplacesActiveSchedule(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(repository.NewHoursRepo(db))

	_, err := svc.Save(context.Background(), 1, "08:00", "20:00", "MON,TUE,WED")
	require.NoError(t, err)
	_, err = svc.Save(context.Background(), 2, "09:30", "17:00", "SAT,SUN")
	require.NoError(t, err)

	cur, err := svc.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "09:30", cur.OpenTime)
	assert.Equal(t, "17:00", cur.CloseTime)
	assert.Equal(t, "SAT,SUN", cur.WorkingDays)
	assert.EqualValues(t, 2, cur.LibrarianID)

	// Only one active row may remain after a replace.
	var active int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM library_hours WHERE active = 1").Scan(&active))
	assert.Equal(t, 1, active)
}

func TestSaveValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(repository.NewHoursRepo(db))

	_, err := svc.Save(context.Background(), 1, "25:00", "20:00", "MON")
	assert.Error(t, err)

	_, err = svc.Save(context.Background(), 1, "20:00", "08:00", "MON")
	assert.Error(t, err)

	_, err = svc.Save(context.Background(), 1, "08:00", "20:00", "")
	assert.Error(t, err)

	_, err = svc.Save(context.Background(), 1, "08:00", "20:00", "MON,FOO")
	assert.Error(t, err)
}

func TestSaveNormalisesWorkingDays(t *testing.T) {
	db := newTestDB(t)
	svc := NewHoursService(repository.NewHoursRepo(db))

	saved, err := svc.Save(context.Background(), 1, "08:00", "20:00", "mon, tue ,WED")
	require.NoError(t, err)
	assert.Equal(t, "MON,TUE,WED", saved.WorkingDays)
}
