package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/model"
	"github.com/ob22423253-hue/Java2-Group4-library-management-system/internal/repository"
)

// HoursService answers "is the library open right now" from the single
// active LibraryHours row. When no schedule has ever been configured
// the facility is treated as always open, so a fresh deployment does
// not lock everyone out.
type HoursService struct {
	hours *repository.HoursRepo
}

// NewHoursService constructs an HoursService.
func NewHoursService(hours *repository.HoursRepo) *HoursService {
	if hours == nil {
		panic("nil repository passed to NewHoursService")
	}
	return &HoursService{hours: hours}
}

// Status describes the facility state for the status endpoint.
type Status struct {
	Open        bool    `json:"open"`
	Message     string  `json:"message"`
	OpenTime    *string `json:"open_time,omitempty"`
	CloseTime   *string `json:"close_time,omitempty"`
	WorkingDays *string `json:"working_days,omitempty"`
}

// IsOpen reports whether the facility is open at the current wall
// clock time.
func (s *HoursService) IsOpen(ctx context.Context) (bool, error) {
	h, err := s.hours.Active(ctx)
	if errors.Is(err, repository.ErrHoursNotConfigured) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return OpenAt(h, time.Now()), nil
}

// Current returns the active schedule, or ErrHoursNotConfigured.
func (s *HoursService) Current(ctx context.Context) (*model.LibraryHours, error) {
	return s.hours.Active(ctx)
}

// Status returns the open flag together with the configured schedule
// for display.
func (s *HoursService) Status(ctx context.Context) (*Status, error) {
	h, err := s.hours.Active(ctx)
	if errors.Is(err, repository.ErrHoursNotConfigured) {
		return &Status{Open: true, Message: "Library is open"}, nil
	}
	if err != nil {
		return nil, err
	}
	open := OpenAt(h, time.Now())
	msg := "Library is currently closed"
	if open {
		msg = "Library is currently open"
	}
	return &Status{
		Open:        open,
		Message:     msg,
		OpenTime:    &h.OpenTime,
		CloseTime:   &h.CloseTime,
		WorkingDays: &h.WorkingDays,
	}, nil
}

// Save validates and installs a new schedule, atomically replacing the
// previous active row.
func (s *HoursService) Save(ctx context.Context, librarianID uint64, openTime, closeTime, workingDays string) (*model.LibraryHours, error) {
	openMin, err := parseClock(openTime)
	if err != nil {
		return nil, err
	}
	closeMin, err := parseClock(closeTime)
	if err != nil {
		return nil, err
	}
	if closeMin <= openMin {
		return nil, fmt.Errorf("close time %q must be after open time %q", closeTime, openTime)
	}
	days := strings.ToUpper(strings.ReplaceAll(workingDays, " ", ""))
	if days == "" {
		return nil, errors.New("working days are required")
	}
	for _, d := range strings.Split(days, ",") {
		if !validDayCode(d) {
			return nil, fmt.Errorf("unknown day code %q", d)
		}
	}
	h := &model.LibraryHours{
		LibrarianID: librarianID,
		OpenTime:    openTime,
		CloseTime:   closeTime,
		WorkingDays: days,
	}
	if err := s.hours.Replace(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

// OpenAt reports whether the schedule admits the given instant: the
// day's 3-letter code must appear in the working-day list and the
// wall-clock time must fall inside [open, close], inclusive on both
// ends.
func OpenAt(h *model.LibraryHours, t time.Time) bool {
	code := strings.ToUpper(t.Weekday().String()[:3])
	working := false
	for _, d := range strings.Split(h.WorkingDays, ",") {
		if strings.TrimSpace(d) == code {
			working = true
			break
		}
	}
	if !working {
		return false
	}
	openMin, err := parseClock(h.OpenTime)
	if err != nil {
		return false
	}
	closeMin, err := parseClock(h.CloseTime)
	if err != nil {
		return false
	}
	nowMin := t.Hour()*60 + t.Minute()
	return nowMin >= openMin && nowMin <= closeMin
}

// parseClock converts "HH:MM" to minutes past midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func validDayCode(d string) bool {
	switch d {
	case "MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN":
		return true
	}
	return false
}
