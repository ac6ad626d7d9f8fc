package model

import "time"

// LibraryHours is the facility schedule configuration.  Exactly one row
// is active at a time: saving a new configuration deactivates every
// older row inside the same transaction, so the current schedule is
// simply the single row with Active == true.
//
// OpenTime and CloseTime are wall-clock values in "HH:MM" form.
// WorkingDays is a comma separated list of upper case 3 letter day
// codes, e.g. "MON,TUE,WED,THU,FRI".
type LibraryHours struct {
	ID          uint64    `json:"id"`           // library_hours.id
	LibrarianID uint64    `json:"librarian_id"` // library_hours.librarian_id
	OpenTime    string    `json:"open_time"`    // library_hours.open_time
	CloseTime   string    `json:"close_time"`   // library_hours.close_time
	WorkingDays string    `json:"working_days"` // library_hours.working_days
	Active      bool      `json:"active"`       // library_hours.active
	CreatedAt   time.Time `json:"created_at"`   // library_hours.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // library_hours.updated_at
}
