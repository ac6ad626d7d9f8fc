package model

import "time"

// Entry authentication methods for the library gate.
const (
	EntryMethodRFID        = "RFID_CARD"
	EntryMethodQR          = "QR"
	EntryMethodFingerprint = "FINGERPRINT"
	EntryMethodManual      = "MANUAL_CHECK"
)

// AutoExitCaptureRef marks entries that were closed by the periodic
// sweep because the library had already closed.
const AutoExitCaptureRef = "AUTO_EXIT_LIBRARY_CLOSED"

// LibraryEntry records one physical visit to the library.  A row with
// ExitTime == nil means the student is currently inside; the presence
// service guarantees at most one such row per student.
//
// Fields:
//  ID              – primary key identifier.
//  StudentID       – visiting student.
//  EntryTime       – when the student entered.
//  ExitTime        – when the student left (nil while inside).
//  EntryMethod     – authentication channel used on entry.
//  EntryCaptureRef – CCTV/QR reference captured on entry (optional).
//  ExitCaptureRef  – reference captured on exit (optional).
//  VerifiedBy      – librarian who manually verified the entry (nullable).
//  Notes           – free text notes (optional).
type LibraryEntry struct {
	ID              uint64     `json:"id"`           // library_entries.id
	StudentID       uint64     `json:"student_id"`   // library_entries.student_id
	EntryTime       time.Time  `json:"entry_time"`   // library_entries.entry_time
	ExitTime        *time.Time `json:"exit_time,omitempty"` // library_entries.exit_time (nullable)
	EntryMethod     string     `json:"entry_method"` // library_entries.entry_method
	EntryCaptureRef *string    `json:"entry_capture_ref,omitempty"` // library_entries.entry_capture_ref (nullable)
	ExitCaptureRef  *string    `json:"exit_capture_ref,omitempty"`  // library_entries.exit_capture_ref (nullable)
	VerifiedBy      *uint64    `json:"verified_by,omitempty"`       // library_entries.verified_by (nullable)
	Notes           *string    `json:"notes,omitempty"`             // library_entries.notes (nullable)
	CreatedAt       time.Time  `json:"created_at"`   // library_entries.created_at
	UpdatedAt       time.Time  `json:"updated_at"`   // library_entries.updated_at
}

// ValidEntryMethod reports whether s is one of the known gate methods.
func ValidEntryMethod(s string) bool {
	switch s {
	case EntryMethodRFID, EntryMethodQR, EntryMethodFingerprint, EntryMethodManual:
		return true
	}
	return false
}
