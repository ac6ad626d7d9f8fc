// Package queue defines message payloads exchanged over the message broker.
package queue

// BorrowConfirmedEvent is published when a loan is successfully opened.
// It carries enough information for downstream consumers to log,
// notify, or feed analytics without querying the primary database.
type BorrowConfirmedEvent struct {
	BorrowRecordID uint64  `json:"borrow_record_id"`
	StudentID      uint64  `json:"student_id"`
	StudentNumber  string  `json:"student_number"`
	BookID         uint64  `json:"book_id"`
	BookTitle      string  `json:"book_title"`
	ISBN           string  `json:"isbn"`
	BorrowDate     string  `json:"borrow_date"`
	DueDate        string  `json:"due_date"`
	FineAmount     float64 `json:"fine_amount"`
}

// GateScanEvent is published whenever a student passes the library
// gate in either direction, including sweeps that force an exit. The
// security consumer appends these to the audit log.
type GateScanEvent struct {
	EntryID       uint64 `json:"entry_id"`
	StudentID     uint64 `json:"student_id"`
	StudentNumber string `json:"student_number"`
	Direction     string `json:"direction"` // ENTRY or EXIT
	Method        string `json:"method"`
	CaptureRef    string `json:"capture_ref,omitempty"`
	ScannedAt     string `json:"scanned_at"`
}
