package model

import "time"

// Borrow record statuses.  A record starts BORROWED and moves to
// RETURNED or OVERDUE when the book comes back, depending on whether
// the return happened after the due date.  LOST and DAMAGED are
// declared for the reporting vocabulary; no lifecycle operation
// currently produces them.
const (
	BorrowStatusBorrowed = "BORROWED"
	BorrowStatusOverdue  = "OVERDUE"
	BorrowStatusReturned = "RETURNED"
	BorrowStatusLost     = "LOST"
	BorrowStatusDamaged  = "DAMAGED"
)

// FinePerDay is the flat fine charged per day a return is late.
const FinePerDay = 0.50

// BorrowRecord is one row of the borrow ledger.  Rows are never
// deleted; a returned loan keeps its row with ReturnDate set.
//
// Fields:
//  ID                – primary key identifier.
//  BookID            – borrowed book.
//  StudentID         – borrowing student.
//  BorrowDate        – when the loan started.
//  DueDate           – when the book must be back.
//  ReturnDate        – when the book came back (nil while out).
//  Status            – see status constants above.
//  FineAmount        – accrued or manually applied fine, never negative.
//  Notes             – free text, fine reasons are appended here.
//  ProcessedBy       – librarian who issued the loan (nullable).
//  ReturnProcessedBy – librarian who processed the return (nullable).
type BorrowRecord struct {
	ID                uint64     `json:"id"`          // borrow_records.id
	BookID            uint64     `json:"book_id"`     // borrow_records.book_id
	StudentID         uint64     `json:"student_id"`  // borrow_records.student_id
	BorrowDate        time.Time  `json:"borrow_date"` // borrow_records.borrow_date
	DueDate           time.Time  `json:"due_date"`    // borrow_records.due_date
	ReturnDate        *time.Time `json:"return_date,omitempty"` // borrow_records.return_date (nullable)
	Status            string     `json:"status"`      // borrow_records.status
	FineAmount        float64    `json:"fine_amount"` // borrow_records.fine_amount
	Notes             *string    `json:"notes,omitempty"`        // borrow_records.notes (nullable)
	ProcessedBy       *uint64    `json:"processed_by,omitempty"` // borrow_records.processed_by (nullable)
	ReturnProcessedBy *uint64    `json:"return_processed_by,omitempty"` // borrow_records.return_processed_by (nullable)
	CreatedAt         time.Time  `json:"created_at"`  // borrow_records.created_at
	UpdatedAt         time.Time  `json:"updated_at"`  // borrow_records.updated_at
}
