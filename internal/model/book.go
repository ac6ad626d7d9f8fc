package model

import "time"

// Book represents a title held by the library.  Each book row tracks
// physical copy counters: TotalCopies is the number of copies the
// library owns, AvailableCopies how many are currently on the shelf
// and TotalBorrows how many times the title has ever been lent out.
// AvailableCopies is only ever mutated by the borrow/return ledger.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – book title.
//  Author          – book author.
//  ISBN            – unique International Standard Book Number.
//  Publisher       – publishing house (optional).
//  PublicationYear – year of publication (nil if unknown).
//  Category        – shelf category such as "Computer Science".
//  LocationCode    – physical shelf location code (optional).
//  RFIDTag         – RFID tag attached to the copy (optional).
//  Description     – free text description (optional).
//  TotalCopies     – copies owned by the library.
//  AvailableCopies – copies currently available, 0..TotalCopies.
//  TotalBorrows    – monotonic counter of completed borrow operations.
//  Notes           – librarian notes (optional).
type Book struct {
	ID              uint64     `json:"id"`               // books.id
	Title           string     `json:"title"`            // books.title
	Author          string     `json:"author"`           // books.author
	ISBN            string     `json:"isbn"`             // books.isbn (unique)
	Publisher       *string    `json:"publisher,omitempty"`        // books.publisher (nullable)
	PublicationYear *int       `json:"publication_year,omitempty"` // books.publication_year (nullable)
	Category        *string    `json:"category,omitempty"`         // books.category (nullable)
	LocationCode    *string    `json:"location_code,omitempty"`    // books.location_code (nullable)
	RFIDTag         *string    `json:"rfid_tag,omitempty"`         // books.rfid_tag (nullable)
	Description     *string    `json:"description,omitempty"`      // books.description (nullable)
	TotalCopies     int        `json:"total_copies"`     // books.total_copies
	AvailableCopies int        `json:"available_copies"` // books.available_copies
	TotalBorrows    int        `json:"total_borrows"`    // books.total_borrows
	Notes           *string    `json:"notes,omitempty"`  // books.notes (nullable)
	CreatedAt       time.Time  `json:"created_at"`       // books.created_at
	UpdatedAt       time.Time  `json:"updated_at"`       // books.updated_at
}
