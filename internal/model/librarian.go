package model

import "time"

// Librarian staff roles.  ADMIN may manage librarian accounts in
// addition to everything a LIBRARIAN can do.
const (
	RoleLibrarian = "LIBRARIAN"
	RoleAdmin     = "ADMIN"
)

// Librarian represents a staff account.  Librarians authenticate with
// username and password and operate the management endpoints: book and
// student administration, borrow processing, hours configuration,
// announcements and CCTV review.
type Librarian struct {
	ID           uint64     `json:"id"`         // librarians.id
	StaffID      string     `json:"staff_id"`   // librarians.staff_id
	Username     string     `json:"username"`   // librarians.username (unique)
	PasswordHash string     `json:"-"`          // librarians.password_hash
	FirstName    string     `json:"first_name"` // librarians.first_name
	LastName     string     `json:"last_name"`  // librarians.last_name
	Email        string     `json:"email"`      // librarians.email (unique)
	Role         string     `json:"role"`       // librarians.role (LIBRARIAN or ADMIN)
	Active       bool       `json:"active"`     // librarians.active
	LastLogin    *time.Time `json:"last_login,omitempty"` // librarians.last_login (nullable)
	CreatedAt    time.Time  `json:"created_at"` // librarians.created_at
	UpdatedAt    time.Time  `json:"updated_at"` // librarians.updated_at
}
