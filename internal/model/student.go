package model

import "time"

// Student represents a registered library patron.  The university-assigned
// StudentID (exactly 8 digits) and the RFIDUID of the student's card are
// both unique and act as alternative lookup keys for the scan endpoints.
//
// Fields:
//  ID               – primary key identifier.
//  StudentID        – unique 8 digit university student number.
//  PasswordHash     – bcrypt hash of the student's password.
//  UniversityCardID – unique identifier printed on the campus card.
//  FirstName        – given name.
//  LastName         – family name.
//  Email            – unique contact email.
//  PhoneNumber      – contact phone (optional).
//  Department       – home department.
//  Major            – declared major subject (optional).
//  MinorSubject     – declared minor subject (optional).
//  YearLevel        – current study year (nil if unknown).
//  RFIDUID          – unique RFID card UID (optional until card issued).
//  Role             – always "STUDENT"; present so tokens carry a role claim.
//  Active           – false once the student leaves the university.
type Student struct {
	ID               uint64    `json:"id"`                 // students.id
	StudentID        string    `json:"student_id"`         // students.student_id (unique)
	PasswordHash     string    `json:"-"`                  // students.password_hash
	UniversityCardID string    `json:"university_card_id"` // students.university_card_id (unique)
	FirstName        string    `json:"first_name"`         // students.first_name
	LastName         string    `json:"last_name"`          // students.last_name
	Email            string    `json:"email"`              // students.email (unique)
	PhoneNumber      *string   `json:"phone_number,omitempty"`  // students.phone_number (nullable)
	Department       string    `json:"department"`         // students.department
	Major            *string   `json:"major,omitempty"`         // students.major (nullable)
	MinorSubject     *string   `json:"minor_subject,omitempty"` // students.minor_subject (nullable)
	YearLevel        *int      `json:"year_level,omitempty"`    // students.year_level (nullable)
	RFIDUID          *string   `json:"rfid_uid,omitempty"`      // students.rfid_uid (unique, nullable)
	Role             string    `json:"role"`               // students.role
	Active           bool      `json:"active"`             // students.active
	CreatedAt        time.Time `json:"created_at"`         // students.created_at
	UpdatedAt        time.Time `json:"updated_at"`         // students.updated_at
}

// RoleStudent is the role claim carried by student access tokens.
const RoleStudent = "STUDENT"
