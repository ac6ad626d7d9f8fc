package model

import "time"

// Department is an academic department.  Courses belong to exactly one
// department and students declare a major (and optionally a minor)
// department.
type Department struct {
	ID          uint64    `json:"id"`   // departments.id
	Name        string    `json:"name"` // departments.name (unique)
	Description *string   `json:"description,omitempty"` // departments.description (nullable)
	CreatedAt   time.Time `json:"created_at"` // departments.created_at
	UpdatedAt   time.Time `json:"updated_at"` // departments.updated_at
}

// Course is a course offered by a department.
type Course struct {
	ID           uint64    `json:"id"`            // courses.id
	DepartmentID uint64    `json:"department_id"` // courses.department_id
	Name         string    `json:"name"`          // courses.name
	Description  *string   `json:"description,omitempty"` // courses.description (nullable)
	CreatedAt    time.Time `json:"created_at"` // courses.created_at
	UpdatedAt    time.Time `json:"updated_at"` // courses.updated_at
}

// StudentMajorMinor links a student to a major department and an
// optional minor department.
type StudentMajorMinor struct {
	ID                uint64    `json:"id"`                  // student_major_minor.id
	StudentID         uint64    `json:"student_id"`          // student_major_minor.student_id
	MajorDepartmentID uint64    `json:"major_department_id"` // student_major_minor.major_department_id
	MinorDepartmentID *uint64   `json:"minor_department_id,omitempty"` // student_major_minor.minor_department_id (nullable)
	CreatedAt         time.Time `json:"created_at"` // student_major_minor.created_at
	UpdatedAt         time.Time `json:"updated_at"` // student_major_minor.updated_at
}
