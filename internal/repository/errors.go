// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios. For example, ErrConflict signals that an operation cannot
// proceed due to conflicting state, such as registering a student whose
// student number is already taken.
package repository

import (
	"errors"
	"strings"
)

// ErrConflict is returned when an insert or update cannot be performed
// because of conflicting state, such as a duplicate unique key.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// IsDuplicateKey reports whether err looks like a unique constraint
// violation. MySQL reports error code 1062; SQLite, which backs the
// test suite, reports "UNIQUE constraint failed".
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "1062") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
