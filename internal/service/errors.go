// Package service implements the business rules of the library system
// on top of the repository layer: the borrow/return ledger, the
// presence ledger and the opening hours gate. Services are the only
// writers of lifecycle state; handlers translate service errors to
// HTTP responses.
package service

import "errors"

// ErrNoCopiesAvailable is returned by Borrow when every copy of the
// requested book is already out.
var ErrNoCopiesAvailable = errors.New("no copies available")

// ErrAlreadyInside is returned by RecordEntry when the student already
// has an open library entry.
var ErrAlreadyInside = errors.New("student already has an open entry")

// ErrNoOpenEntry is returned by RecordExit when the student has no
// open library entry to close.
var ErrNoOpenEntry = errors.New("no active entry found for student")

// ErrLibraryClosed is returned by RecordEntry when the facility is
// outside its configured opening hours.
var ErrLibraryClosed = errors.New("library is closed")

// ErrNegativeFine is returned by ApplyManualFine for amounts below zero.
var ErrNegativeFine = errors.New("fine amount must not be negative")
