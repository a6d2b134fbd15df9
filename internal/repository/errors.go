// Package repository implements the business operations of the booking
// system on top of the row store: user accounts, the event/auditorium
// catalog, the booking allocator and the attendance ledger.  Every
// operation re-reads the store; nothing is cached between requests.
//
// Failures are reported as explicit error values rather than panics so the
// HTTP layer can map each kind to a status code.  The check-then-act
// sequences here (duplicate booking, seat taken, already marked) are not
// serialized against concurrent callers; two racing requests can both pass
// a check before either writes.  This mirrors the system the data store
// comes from and is documented rather than hidden.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the referenced entity does not exist.
// Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrDuplicateBooking is returned when a user already holds a booking for
// the event, regardless of seats requested.
var ErrDuplicateBooking = errors.New("already booked")

// ErrAlreadyMarked is returned by the attendance ledger when a matching
// entry already exists for the supplied (event, user, slot) keys.
var ErrAlreadyMarked = errors.New("attendance already marked")

// ErrEventMismatch is returned by ticket scanning when the booking belongs
// to a different event than the scanner is checking in.
var ErrEventMismatch = errors.New("ticket is for a different event")

// ErrDuplicateName is returned when a create would collide with an
// existing entry keyed by name (auditoriums, speakers, coordinators).
var ErrDuplicateName = errors.New("name already exists")

// ErrSuspended is returned on login for a suspended account.  Handlers
// translate it into HTTP 403.
var ErrSuspended = errors.New("account suspended")

// ErrBadCredentials is returned on login when the password does not match.
// Handlers translate it into HTTP 401.
var ErrBadCredentials = errors.New("incorrect password")

// ErrSelfAction is returned when an admin tries to change, suspend or
// delete their own account.
var ErrSelfAction = errors.New("cannot modify own account")

// SeatTakenError reports which requested seat already appears in another
// booking for the same event.
type SeatTakenError struct {
	Seat string
}

func (e *SeatTakenError) Error() string {
	return fmt.Sprintf("seat %s is already booked", e.Seat)
}

// AlreadyScannedError reports a second scan of the same ticket, carrying
// the holder details so the scanner operator sees who came in first.
type AlreadyScannedError struct {
	USN   string
	Seats string
}

func (e *AlreadyScannedError) Error() string {
	return fmt.Sprintf("already scanned (user: %s, seats: %s)", e.USN, e.Seats)
}
