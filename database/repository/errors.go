// Package repository defines store-level contracts shared by the concrete
// repositories: the unit-of-work runner and the sentinel errors every
// implementation (mongo or in-memory fake) must surface.
package repository

import "errors"

var (
	// ErrExpertNotFound is returned when no expert matches the given ID.
	ErrExpertNotFound = errors.New("expert not found")
	// ErrDateUnavailable is returned when the expert has no availability day
	// for the requested date.
	ErrDateUnavailable = errors.New("selected date is not available")
	// ErrSlotNotFound is returned when the availability day has no slot for
	// the requested time.
	ErrSlotNotFound = errors.New("selected time slot does not exist")
	// ErrSlotTaken is returned when the slot is already booked. Losers of a
	// claim race observe this error, never a silent failure.
	ErrSlotTaken = errors.New("time slot is already booked")
	// ErrDuplicateBooking is the ledger's uniqueness backstop: inserting a
	// second non-cancelled booking for the same (expert, date, timeSlot)
	// triple violates the partial unique index.
	ErrDuplicateBooking = errors.New("booking already exists for this slot")
	// ErrBookingNotFound is returned when no booking matches the given ID.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrUserNotFound is returned when no user matches the given lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail is returned when registering an already-used email.
	ErrDuplicateEmail = errors.New("email already registered")
)
