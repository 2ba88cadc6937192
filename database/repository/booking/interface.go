package bookingRepo

import (
	"context"

	"meetio/models"
)

// BookingRepository is the ledger of reservation attempts. Records are only
// ever inserted and status-transitioned, never deleted; a partial unique
// index guarantees at most one non-cancelled booking per
// (expert, date, timeSlot) triple.
type BookingRepository interface {
	// Insert persists a new booking. A violation of the uniqueness backstop
	// is reported as repository.ErrDuplicateBooking.
	Insert(ctx context.Context, booking *models.Booking) error

	FindByID(ctx context.Context, id string) (*models.Booking, error)

	// UpdateStatus transitions a booking's status and returns the updated
	// record, or repository.ErrBookingNotFound.
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error)

	// FindByEmail returns the bookings for one email, newest first.
	FindByEmail(ctx context.Context, email string) ([]models.Booking, error)
}
