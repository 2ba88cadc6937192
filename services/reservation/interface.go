package reservation

import (
	"context"

	"meetio/models"
)

// ReserveRequest is the input for one reservation attempt. Identity fields
// are filled from the authenticated principal when present.
type ReserveRequest struct {
	ExpertID  string
	Date      string
	TimeSlot  string
	UserName  string
	UserEmail string
	UserPhone string
	Notes     string
}

// Service orchestrates the booking protocol: validate, atomically claim the
// slot and insert the ledger record, then announce the transition.
type Service interface {
	Reserve(ctx context.Context, req ReserveRequest) (*models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus) (*models.Booking, error)
	Cancel(ctx context.Context, bookingID string) (*models.Booking, error)
	BookingsByEmail(ctx context.Context, email string, principal *models.Principal) ([]models.Booking, error)
}

// Broadcaster pushes slot events to everyone viewing an expert. Injected so
// broadcast ordering is testable without a live network layer.
type Broadcaster interface {
	Broadcast(expertID string, event models.SlotEvent)
}

// CompletionScheduler enqueues the deferred confirmed-to-completed
// transition for a booking. Enqueue failures never fail the request.
type CompletionScheduler interface {
	ScheduleCompletion(booking *models.Booking) error
}
