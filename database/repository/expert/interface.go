package expertRepo

import (
	"context"

	"meetio/models"
)

// ListQuery captures the catalog browse parameters.
type ListQuery struct {
	Page     int
	Limit    int
	Category string
	Search   string
}

// ExpertRepository owns the durable representation of each expert's
// availability calendar. ClaimSlot and ReleaseSlot honour the caller's
// transaction scope: pass a session context to make the slot mutation part
// of a larger unit of work.
type ExpertRepository interface {
	FindByID(ctx context.Context, id string) (*models.Expert, error)
	List(ctx context.Context, q ListQuery) ([]models.Expert, int64, error)
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	InsertMany(ctx context.Context, experts []models.Expert) error

	// ClaimSlot atomically marks the (date, time) slot as booked. It fails
	// with repository.ErrExpertNotFound / ErrDateUnavailable / ErrSlotNotFound
	// when the target does not exist and repository.ErrSlotTaken when the
	// slot is already claimed.
	ClaimSlot(ctx context.Context, expertID, date, timeSlot string) error

	// ReleaseSlot marks the slot as free. Releasing an already-free slot is
	// a no-op.
	ReleaseSlot(ctx context.Context, expertID, date, timeSlot string) error
}
