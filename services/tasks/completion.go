package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"meetio/models"

	"github.com/hibiken/asynq"
)

const TypeCompleteBooking = "booking:complete"

// slotDuration is the length of one bookable slot on the availability grid.
const slotDuration = 30 * time.Minute

// CompletionPayload identifies the booking a completion task should close.
type CompletionPayload struct {
	BookingID string `json:"bookingId"`
}

// NewCompletionTask builds the deferred task that moves a confirmed booking
// to completed once its slot has passed.
func NewCompletionTask(booking *models.Booking) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(CompletionPayload{BookingID: booking.ID})
	if err != nil {
		return nil, nil, err
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", booking.Date+" "+booking.TimeSlot, time.Local)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid booking slot %q %q: %w", booking.Date, booking.TimeSlot, err)
	}

	task := asynq.NewTask(TypeCompleteBooking, b)
	opts := []asynq.Option{asynq.ProcessAt(start.Add(slotDuration))}
	return task, opts, nil
}
