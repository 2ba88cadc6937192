package models

// Slot event types pushed to subscribers of an expert's room.
const (
	EventSlotBooked = "slot_booked"
	EventSlotFreed  = "slot_freed"
)

// SlotEvent announces a slot-state transition for one (expert, date, time)
// triple. Delivery is best-effort; a late subscriber sees current state on
// its next full fetch instead.
type SlotEvent struct {
	Type     string `json:"type"`
	ExpertID string `json:"expertId"`
	Date     string `json:"date"`
	TimeSlot string `json:"timeSlot"`
}
