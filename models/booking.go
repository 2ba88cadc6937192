package models

import "time"

// BookingStatus is the closed set of booking lifecycle states.
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is one of the recognized statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Booking represents one reservation attempt's outcome. Bookings are never
// deleted, only status-transitioned; at most one non-cancelled booking may
// exist per (expert, date, timeSlot) triple.
type Booking struct {
	ID        string        `bson:"id" json:"id"`
	ExpertID  string        `bson:"expertId" json:"expertId"`
	UserName  string        `bson:"userName" json:"userName"`
	UserEmail string        `bson:"userEmail" json:"userEmail"`
	UserPhone string        `bson:"userPhone" json:"userPhone"`
	Date      string        `bson:"date" json:"date"` // "YYYY-MM-DD"
	TimeSlot  string        `bson:"timeSlot" json:"timeSlot"`
	Notes     string        `bson:"notes,omitempty" json:"notes,omitempty"`
	Status    BookingStatus `bson:"status" json:"status"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}
