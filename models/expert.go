package models

import "time"

// Slot is one bookable time unit within an availability day.
// Slots are created in bulk when the calendar is generated and never deleted;
// only IsBooked mutates, and only through the reservation protocol.
type Slot struct {
	Time     string `bson:"time" json:"time"`
	IsBooked bool   `bson:"isBooked" json:"isBooked"`
}

// AvailabilityDay groups the slots an expert offers on one calendar date.
type AvailabilityDay struct {
	Date  string `bson:"date" json:"date"` // "YYYY-MM-DD"
	Slots []Slot `bson:"slots" json:"slots"`
}

// Expert is the aggregate root owning its availability days and slots.
type Expert struct {
	ID           string            `bson:"id" json:"id"`
	Name         string            `bson:"name" json:"name"`
	Email        string            `bson:"email" json:"email"`
	Avatar       string            `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Category     string            `bson:"category" json:"category"`
	Title        string            `bson:"title" json:"title"`
	Bio          string            `bson:"bio,omitempty" json:"bio,omitempty"`
	Experience   int               `bson:"experience" json:"experience"`
	Rating       float64           `bson:"rating" json:"rating"`
	TotalReviews int               `bson:"totalReviews" json:"totalReviews"`
	HourlyRate   float64           `bson:"hourlyRate" json:"hourlyRate"`
	Skills       []string          `bson:"skills,omitempty" json:"skills,omitempty"`
	Availability []AvailabilityDay `bson:"availability,omitempty" json:"availability,omitempty"`
	CreatedAt    time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// Day returns the availability day matching the given date, if any.
func (e *Expert) Day(date string) *AvailabilityDay {
	for i := range e.Availability {
		if e.Availability[i].Date == date {
			return &e.Availability[i]
		}
	}
	return nil
}

// Slot returns the slot matching the given time within a day, if any.
func (d *AvailabilityDay) Slot(t string) *Slot {
	for i := range d.Slots {
		if d.Slots[i].Time == t {
			return &d.Slots[i]
		}
	}
	return nil
}
