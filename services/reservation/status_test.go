package reservation

import (
	"testing"

	"meetio/models"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.BookingStatus
		allowed  bool
	}{
		{models.StatusPending, models.StatusConfirmed, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusPending, models.StatusCompleted, false},
		{models.StatusPending, models.StatusPending, false},
		{models.StatusConfirmed, models.StatusCompleted, true},
		{models.StatusConfirmed, models.StatusCancelled, true},
		{models.StatusConfirmed, models.StatusPending, false},
		{models.StatusCompleted, models.StatusCancelled, false},
		{models.StatusCompleted, models.StatusConfirmed, false},
		{models.StatusCancelled, models.StatusPending, false},
		{models.StatusCancelled, models.StatusConfirmed, false},
	}

	for _, tc := range cases {
		got := CanTransition(tc.from, tc.to)
		assert.Equalf(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}

func TestBookingStatusValid(t *testing.T) {
	for _, s := range []models.BookingStatus{
		models.StatusPending, models.StatusConfirmed,
		models.StatusCompleted, models.StatusCancelled,
	} {
		assert.Truef(t, s.Valid(), "%s should be valid", s)
	}
	assert.False(t, models.BookingStatus("archived").Valid())
	assert.False(t, models.BookingStatus("").Valid())
}
