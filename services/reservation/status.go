package reservation

import "meetio/models"

// transitions is the closed state machine for booking statuses. Completed
// and cancelled are terminal. Only a transition to cancelled touches slot
// state; confirmed and completed leave the claim in place.
var transitions = map[models.BookingStatus]map[models.BookingStatus]bool{
	models.StatusPending: {
		models.StatusConfirmed: true,
		models.StatusCancelled: true,
	},
	models.StatusConfirmed: {
		models.StatusCompleted: true,
		models.StatusCancelled: true,
	},
	models.StatusCompleted: {},
	models.StatusCancelled: {},
}

// CanTransition reports whether the state machine allows moving from one
// status to another.
func CanTransition(from, to models.BookingStatus) bool {
	return transitions[from][to]
}
