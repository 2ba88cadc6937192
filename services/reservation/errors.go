package reservation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrInvalidStatus is returned for status values outside the recognized
	// set. No mutation is performed.
	ErrInvalidStatus = errors.New("invalid booking status")
	// ErrInvalidTransition is returned for a recognized status that the
	// state machine does not allow from the booking's current status.
	ErrInvalidTransition = errors.New("status transition not allowed")
	// ErrForbidden is returned when an authenticated caller requests another
	// identity's bookings.
	ErrForbidden = errors.New("cannot request another user's bookings")
	// ErrEmailRequired is returned when no email is resolvable for a
	// bookings lookup.
	ErrEmailRequired = errors.New("email is required")
)

// ValidationError carries field-scoped messages for malformed input. Clients
// fix the named fields; these requests are never retried automatically.
type ValidationError struct {
	Fields map[string]string
}

func (e ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		names = append(names, f)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}
