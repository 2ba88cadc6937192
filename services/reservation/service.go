package reservation

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"meetio/database/repository"
	bookingRepo "meetio/database/repository/booking"
	expertRepo "meetio/database/repository/expert"
	"meetio/models"
	"meetio/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9+\-() ]{7,15}$`)
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// DefaultReservationService is the production implementation of Service.
type DefaultReservationService struct {
	Experts   expertRepo.ExpertRepository
	Bookings  bookingRepo.BookingRepository
	Txn       repository.TxnRunner
	Hub       Broadcaster
	Scheduler CompletionScheduler
}

// Reserve claims the target slot and inserts the booking record as one
// atomic unit of work, then broadcasts slot_booked. Concurrent attempts on
// the same (expert, date, timeSlot) serialize so that exactly one succeeds;
// the rest observe ErrSlotTaken.
func (s *DefaultReservationService) Reserve(ctx context.Context, req ReserveRequest) (*models.Booking, error) {
	logger := utils.GetLogger()

	if fields := validateReserve(req); len(fields) > 0 {
		return nil, ValidationError{Fields: fields}
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:        uuid.New().String(),
		ExpertID:  req.ExpertID,
		UserName:  strings.TrimSpace(req.UserName),
		UserEmail: strings.ToLower(strings.TrimSpace(req.UserEmail)),
		UserPhone: strings.TrimSpace(req.UserPhone),
		Date:      req.Date,
		TimeSlot:  req.TimeSlot,
		Notes:     strings.TrimSpace(req.Notes),
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.Txn.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.Experts.ClaimSlot(txCtx, req.ExpertID, req.Date, req.TimeSlot); err != nil {
			return err
		}
		return s.Bookings.Insert(txCtx, booking)
	})
	if err != nil {
		// The ledger's unique index is the backstop for race windows the
		// transaction isolation does not close; surface it as a conflict.
		if errors.Is(err, repository.ErrDuplicateBooking) {
			return nil, repository.ErrSlotTaken
		}
		return nil, err
	}

	// Announce only after commit, never before.
	s.announce(models.SlotEvent{
		Type:     models.EventSlotBooked,
		ExpertID: booking.ExpertID,
		Date:     booking.Date,
		TimeSlot: booking.TimeSlot,
	})

	logger.Info("booking created",
		zap.String("bookingId", booking.ID),
		zap.String("expertId", booking.ExpertID),
		zap.String("date", booking.Date),
		zap.String("timeSlot", booking.TimeSlot),
	)
	return booking, nil
}

// UpdateStatus transitions a booking through the state machine. A transition
// to cancelled releases the slot; confirmed and completed leave it claimed.
func (s *DefaultReservationService) UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus) (*models.Booking, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	booking, err := s.Bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if status == models.StatusCancelled {
		return s.cancel(ctx, booking)
	}

	if !CanTransition(booking.Status, status) {
		return nil, ErrInvalidTransition
	}

	updated, err := s.Bookings.UpdateStatus(ctx, bookingID, status)
	if err != nil {
		return nil, err
	}

	if status == models.StatusConfirmed && s.Scheduler != nil {
		// Fire and forget: a lost completion task is corrected by the next
		// confirmed sweep, never by failing the request.
		if err := s.Scheduler.ScheduleCompletion(updated); err != nil {
			utils.GetLogger().Warn("failed to schedule completion",
				zap.String("bookingId", updated.ID), zap.Error(err))
		}
	}
	return updated, nil
}

// Cancel sets a booking to cancelled and frees its slot. Cancelling an
// already-cancelled booking is a no-op.
func (s *DefaultReservationService) Cancel(ctx context.Context, bookingID string) (*models.Booking, error) {
	booking, err := s.Bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, booking)
}

func (s *DefaultReservationService) cancel(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if booking.Status == models.StatusCancelled {
		return booking, nil
	}
	if !CanTransition(booking.Status, models.StatusCancelled) {
		return nil, ErrInvalidTransition
	}

	var updated *models.Booking
	err := s.Txn.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.Bookings.UpdateStatus(txCtx, booking.ID, models.StatusCancelled)
		if err != nil {
			return err
		}
		return s.Experts.ReleaseSlot(txCtx, booking.ExpertID, booking.Date, booking.TimeSlot)
	})
	if err != nil {
		return nil, err
	}

	s.announce(models.SlotEvent{
		Type:     models.EventSlotFreed,
		ExpertID: booking.ExpertID,
		Date:     booking.Date,
		TimeSlot: booking.TimeSlot,
	})

	utils.GetLogger().Info("booking cancelled",
		zap.String("bookingId", booking.ID),
		zap.String("expertId", booking.ExpertID),
	)
	return updated, nil
}

// BookingsByEmail is the sole read path for end users to view their own
// bookings. An authenticated principal may only query its own email.
func (s *DefaultReservationService) BookingsByEmail(ctx context.Context, email string, principal *models.Principal) ([]models.Booking, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if principal != nil {
		if email != "" && email != strings.ToLower(principal.Email) {
			return nil, ErrForbidden
		}
		email = strings.ToLower(principal.Email)
	}
	if email == "" {
		return nil, ErrEmailRequired
	}

	return s.Bookings.FindByEmail(ctx, email)
}

func (s *DefaultReservationService) announce(event models.SlotEvent) {
	if s.Hub != nil {
		s.Hub.Broadcast(event.ExpertID, event)
	}
}

func validateReserve(req ReserveRequest) map[string]string {
	fields := make(map[string]string)

	if strings.TrimSpace(req.ExpertID) == "" {
		fields["expertId"] = "Expert ID is required"
	}
	if strings.TrimSpace(req.Date) == "" {
		fields["date"] = "Date is required"
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		fields["date"] = "Date must be in YYYY-MM-DD format"
	}
	if strings.TrimSpace(req.TimeSlot) == "" {
		fields["timeSlot"] = "Time slot is required"
	} else if _, err := time.Parse("15:04", req.TimeSlot); err != nil {
		fields["timeSlot"] = "Time slot must be in HH:MM format"
	}
	if strings.TrimSpace(req.UserName) == "" {
		fields["userName"] = "Name is required"
	}
	if email := strings.TrimSpace(req.UserEmail); email == "" {
		fields["userEmail"] = "Email is required"
	} else if !emailPattern.MatchString(email) {
		fields["userEmail"] = "Valid email is required"
	}
	if phone := strings.TrimSpace(req.UserPhone); phone == "" {
		fields["userPhone"] = "Phone is required"
	} else if !phonePattern.MatchString(phone) {
		fields["userPhone"] = "Valid phone number is required"
	}

	return fields
}
