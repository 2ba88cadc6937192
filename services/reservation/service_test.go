package reservation

import (
	"context"
	"errors"
	"sync"
	"testing"

	"meetio/database/repository"
	"meetio/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testExpert = "expert-1"
	testDate   = "2025-03-10"
	testSlot   = "09:00"
)

func newTestService(store *fakeStore) (*DefaultReservationService, *fakeHub, *fakeScheduler) {
	hub := &fakeHub{}
	scheduler := &fakeScheduler{}
	svc := &DefaultReservationService{
		Experts:   &fakeExpertRepo{store: store},
		Bookings:  &fakeBookingRepo{store: store},
		Txn:       &fakeTxnRunner{store: store},
		Hub:       hub,
		Scheduler: scheduler,
	}
	return svc, hub, scheduler
}

func validRequest() ReserveRequest {
	return ReserveRequest{
		ExpertID:  testExpert,
		Date:      testDate,
		TimeSlot:  testSlot,
		UserName:  "Ada Lovelace",
		UserEmail: "ada@example.com",
		UserPhone: "+44 1234 5678",
		Notes:     "First session",
	}
}

func TestReserve_Success(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot, "09:30")
	svc, hub, _ := newTestService(store)

	booking, err := svc.Reserve(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, booking)

	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, "ada@example.com", booking.UserEmail)
	assert.True(t, store.slotBooked(testExpert, testDate, testSlot))
	assert.Equal(t, 1, store.activeBookings(testExpert, testDate, testSlot))

	booked := hub.byType(models.EventSlotBooked)
	require.Len(t, booked, 1)
	assert.Equal(t, testExpert, booked[0].ExpertID)
	assert.Equal(t, testDate, booked[0].Date)
	assert.Equal(t, testSlot, booked[0].TimeSlot)
}

func TestReserve_ValidationErrors(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot)
	svc, hub, _ := newTestService(store)

	req := validRequest()
	req.ExpertID = ""
	req.Date = "10-03-2025"
	req.UserEmail = "not-an-email"
	req.UserPhone = "abc"

	_, err := svc.Reserve(context.Background(), req)
	var vErr ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "expertId")
	assert.Contains(t, vErr.Fields, "date")
	assert.Contains(t, vErr.Fields, "userEmail")
	assert.Contains(t, vErr.Fields, "userPhone")

	assert.Empty(t, hub.byType(models.EventSlotBooked))
	assert.Equal(t, 0, store.activeBookings(testExpert, testDate, testSlot))
}

func TestReserve_TargetResolution(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot)
	svc, _, _ := newTestService(store)
	ctx := context.Background()

	req := validRequest()
	req.ExpertID = "missing"
	_, err := svc.Reserve(ctx, req)
	assert.ErrorIs(t, err, repository.ErrExpertNotFound)

	req = validRequest()
	req.Date = "2025-03-11"
	_, err = svc.Reserve(ctx, req)
	assert.ErrorIs(t, err, repository.ErrDateUnavailable)

	req = validRequest()
	req.TimeSlot = "23:00"
	_, err = svc.Reserve(ctx, req)
	assert.ErrorIs(t, err, repository.ErrSlotNotFound)
}

func TestReserve_Conflict(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot)
	svc, hub, _ := newTestService(store)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.Reserve(ctx, validRequest())
	assert.ErrorIs(t, err, repository.ErrSlotTaken)

	assert.Len(t, hub.byType(models.EventSlotBooked), 1)
	assert.Equal(t, 1, store.activeBookings(testExpert, testDate, testSlot))
}

func TestReserve_MutualExclusion(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot)
	svc, hub, _ := newTestService(store)

	const workers = 32
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Reserve(context.Background(), validRequest())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, repository.ErrSlotTaken):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
	assert.True(t, store.slotBooked(testExpert, testDate, testSlot))
	assert.Equal(t, 1, store.activeBookings(testExpert, testDate, testSlot))
	assert.Len(t, hub.byType(models.EventSlotBooked), 1)
}

func TestReserve_AtomicRollbackOnLedgerFailure(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot)
	store.insertBookingErr = errors.New("ledger write failed")
	svc, hub, _ := newTestService(store)

	_, err := svc.Reserve(context.Background(), validRequest())
	require.Error(t, err)

	// The claim must not survive the aborted unit of work.
	assert.False(t, store.slotBooked(testExpert, testDate, testSlot))
	assert.Equal(t, 0, store.activeBookings(testExpert, testDate, testSlot))
	assert.Empty(t, hub.byType(models.EventSlotBooked))
}

func TestReserve_DuplicateBookingMapsToConflict(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot)
	store.insertBookingErr = repository.ErrDuplicateBooking
	svc, _, _ := newTestService(store)

	_, err := svc.Reserve(context.Background(), validRequest())
	assert.ErrorIs(t, err, repository.ErrSlotTaken)
}

func TestReserve_BroadcastNeverPrecedesCommit(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot)
	svc, hub, _ := newTestService(store)

	// At the moment a slot_booked event is observed, a direct fetch must
	// already see the slot claimed.
	hub.probe = func(event models.SlotEvent) {
		if event.Type == models.EventSlotBooked {
			assert.True(t, store.slotBooked(event.ExpertID, event.Date, event.TimeSlot),
				"slot_booked announced before store reflects the claim")
		}
	}

	_, err := svc.Reserve(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, hub.byType(models.EventSlotBooked), 1)
}

func TestCancel_ReleasesSlotAndBroadcasts(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot)
	svc, hub, _ := newTestService(store)
	ctx := context.Background()

	booking, err := svc.Reserve(ctx, validRequest())
	require.NoError(t, err)

	cancelled, err := svc.Cancel(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	assert.False(t, store.slotBooked(testExpert, testDate, testSlot))

	freed := hub.byType(models.EventSlotFreed)
	require.Len(t, freed, 1)
	assert.Equal(t, testSlot, freed[0].TimeSlot)
}

func TestCancel_Idempotent(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot)
	svc, hub, _ := newTestService(store)
	ctx := context.Background()

	booking, err := svc.Reserve(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, booking.ID)
	require.NoError(t, err)

	again, err := svc.Cancel(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, again.Status)
	assert.False(t, store.slotBooked(testExpert, testDate, testSlot))
	assert.Len(t, hub.byType(models.EventSlotFreed), 1, "no duplicate slot_freed broadcast")
}

func TestCancel_NotFound(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	_, err := svc.Cancel(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrBookingNotFound)
}

func TestReserveAfterCancel_RoundTrip(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot)
	svc, _, _ := newTestService(store)
	ctx := context.Background()

	first, err := svc.Reserve(ctx, validRequest())
	require.NoError(t, err)

	// A second caller loses while the slot is held.
	other := validRequest()
	other.UserEmail = "grace@example.com"
	_, err = svc.Reserve(ctx, other)
	require.ErrorIs(t, err, repository.ErrSlotTaken)

	_, err = svc.Cancel(ctx, first.ID)
	require.NoError(t, err)

	// After release the same triple must be reservable again.
	second, err := svc.Reserve(ctx, other)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, second.Status)
	assert.True(t, store.slotBooked(testExpert, testDate, testSlot))
	assert.Equal(t, 1, store.activeBookings(testExpert, testDate, testSlot))
}

func TestUpdateStatus_StateMachine(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot)
	svc, _, scheduler := newTestService(store)
	ctx := context.Background()

	booking, err := svc.Reserve(ctx, validRequest())
	require.NoError(t, err)

	// pending -> completed skips confirmation and is rejected.
	_, err = svc.UpdateStatus(ctx, booking.ID, models.StatusCompleted)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	confirmed, err := svc.UpdateStatus(ctx, booking.ID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)
	assert.Equal(t, []string{booking.ID}, scheduler.scheduled)

	// Confirmation does not free the slot.
	assert.True(t, store.slotBooked(testExpert, testDate, testSlot))

	completed, err := svc.UpdateStatus(ctx, booking.ID, models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	// Completed is terminal.
	_, err = svc.UpdateStatus(ctx, booking.ID, models.StatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = svc.UpdateStatus(ctx, booking.ID, models.StatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_UnrecognizedValue(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot)
	svc, _, _ := newTestService(store)
	ctx := context.Background()

	booking, err := svc.Reserve(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, booking.ID, models.BookingStatus("archived"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// No mutation happened.
	current, err := svc.Bookings.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, current.Status)
}

func TestUpdateStatus_SchedulerFailureDoesNotFailRequest(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot)
	svc, _, scheduler := newTestService(store)
	scheduler.err = errors.New("queue unavailable")
	ctx := context.Background()

	booking, err := svc.Reserve(ctx, validRequest())
	require.NoError(t, err)

	confirmed, err := svc.UpdateStatus(ctx, booking.ID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)
}

func TestBookingsByEmail(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot, "09:30")
	svc, _, _ := newTestService(store)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, validRequest())
	require.NoError(t, err)

	t.Run("anonymous caller with email", func(t *testing.T) {
		bookings, err := svc.BookingsByEmail(ctx, "Ada@Example.com", nil)
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})

	t.Run("anonymous caller without email", func(t *testing.T) {
		_, err := svc.BookingsByEmail(ctx, "", nil)
		assert.ErrorIs(t, err, ErrEmailRequired)
	})

	t.Run("principal defaults to own email", func(t *testing.T) {
		principal := &models.Principal{ID: "u1", Email: "ada@example.com"}
		bookings, err := svc.BookingsByEmail(ctx, "", principal)
		require.NoError(t, err)
		assert.Len(t, bookings, 1)
	})

	t.Run("principal cannot read another identity", func(t *testing.T) {
		principal := &models.Principal{ID: "u2", Email: "grace@example.com"}
		_, err := svc.BookingsByEmail(ctx, "ada@example.com", principal)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

// TestScenario_ConcurrentViewersContendForOneSlot walks the end-to-end flow:
// A books, B conflicts, A's booking is cancelled, B retries and wins.
func TestScenario_ConcurrentViewersContendForOneSlot(t *testing.T) {
	store := newFakeStore()
	store.addExpert(testExpert, testDate, testSlot)
	svc, hub, _ := newTestService(store)
	ctx := context.Background()

	clientA := validRequest()
	clientB := validRequest()
	clientB.UserName = "Grace Hopper"
	clientB.UserEmail = "grace@example.com"

	bookingA, err := svc.Reserve(ctx, clientA)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, bookingA.Status)
	assert.True(t, store.slotBooked(testExpert, testDate, testSlot))

	_, err = svc.Reserve(ctx, clientB)
	require.ErrorIs(t, err, repository.ErrSlotTaken)

	_, err = svc.Cancel(ctx, bookingA.ID)
	require.NoError(t, err)
	freed := hub.byType(models.EventSlotFreed)
	require.Len(t, freed, 1)
	assert.Equal(t, models.SlotEvent{
		Type: models.EventSlotFreed, ExpertID: testExpert, Date: testDate, TimeSlot: testSlot,
	}, freed[0])

	bookingB, err := svc.Reserve(ctx, clientB)
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", bookingB.UserEmail)
	assert.Equal(t, 1, store.activeBookings(testExpert, testDate, testSlot))
}
