package reservation

import (
	"context"
	"sort"
	"sync"

	"meetio/database/repository"
	expertRepo "meetio/database/repository/expert"
	"meetio/models"
)

// The fakes below simulate the mongo store's atomicity so the reservation
// protocol can be exercised without a database: the txn runner serializes
// units of work on one mutex, snapshots state before running the body and
// restores the snapshot when the body fails.

type txnKeyType struct{}

var txnKey txnKeyType

type fakeStore struct {
	mu       sync.Mutex
	experts  map[string]*models.Expert
	bookings map[string]*models.Booking

	insertBookingErr error // failure injection for atomicity tests
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		experts:  make(map[string]*models.Expert),
		bookings: make(map[string]*models.Booking),
	}
}

func (s *fakeStore) addExpert(id, date string, times ...string) {
	slots := make([]models.Slot, 0, len(times))
	for _, t := range times {
		slots = append(slots, models.Slot{Time: t})
	}
	s.experts[id] = &models.Expert{
		ID:           id,
		Name:         "Expert " + id,
		Availability: []models.AvailabilityDay{{Date: date, Slots: slots}},
	}
}

// lock acquires the store mutex unless the context already runs inside a
// transaction, mirroring how session contexts join an open mongo txn.
func (s *fakeStore) lock(ctx context.Context) func() {
	if ctx.Value(txnKey) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *fakeStore) snapshot() (map[string]*models.Expert, map[string]*models.Booking) {
	experts := make(map[string]*models.Expert, len(s.experts))
	for id, e := range s.experts {
		clone := *e
		clone.Availability = make([]models.AvailabilityDay, len(e.Availability))
		for i, day := range e.Availability {
			clone.Availability[i] = models.AvailabilityDay{
				Date:  day.Date,
				Slots: append([]models.Slot(nil), day.Slots...),
			}
		}
		experts[id] = &clone
	}
	bookings := make(map[string]*models.Booking, len(s.bookings))
	for id, b := range s.bookings {
		clone := *b
		bookings[id] = &clone
	}
	return experts, bookings
}

func (s *fakeStore) slot(expertID, date, timeSlot string) *models.Slot {
	expert, ok := s.experts[expertID]
	if !ok {
		return nil
	}
	day := expert.Day(date)
	if day == nil {
		return nil
	}
	return day.Slot(timeSlot)
}

// slotBooked reads current slot state the way a direct fetch would.
func (s *fakeStore) slotBooked(expertID, date, timeSlot string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := s.slot(expertID, date, timeSlot)
	return slot != nil && slot.IsBooked
}

func (s *fakeStore) activeBookings(expertID, date, timeSlot string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.bookings {
		if b.ExpertID == expertID && b.Date == date && b.TimeSlot == timeSlot &&
			b.Status != models.StatusCancelled {
			n++
		}
	}
	return n
}

type fakeTxnRunner struct {
	store *fakeStore
}

func (r *fakeTxnRunner) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	experts, bookings := r.store.snapshot()
	if err := fn(context.WithValue(ctx, txnKey, true)); err != nil {
		r.store.experts = experts
		r.store.bookings = bookings
		return err
	}
	return nil
}

type fakeExpertRepo struct {
	store *fakeStore
}

func (r *fakeExpertRepo) FindByID(ctx context.Context, id string) (*models.Expert, error) {
	defer r.store.lock(ctx)()
	expert, ok := r.store.experts[id]
	if !ok {
		return nil, repository.ErrExpertNotFound
	}
	clone := *expert
	return &clone, nil
}

func (r *fakeExpertRepo) List(ctx context.Context, q expertRepo.ListQuery) ([]models.Expert, int64, error) {
	return nil, 0, nil
}

func (r *fakeExpertRepo) Categories(ctx context.Context) ([]string, error) { return nil, nil }
func (r *fakeExpertRepo) Count(ctx context.Context) (int64, error)         { return 0, nil }
func (r *fakeExpertRepo) InsertMany(ctx context.Context, experts []models.Expert) error {
	return nil
}

func (r *fakeExpertRepo) ClaimSlot(ctx context.Context, expertID, date, timeSlot string) error {
	defer r.store.lock(ctx)()
	expert, ok := r.store.experts[expertID]
	if !ok {
		return repository.ErrExpertNotFound
	}
	day := expert.Day(date)
	if day == nil {
		return repository.ErrDateUnavailable
	}
	slot := day.Slot(timeSlot)
	if slot == nil {
		return repository.ErrSlotNotFound
	}
	if slot.IsBooked {
		return repository.ErrSlotTaken
	}
	slot.IsBooked = true
	return nil
}

func (r *fakeExpertRepo) ReleaseSlot(ctx context.Context, expertID, date, timeSlot string) error {
	defer r.store.lock(ctx)()
	if slot := r.store.slot(expertID, date, timeSlot); slot != nil {
		slot.IsBooked = false
	}
	return nil
}

type fakeBookingRepo struct {
	store *fakeStore
}

func (r *fakeBookingRepo) Insert(ctx context.Context, booking *models.Booking) error {
	defer r.store.lock(ctx)()
	if r.store.insertBookingErr != nil {
		return r.store.insertBookingErr
	}
	for _, b := range r.store.bookings {
		if b.ExpertID == booking.ExpertID && b.Date == booking.Date &&
			b.TimeSlot == booking.TimeSlot && b.Status != models.StatusCancelled {
			return repository.ErrDuplicateBooking
		}
	}
	clone := *booking
	r.store.bookings[booking.ID] = &clone
	return nil
}

func (r *fakeBookingRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	defer r.store.lock(ctx)()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) (*models.Booking, error) {
	defer r.store.lock(ctx)()
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	b.Status = status
	clone := *b
	return &clone, nil
}

func (r *fakeBookingRepo) FindByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	defer r.store.lock(ctx)()
	var out []models.Booking
	for _, b := range r.store.bookings {
		if b.UserEmail == email {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// fakeHub records broadcasts and optionally runs a probe at broadcast time,
// used to assert announce-after-commit ordering.
type fakeHub struct {
	mu     sync.Mutex
	events []models.SlotEvent
	probe  func(models.SlotEvent)
}

func (h *fakeHub) Broadcast(expertID string, event models.SlotEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	if h.probe != nil {
		h.probe(event)
	}
}

func (h *fakeHub) byType(eventType string) []models.SlotEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []models.SlotEvent
	for _, e := range h.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fakeScheduler struct {
	mu        sync.Mutex
	scheduled []string
	err       error
}

func (s *fakeScheduler) ScheduleCompletion(booking *models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.scheduled = append(s.scheduled, booking.ID)
	return nil
}
