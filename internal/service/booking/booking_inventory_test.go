package booking

import (
	"context"
	"sync"
	"testing"

	"github.com/sahanw/travelbooking/internal/domain"
	"github.com/sahanw/travelbooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory BookingRepository with the same conditional
// commit semantics as the Postgres implementation. It backs the capacity
// invariant tests, which exercise the engine under real interleaving.
type memStore struct {
	mu       sync.Mutex
	resource *domain.Resource
	bookings map[int64]*domain.Booking
	nextID   int64
}

func newMemStore(capacityTotal int, unitPriceCents int64) *memStore {
	return &memStore{
		resource: &domain.Resource{
			ID:             1,
			Kind:           domain.ResourceKindTour,
			Name:           "Sigiriya Rock Tour",
			UnitPriceCents: unitPriceCents,
			CapacityTotal:  capacityTotal,
		},
		bookings: make(map[int64]*domain.Booking),
	}
}

func (s *memStore) CreateConfirmed(ctx context.Context, b *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resource.ID != b.ResourceID || s.resource.Kind != b.Kind {
		return domain.ErrNotFound
	}
	if s.resource.CapacityUsed+b.Units > s.resource.CapacityTotal {
		return domain.ErrNotEnoughCapacity
	}
	s.resource.CapacityUsed += b.Units

	s.nextID++
	b.ID = s.nextID
	b.Status = domain.BookingStatusConfirmed
	b.ResourceName = s.resource.Name
	b.UnitPriceCents = s.resource.UnitPriceCents
	b.TotalPriceCents = s.resource.UnitPriceCents * int64(b.Units)

	clone := *b
	s.bookings[b.ID] = &clone
	return nil
}

func (s *memStore) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (s *memStore) ListForCustomer(ctx context.Context, customerID int64, kind domain.ResourceKind) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Booking
	for _, b := range s.bookings {
		if b.CustomerID == customerID && (kind == "" || b.Kind == kind) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) ListAll(ctx context.Context, kind domain.ResourceKind) ([]domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Booking
	for _, b := range s.bookings {
		if kind == "" || b.Kind == kind {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memStore) CancelAndRelease(ctx context.Context, id int64) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !b.Status.Consuming() {
		return nil, domain.ErrInvalidTransition
	}
	b.Status = domain.BookingStatusCancelled
	s.release(b.Units)

	clone := *b
	return &clone, nil
}

func (s *memStore) SetStatus(ctx context.Context, id int64, from, to domain.BookingStatus, move repository.CapacityMove) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if b.Status != from {
		return nil, domain.ErrInvalidTransition
	}

	switch move {
	case repository.MoveRelease:
		s.release(b.Units)
	case repository.MoveCommit:
		if s.resource.CapacityUsed+b.Units > s.resource.CapacityTotal {
			return nil, domain.ErrNotEnoughCapacity
		}
		s.resource.CapacityUsed += b.Units
	}

	b.Status = to
	clone := *b
	return &clone, nil
}

func (s *memStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return domain.ErrNotFound
	}
	if b.Status.Consuming() {
		s.release(b.Units)
	}
	delete(s.bookings, id)
	return nil
}

func (s *memStore) release(units int) {
	s.resource.CapacityUsed -= units
	if s.resource.CapacityUsed < 0 {
		s.resource.CapacityUsed = 0
	}
}

func (s *memStore) capacityUsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resource.CapacityUsed
}

type nopProducer struct{}

func (nopProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	return nil
}

var _ repository.BookingRepository = (*memStore)(nil)

func tourInput(units int) CreateBookingInput {
	return CreateBookingInput{ResourceID: 1, Kind: domain.ResourceKindTour, Units: units}
}

func TestInventory_ConcurrentCreatesNeverOverbook(t *testing.T) {
	store := newMemStore(10, 10000)
	service := NewBookingService(store, nopProducer{}, "booking-events")
	ctx := context.Background()

	const attempts = 20
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.CreateBooking(ctx, customer, tourInput(1))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, domain.ErrNotEnoughCapacity)
		}
	}

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 10, store.capacityUsed())
}

func TestInventory_ExactRemainingCapacityWinsOnce(t *testing.T) {
	store := newMemStore(5, 10000)
	service := NewBookingService(store, nopProducer{}, "booking-events")
	ctx := context.Background()

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.CreateBooking(ctx, customer, tourInput(5))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var errs []error
	for err := range results {
		errs = append(errs, err)
	}

	if errs[0] == nil {
		assert.ErrorIs(t, errs[1], domain.ErrNotEnoughCapacity)
	} else {
		assert.ErrorIs(t, errs[0], domain.ErrNotEnoughCapacity)
		assert.NoError(t, errs[1])
	}
	assert.Equal(t, 5, store.capacityUsed())
}

func TestInventory_CancelRestoresExactlyOnce(t *testing.T) {
	store := newMemStore(5, 10000)
	service := NewBookingService(store, nopProducer{}, "booking-events")
	ctx := context.Background()

	created, err := service.CreateBooking(ctx, customer, tourInput(3))
	require.NoError(t, err)
	require.Equal(t, 3, store.capacityUsed())

	_, err = service.CancelBooking(ctx, customer, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, store.capacityUsed())

	_, err = service.CancelBooking(ctx, customer, created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 0, store.capacityUsed())
}

func TestInventory_DeleteReleasesHeldCapacity(t *testing.T) {
	store := newMemStore(5, 10000)
	service := NewBookingService(store, nopProducer{}, "booking-events")
	ctx := context.Background()

	confirmed, err := service.CreateBooking(ctx, customer, tourInput(2))
	require.NoError(t, err)
	toCancel, err := service.CreateBooking(ctx, customer, tourInput(2))
	require.NoError(t, err)
	require.Equal(t, 4, store.capacityUsed())

	// Deleting a confirmed booking must release its units before removal.
	require.NoError(t, service.DeleteBooking(ctx, admin, confirmed.ID))
	assert.Equal(t, 2, store.capacityUsed())

	// Deleting a cancelled booking touches no capacity.
	_, err = service.CancelBooking(ctx, customer, toCancel.ID)
	require.NoError(t, err)
	require.Equal(t, 0, store.capacityUsed())
	require.NoError(t, service.DeleteBooking(ctx, admin, toCancel.ID))
	assert.Equal(t, 0, store.capacityUsed())
}

func TestInventory_ReactivationRespectsCapacity(t *testing.T) {
	store := newMemStore(5, 10000)
	service := NewBookingService(store, nopProducer{}, "booking-events")
	ctx := context.Background()

	bookingA, err := service.CreateBooking(ctx, customer, tourInput(3))
	require.NoError(t, err)
	_, err = service.CancelBooking(ctx, customer, bookingA.ID)
	require.NoError(t, err)

	// Someone else takes the freed seats.
	_, err = service.CreateBooking(ctx, stranger, tourInput(4))
	require.NoError(t, err)

	// Flipping A back to an active status must not overbook.
	_, err = service.SetBookingStatus(ctx, admin, bookingA.ID, domain.BookingStatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrNotEnoughCapacity)
	assert.Equal(t, 4, store.capacityUsed())
}

func TestInventory_EndToEndScenario(t *testing.T) {
	store := newMemStore(5, 10000)
	service := NewBookingService(store, nopProducer{}, "booking-events")
	ctx := context.Background()

	bookingA, err := service.CreateBooking(ctx, customer, tourInput(3))
	require.NoError(t, err)
	assert.Equal(t, int64(30000), bookingA.TotalPriceCents)
	assert.Equal(t, 3, store.capacityUsed())

	_, err = service.CreateBooking(ctx, stranger, tourInput(3))
	assert.ErrorIs(t, err, domain.ErrNotEnoughCapacity)
	assert.Equal(t, 3, store.capacityUsed())

	_, err = service.CancelBooking(ctx, customer, bookingA.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, store.capacityUsed())

	bookingB, err := service.CreateBooking(ctx, stranger, tourInput(3))
	require.NoError(t, err)
	assert.Equal(t, 3, store.capacityUsed())
	assert.Equal(t, int64(30000), bookingB.TotalPriceCents)
}
