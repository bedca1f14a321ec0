package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sahanw/travelbooking/internal/domain"
	"github.com/sahanw/travelbooking/internal/kafka"
	"github.com/sahanw/travelbooking/internal/repository"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, actor domain.Principal, input CreateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, actor domain.Principal, id int64) (*domain.Booking, error)
	SetBookingStatus(ctx context.Context, actor domain.Principal, id int64, status domain.BookingStatus) (*domain.Booking, error)
	DeleteBooking(ctx context.Context, actor domain.Principal, id int64) error
	GetBooking(ctx context.Context, actor domain.Principal, id int64) (*domain.Booking, error)
	ListBookings(ctx context.Context, actor domain.Principal, kind domain.ResourceKind) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// BookingService is the lifecycle engine: it enforces access and transition
// rules and delegates every capacity-touching write to a single repository
// transaction. Event publishing happens after commit and is best effort.
type BookingService struct {
	bookings           repository.BookingRepository
	producer           Producer
	eventsTopic        string
	notificationsTopic string
	logger             *slog.Logger
}

type PassengerInput struct {
	FirstName      string
	Surname        string
	AgeCategory    domain.AgeCategory
	Nationality    string
	Gender         string
	DateOfBirth    *time.Time
	PassportNumber string
	PassportExpiry *time.Time
	NoExpiration   bool
}

type CreateBookingInput struct {
	ResourceID   int64
	Kind         domain.ResourceKind
	Units        int
	ContactEmail string
	ContactPhone string
	Passengers   []PassengerInput
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(logger *slog.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.logger = logger
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	producer Producer,
	eventsTopic string,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:    bookings,
		producer:    producer,
		eventsTopic: eventsTopic,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, actor domain.Principal, input CreateBookingInput) (*domain.Booking, error) {
	if !input.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown booking kind %q", domain.ErrInvalidInput, input.Kind)
	}

	units := input.Units
	if input.Kind == domain.ResourceKindFlight {
		if len(input.Passengers) == 0 {
			return nil, fmt.Errorf("%w: at least one passenger is required", domain.ErrInvalidInput)
		}
		units = len(input.Passengers)
	}
	if units < 1 {
		return nil, fmt.Errorf("%w: units must be positive", domain.ErrInvalidInput)
	}

	email := input.ContactEmail
	if email == "" {
		email = actor.Email
	}

	booking := &domain.Booking{
		Reference:    uuid.NewString(),
		Kind:         input.Kind,
		CustomerID:   actor.CustomerID,
		ResourceID:   input.ResourceID,
		Units:        units,
		ContactEmail: email,
		ContactPhone: input.ContactPhone,
	}
	if input.Kind == domain.ResourceKindFlight {
		booking.Passengers = make([]domain.Passenger, 0, len(input.Passengers))
		for _, p := range input.Passengers {
			if p.FirstName == "" || p.Surname == "" {
				return nil, fmt.Errorf("%w: passenger name is required", domain.ErrInvalidInput)
			}
			category := p.AgeCategory
			if category == "" {
				category = domain.AgeCategoryAdult
			}
			if !category.Valid() {
				return nil, fmt.Errorf("%w: unknown age category %q", domain.ErrInvalidInput, p.AgeCategory)
			}
			booking.Passengers = append(booking.Passengers, domain.Passenger{
				FirstName:      p.FirstName,
				Surname:        p.Surname,
				AgeCategory:    category,
				Nationality:    p.Nationality,
				Gender:         p.Gender,
				DateOfBirth:    p.DateOfBirth,
				PassportNumber: p.PassportNumber,
				PassportExpiry: p.PassportExpiry,
				NoExpiration:   p.NoExpiration,
			})
		}
	}

	if err := s.bookings.CreateConfirmed(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, actor domain.Principal, id int64) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canCancel(actor, current) {
		return nil, domain.ErrForbidden
	}
	// Cancellation is not idempotent: re-cancelling a cancelled booking is
	// an error, as is cancelling a completed one.
	if !current.Status.Consuming() {
		return nil, domain.ErrInvalidTransition
	}

	updated, err := s.bookings.CancelAndRelease(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingCancelled, updated)
	return updated, nil
}

func (s *BookingService) SetBookingStatus(ctx context.Context, actor domain.Principal, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	if !canAdminister(actor) {
		return nil, domain.ErrForbidden
	}

	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.StatusValidFor(current.Kind, status) {
		return nil, domain.ErrInvalidTransition
	}

	// Entering CANCELLED releases the units exactly once; leaving it
	// re-commits them, and the commit may fail on a now-full resource.
	move := repository.MoveNone
	switch {
	case status == domain.BookingStatusCancelled && current.Status != domain.BookingStatusCancelled:
		move = repository.MoveRelease
	case current.Status == domain.BookingStatusCancelled && status != domain.BookingStatusCancelled:
		move = repository.MoveCommit
	}

	updated, err := s.bookings.SetStatus(ctx, id, current.Status, status, move)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, kafka.EventBookingStatusChanged, updated)
	return updated, nil
}

func (s *BookingService) DeleteBooking(ctx context.Context, actor domain.Principal, id int64) error {
	if !canAdminister(actor) {
		return domain.ErrForbidden
	}
	return s.bookings.Delete(ctx, id)
}

func (s *BookingService) GetBooking(ctx context.Context, actor domain.Principal, id int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, booking) {
		return nil, domain.ErrForbidden
	}
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, actor domain.Principal, kind domain.ResourceKind) ([]domain.Booking, error) {
	if actor.Admin {
		return s.bookings.ListAll(ctx, kind)
	}
	return s.bookings.ListForCustomer(ctx, actor.CustomerID, kind)
}

// publish never fails the lifecycle operation that triggered it; the booking
// has already committed.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.eventsTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:            eventType,
		BookingID:       booking.ID,
		Reference:       booking.Reference,
		Kind:            booking.Kind,
		CustomerID:      booking.CustomerID,
		Email:           booking.ContactEmail,
		ResourceID:      booking.ResourceID,
		ResourceName:    booking.ResourceName,
		Units:           booking.Units,
		TotalPriceCents: booking.TotalPriceCents,
		Status:          string(booking.Status),
		OccurredAt:      time.Now(),
	}
	if err := s.producer.Publish(ctx, s.eventsTopic, booking.Reference, event); err != nil {
		s.logger.Warn("failed to publish booking event",
			"type", eventType, "booking_id", booking.ID, "error", err)
	}
	if s.notificationsTopic != "" {
		if err := s.producer.Publish(ctx, s.notificationsTopic, booking.Reference, event); err != nil {
			s.logger.Warn("failed to publish notification event",
				"type", eventType, "booking_id", booking.ID, "error", err)
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
