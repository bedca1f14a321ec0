package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Consuming reports whether a booking in this status holds capacity on its
// resource. Completed bookings keep their seats consumed.
func (s BookingStatus) Consuming() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// StatusValidFor reports whether a status belongs to the status set of the
// given resource kind. Flight bookings are created confirmed and only ever
// move to cancelled; tour bookings use the full set.
func StatusValidFor(kind ResourceKind, s BookingStatus) bool {
	switch kind {
	case ResourceKindFlight:
		return s == BookingStatusConfirmed || s == BookingStatusCancelled
	case ResourceKindTour:
		return s == BookingStatusPending || s == BookingStatusConfirmed ||
			s == BookingStatusCompleted || s == BookingStatusCancelled
	}
	return false
}

// Booking is a customer's reservation of Units seats on a resource.
// UnitPriceCents is snapshotted at creation time; later price changes on the
// resource never alter an existing booking. Units never changes after
// creation; only Status and the resource's ledger counter move.
type Booking struct {
	ID              int64
	Reference       string
	Kind            ResourceKind
	CustomerID      int64
	ResourceID      int64
	ResourceName    string
	Units           int
	UnitPriceCents  int64
	TotalPriceCents int64
	Status          BookingStatus
	ContactEmail    string
	ContactPhone    string
	Passengers      []Passenger
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
