package domain

import "time"

type ResourceKind string

const (
	ResourceKindTour   ResourceKind = "TOUR"
	ResourceKindFlight ResourceKind = "FLIGHT"
)

func (k ResourceKind) Valid() bool {
	return k == ResourceKindTour || k == ResourceKindFlight
}

// Resource is a bookable inventory item: a tour package or a flight.
// CapacityUsed is the authoritative ledger counter and is only ever
// mutated through the booking repository's transactional operations.
type Resource struct {
	ID             int64
	Kind           ResourceKind
	Name           string
	Origin         string
	Destination    string
	Description    string
	StartsAt       time.Time
	EndsAt         time.Time
	UnitPriceCents int64
	CapacityTotal  int
	CapacityUsed   int
	ImageURL       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r *Resource) Available() int {
	return r.CapacityTotal - r.CapacityUsed
}
