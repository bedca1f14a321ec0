package booking

import "github.com/sahanw/travelbooking/internal/domain"

// Access rules for lifecycle operations. Creation is always on the caller's
// own behalf; there is no on-behalf-of creation for customers.

// canCancel allows the owning customer or an admin.
func canCancel(actor domain.Principal, b *domain.Booking) bool {
	return actor.Admin || actor.Owns(b)
}

// canView mirrors canCancel: a customer sees only their own bookings.
func canView(actor domain.Principal, b *domain.Booking) bool {
	return actor.Admin || actor.Owns(b)
}

// canAdminister gates set-status and delete.
func canAdminister(actor domain.Principal) bool {
	return actor.Admin
}
