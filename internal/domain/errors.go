package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced resource or booking does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotEnoughCapacity is a business rejection on create or reactivation;
	// nothing is persisted when it is returned.
	ErrNotEnoughCapacity = errors.New("not enough capacity")

	// ErrInvalidTransition is returned for a status change not permitted from
	// the booking's current status. Cancelling an already cancelled booking is
	// an error, not a no-op.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrForbidden is returned when the caller lacks ownership or role for the
	// requested operation.
	ErrForbidden = errors.New("forbidden")

	// ErrResourceInUse is returned when deleting a resource that bookings
	// still reference.
	ErrResourceInUse = errors.New("resource has bookings")

	// ErrInvalidInput is wrapped around request validation failures.
	ErrInvalidInput = errors.New("invalid input")
)
