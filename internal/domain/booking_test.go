package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_Consuming(t *testing.T) {
	assert.True(t, BookingStatusPending.Consuming())
	assert.True(t, BookingStatusConfirmed.Consuming())
	assert.False(t, BookingStatusCompleted.Consuming())
	assert.False(t, BookingStatusCancelled.Consuming())
}

func TestStatusValidFor(t *testing.T) {
	testCases := []struct {
		name   string
		kind   ResourceKind
		status BookingStatus
		valid  bool
	}{
		{"tour pending", ResourceKindTour, BookingStatusPending, true},
		{"tour confirmed", ResourceKindTour, BookingStatusConfirmed, true},
		{"tour completed", ResourceKindTour, BookingStatusCompleted, true},
		{"tour cancelled", ResourceKindTour, BookingStatusCancelled, true},
		{"flight confirmed", ResourceKindFlight, BookingStatusConfirmed, true},
		{"flight cancelled", ResourceKindFlight, BookingStatusCancelled, true},
		{"flight pending", ResourceKindFlight, BookingStatusPending, false},
		{"flight completed", ResourceKindFlight, BookingStatusCompleted, false},
		{"unknown kind", ResourceKind("HOTEL"), BookingStatusConfirmed, false},
		{"unknown status", ResourceKindTour, BookingStatus("EXPIRED"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, StatusValidFor(tc.kind, tc.status))
		})
	}
}

func TestPrincipal_Owns(t *testing.T) {
	b := &Booking{CustomerID: 7}
	assert.True(t, Principal{CustomerID: 7}.Owns(b))
	assert.False(t, Principal{CustomerID: 8}.Owns(b))
	assert.False(t, Principal{CustomerID: 7}.Owns(nil))
}
