package domain

import "time"

type AgeCategory string

const (
	AgeCategoryAdult  AgeCategory = "ADULT"
	AgeCategoryChild  AgeCategory = "CHILD"
	AgeCategoryInfant AgeCategory = "INFANT"
)

func (c AgeCategory) Valid() bool {
	return c == AgeCategoryAdult || c == AgeCategoryChild || c == AgeCategoryInfant
}

// Passenger belongs to exactly one flight booking. Rows are inserted in the
// same transaction as the booking and cascade-deleted with it; they have no
// independent lifecycle.
type Passenger struct {
	ID             int64
	BookingID      int64
	FirstName      string
	Surname        string
	AgeCategory    AgeCategory
	Nationality    string
	Gender         string
	DateOfBirth    *time.Time
	PassportNumber string
	PassportExpiry *time.Time
	NoExpiration   bool
}
