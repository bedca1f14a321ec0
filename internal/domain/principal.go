package domain

// Principal is the authenticated caller of a lifecycle operation.
type Principal struct {
	CustomerID int64
	Email      string
	Admin      bool
}

func (p Principal) Owns(b *Booking) bool {
	return b != nil && b.CustomerID == p.CustomerID
}
