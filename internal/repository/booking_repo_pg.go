package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahanw/travelbooking/internal/domain"
)

// CapacityMove is the ledger side effect a status change carries.
type CapacityMove int

const (
	MoveNone CapacityMove = iota
	// MoveRelease returns the booking's units to the resource's free capacity.
	MoveRelease
	// MoveCommit re-consumes the booking's units, subject to availability.
	MoveCommit
)

type BookingRepository interface {
	// CreateConfirmed commits capacity and inserts the booking (and its
	// passengers) in a single transaction. Either both happen or neither.
	CreateConfirmed(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListForCustomer(ctx context.Context, customerID int64, kind domain.ResourceKind) ([]domain.Booking, error)
	ListAll(ctx context.Context, kind domain.ResourceKind) ([]domain.Booking, error)
	// CancelAndRelease cancels a booking still holding capacity and returns
	// its units to the resource, atomically. Any other current status fails
	// with domain.ErrInvalidTransition.
	CancelAndRelease(ctx context.Context, id int64) (*domain.Booking, error)
	// SetStatus moves a booking from the observed status to a new one,
	// applying the given ledger move in the same transaction. A concurrent
	// status change fails with domain.ErrInvalidTransition; an unavailable
	// MoveCommit fails with domain.ErrNotEnoughCapacity.
	SetStatus(ctx context.Context, id int64, from, to domain.BookingStatus, move CapacityMove) (*domain.Booking, error)
	// Delete removes the booking and its passengers, releasing its units
	// first when the current status still consumes capacity.
	Delete(ctx context.Context, id int64) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `b.id, b.reference, b.kind, b.customer_id, b.resource_id, r.name,
	b.units, b.unit_price_cents, b.total_price_cents, b.status,
	b.contact_email, b.contact_phone, b.created_at, b.updated_at`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.Reference, &b.Kind, &b.CustomerID, &b.ResourceID, &b.ResourceName,
		&b.Units, &b.UnitPriceCents, &b.TotalPriceCents, &b.Status,
		&b.ContactEmail, &b.ContactPhone, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) CreateConfirmed(ctx context.Context, booking *domain.Booking) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// Conditional update is the capacity check: zero rows means the resource
	// is either missing or full. Never read-then-write.
	var unitPrice int64
	var name string
	err = tx.QueryRow(ctx, `UPDATE resources
		SET capacity_used = capacity_used + $2, updated_at = now()
		WHERE id = $1 AND kind = $3 AND capacity_used + $2 <= capacity_total
		RETURNING unit_price_cents, name`,
		booking.ResourceID, booking.Units, booking.Kind).Scan(&unitPrice, &name)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM resources WHERE id = $1 AND kind = $2)`,
			booking.ResourceID, booking.Kind).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrNotEnoughCapacity
	}
	if err != nil {
		return err
	}

	booking.Status = domain.BookingStatusConfirmed
	booking.ResourceName = name
	booking.UnitPriceCents = unitPrice
	booking.TotalPriceCents = unitPrice * int64(booking.Units)

	if err := tx.QueryRow(ctx, `INSERT INTO bookings
		(reference, kind, customer_id, resource_id, units, unit_price_cents, total_price_cents, status, contact_email, contact_phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`,
		booking.Reference, booking.Kind, booking.CustomerID, booking.ResourceID, booking.Units,
		booking.UnitPriceCents, booking.TotalPriceCents, booking.Status,
		booking.ContactEmail, booking.ContactPhone).
		Scan(&booking.ID, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		return err
	}

	for i := range booking.Passengers {
		p := &booking.Passengers[i]
		p.BookingID = booking.ID
		if err := tx.QueryRow(ctx, `INSERT INTO passengers
			(booking_id, first_name, surname, age_category, nationality, gender, date_of_birth, passport_number, passport_expiry, no_expiration)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`,
			p.BookingID, p.FirstName, p.Surname, p.AgeCategory, p.Nationality, p.Gender,
			p.DateOfBirth, p.PassportNumber, p.PassportExpiry, p.NoExpiration).Scan(&p.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+`
		FROM bookings b JOIN resources r ON r.id = b.resource_id WHERE b.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.Kind == domain.ResourceKindFlight {
		if b.Passengers, err = r.passengers(ctx, b.ID); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (r *PGBookingRepository) passengers(ctx context.Context, bookingID int64) ([]domain.Passenger, error) {
	rows, err := r.db.Query(ctx, `SELECT id, booking_id, first_name, surname, age_category, nationality, gender,
		date_of_birth, passport_number, passport_expiry, no_expiration
		FROM passengers WHERE booking_id = $1 ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var passengers []domain.Passenger
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.FirstName, &p.Surname, &p.AgeCategory, &p.Nationality,
			&p.Gender, &p.DateOfBirth, &p.PassportNumber, &p.PassportExpiry, &p.NoExpiration); err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}

func (r *PGBookingRepository) ListForCustomer(ctx context.Context, customerID int64, kind domain.ResourceKind) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+`
		FROM bookings b JOIN resources r ON r.id = b.resource_id
		WHERE b.customer_id = $1 AND ($2 = '' OR b.kind = $2)
		ORDER BY b.created_at DESC`, customerID, string(kind))
}

func (r *PGBookingRepository) ListAll(ctx context.Context, kind domain.ResourceKind) ([]domain.Booking, error) {
	return r.list(ctx, `SELECT `+bookingColumns+`
		FROM bookings b JOIN resources r ON r.id = b.resource_id
		WHERE ($1 = '' OR b.kind = $1)
		ORDER BY b.created_at DESC`, string(kind))
}

func (r *PGBookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *PGBookingRepository) lockBooking(ctx context.Context, tx pgx.Tx, id int64) (*domain.Booking, error) {
	b, err := scanBooking(tx.QueryRow(ctx, `SELECT `+bookingColumns+`
		FROM bookings b JOIN resources r ON r.id = b.resource_id
		WHERE b.id = $1 FOR UPDATE OF b`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return b, err
}

func (r *PGBookingRepository) CancelAndRelease(ctx context.Context, id int64) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	b, err := r.lockBooking(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.Consuming() {
		return nil, domain.ErrInvalidTransition
	}

	if err := tx.QueryRow(ctx, `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1 RETURNING updated_at`,
		id, domain.BookingStatusCancelled).Scan(&b.UpdatedAt); err != nil {
		return nil, err
	}
	if err := releaseCapacity(ctx, tx, b.ResourceID, b.Units); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	b.Status = domain.BookingStatusCancelled
	return b, nil
}

func (r *PGBookingRepository) SetStatus(ctx context.Context, id int64, from, to domain.BookingStatus, move CapacityMove) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	b, err := r.lockBooking(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != from {
		return nil, domain.ErrInvalidTransition
	}

	switch move {
	case MoveRelease:
		if err := releaseCapacity(ctx, tx, b.ResourceID, b.Units); err != nil {
			return nil, err
		}
	case MoveCommit:
		res, err := tx.Exec(ctx, `UPDATE resources
			SET capacity_used = capacity_used + $2, updated_at = now()
			WHERE id = $1 AND capacity_used + $2 <= capacity_total`, b.ResourceID, b.Units)
		if err != nil {
			return nil, err
		}
		if res.RowsAffected() == 0 {
			return nil, domain.ErrNotEnoughCapacity
		}
	}

	if err := tx.QueryRow(ctx, `UPDATE bookings SET status = $2, updated_at = now() WHERE id = $1 RETURNING updated_at`,
		id, to).Scan(&b.UpdatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	b.Status = to
	return b, nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	b, err := r.lockBooking(ctx, tx, id)
	if err != nil {
		return err
	}
	if b.Status.Consuming() {
		if err := releaseCapacity(ctx, tx, b.ResourceID, b.Units); err != nil {
			return err
		}
	}

	// Passenger rows go with the booking via ON DELETE CASCADE.
	if _, err := tx.Exec(ctx, `DELETE FROM bookings WHERE id = $1`, id); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// releaseCapacity clamps at zero; exactly-once release per booking is
// the caller's rule.
func releaseCapacity(ctx context.Context, tx pgx.Tx, resourceID int64, units int) error {
	_, err := tx.Exec(ctx, `UPDATE resources
		SET capacity_used = GREATEST(capacity_used - $2, 0), updated_at = now()
		WHERE id = $1`, resourceID, units)
	return err
}

var _ BookingRepository = (*PGBookingRepository)(nil)
