package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InitSchema creates the tables on startup if they do not exist yet.
func InitSchema(ctx context.Context, db *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS resources (
			id BIGSERIAL PRIMARY KEY,
			kind TEXT NOT NULL,
			name TEXT NOT NULL,
			origin TEXT NOT NULL DEFAULT '',
			destination TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			starts_at TIMESTAMPTZ NOT NULL,
			ends_at TIMESTAMPTZ NOT NULL,
			unit_price_cents BIGINT NOT NULL,
			capacity_total INT NOT NULL,
			capacity_used INT NOT NULL DEFAULT 0,
			image_url TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CHECK (capacity_used >= 0),
			CHECK (capacity_used <= capacity_total)
		)`,
		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGSERIAL PRIMARY KEY,
			reference TEXT NOT NULL UNIQUE,
			kind TEXT NOT NULL,
			customer_id BIGINT NOT NULL,
			resource_id BIGINT NOT NULL REFERENCES resources (id),
			units INT NOT NULL CHECK (units >= 1),
			unit_price_cents BIGINT NOT NULL,
			total_price_cents BIGINT NOT NULL,
			status TEXT NOT NULL,
			contact_email TEXT NOT NULL DEFAULT '',
			contact_phone TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS passengers (
			id BIGSERIAL PRIMARY KEY,
			booking_id BIGINT NOT NULL REFERENCES bookings (id) ON DELETE CASCADE,
			first_name TEXT NOT NULL,
			surname TEXT NOT NULL,
			age_category TEXT NOT NULL DEFAULT 'ADULT',
			nationality TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT '',
			date_of_birth DATE,
			passport_number TEXT NOT NULL DEFAULT '',
			passport_expiry DATE,
			no_expiration BOOLEAN NOT NULL DEFAULT false
		)`,
		`CREATE INDEX IF NOT EXISTS bookings_customer_idx ON bookings (customer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS bookings_resource_idx ON bookings (resource_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
