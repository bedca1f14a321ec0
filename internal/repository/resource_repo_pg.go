package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sahanw/travelbooking/internal/domain"
)

type ResourceRepository interface {
	List(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error)
	GetByID(ctx context.Context, id int64) (*domain.Resource, error)
	Create(ctx context.Context, res *domain.Resource) error
	Update(ctx context.Context, res *domain.Resource) error
	// Delete refuses with domain.ErrResourceInUse while any booking still
	// references the resource, for both kinds.
	Delete(ctx context.Context, id int64) error
}

type PGResourceRepository struct {
	db *pgxpool.Pool
}

func NewResourceRepository(db *pgxpool.Pool) ResourceRepository {
	return &PGResourceRepository{db: db}
}

const resourceColumns = `id, kind, name, origin, destination, description, starts_at, ends_at,
	unit_price_cents, capacity_total, capacity_used, image_url, created_at, updated_at`

func scanResource(row pgx.Row) (*domain.Resource, error) {
	var res domain.Resource
	err := row.Scan(&res.ID, &res.Kind, &res.Name, &res.Origin, &res.Destination, &res.Description,
		&res.StartsAt, &res.EndsAt, &res.UnitPriceCents, &res.CapacityTotal, &res.CapacityUsed,
		&res.ImageURL, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *PGResourceRepository) List(ctx context.Context, kind domain.ResourceKind) ([]domain.Resource, error) {
	rows, err := r.db.Query(ctx, `SELECT `+resourceColumns+` FROM resources
		WHERE ($1 = '' OR kind = $1) ORDER BY starts_at`, string(kind))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resources := make([]domain.Resource, 0)
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, *res)
	}
	return resources, rows.Err()
}

func (r *PGResourceRepository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	res, err := scanResource(r.db.QueryRow(ctx, `SELECT `+resourceColumns+` FROM resources WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return res, err
}

func (r *PGResourceRepository) Create(ctx context.Context, res *domain.Resource) error {
	return r.db.QueryRow(ctx, `INSERT INTO resources
		(kind, name, origin, destination, description, starts_at, ends_at, unit_price_cents, capacity_total, image_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, capacity_used, created_at, updated_at`,
		res.Kind, res.Name, res.Origin, res.Destination, res.Description,
		res.StartsAt, res.EndsAt, res.UnitPriceCents, res.CapacityTotal, res.ImageURL).
		Scan(&res.ID, &res.CapacityUsed, &res.CreatedAt, &res.UpdatedAt)
}

func (r *PGResourceRepository) Update(ctx context.Context, res *domain.Resource) error {
	// capacity_total may not drop below what is already committed.
	res2, err := scanResource(r.db.QueryRow(ctx, `UPDATE resources
		SET name = $2, origin = $3, destination = $4, description = $5, starts_at = $6, ends_at = $7,
			unit_price_cents = $8, capacity_total = $9, image_url = $10, updated_at = now()
		WHERE id = $1 AND capacity_used <= $9
		RETURNING `+resourceColumns, res.ID, res.Name, res.Origin, res.Destination, res.Description,
		res.StartsAt, res.EndsAt, res.UnitPriceCents, res.CapacityTotal, res.ImageURL))
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM resources WHERE id = $1)`, res.ID).Scan(&exists); err != nil {
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
	*res = *res2
	return nil
}

func (r *PGResourceRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM resources
		WHERE id = $1 AND NOT EXISTS (SELECT 1 FROM bookings WHERE resource_id = $1)`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM resources WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrResourceInUse
	}
	return nil
}

var _ ResourceRepository = (*PGResourceRepository)(nil)
