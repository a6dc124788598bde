package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/propflow/maintgo/internal/domain"
)

// DirectoryRepo reads the vendor and property directories. Those entities are
// owned by external collaborators; this core only consults them for guards
// and locks the vendor row to serialize scheduling per vendor.
type DirectoryRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *DirectoryRepo) With(db DB) *DirectoryRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *DirectoryRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *DirectoryRepo) GetVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	const op = "postgres.DirectoryRepo.GetVendor"

	db := r.handle()

	var v domain.Vendor
	err := db.QueryRow(ctx,
		`SELECT id, user_id, business_name, category, active
		 FROM vendors WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.UserID, &v.BusinessName, &v.Category, &v.Active)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &v, nil
}

// LockVendor takes the vendor row lock. Concurrent scheduling attempts for
// the same vendor queue behind it, which closes the conflict-check/insert
// race window.
func (r *DirectoryRepo) LockVendor(ctx context.Context, id int64) (*domain.Vendor, error) {
	const op = "postgres.DirectoryRepo.LockVendor"

	db := r.handle()

	var v domain.Vendor
	err := db.QueryRow(ctx,
		`SELECT id, user_id, business_name, category, active
		 FROM vendors WHERE id = $1
		 FOR UPDATE`,
		id,
	).Scan(&v.ID, &v.UserID, &v.BusinessName, &v.Category, &v.Active)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &v, nil
}

// PropertyOwner returns the owning landlord's user ID for a property.
func (r *DirectoryRepo) PropertyOwner(ctx context.Context, propertyID int64) (int64, error) {
	const op = "postgres.DirectoryRepo.PropertyOwner"

	db := r.handle()

	var owner int64
	err := db.QueryRow(ctx,
		`SELECT owner_id FROM properties WHERE id = $1`,
		propertyID,
	).Scan(&owner)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return owner, nil
}

// CreateVendor and CreateProperty exist for the directory collaborator and
// for test seeding.
func (r *DirectoryRepo) CreateVendor(ctx context.Context, v *domain.Vendor) error {
	const op = "postgres.DirectoryRepo.CreateVendor"

	db := r.handle()

	err := db.QueryRow(ctx,
		`INSERT INTO vendors(user_id, business_name, category, active)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		v.UserID, v.BusinessName, v.Category, v.Active,
	).Scan(&v.ID)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *DirectoryRepo) CreateProperty(ctx context.Context, ownerID int64, name string) (int64, error) {
	const op = "postgres.DirectoryRepo.CreateProperty"

	db := r.handle()

	var id int64
	err := db.QueryRow(ctx,
		`INSERT INTO properties(owner_id, name) VALUES ($1, $2) RETURNING id`,
		ownerID, name,
	).Scan(&id)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return id, nil
}
