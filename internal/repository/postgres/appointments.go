package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/propflow/maintgo/internal/domain"
)

type AppointmentRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *AppointmentRepo) With(db DB) *AppointmentRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *AppointmentRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const appointmentColumns = `id, ticket_id, vendor_id, scheduled_start,
	scheduled_end, status, actual_start, actual_end, notes, created_at`

func scanAppointment(row interface{ Scan(dest ...any) error }) (*domain.Appointment, error) {
	var a domain.Appointment
	err := row.Scan(
		&a.ID, &a.TicketID, &a.VendorID, &a.ScheduledStart, &a.ScheduledEnd,
		&a.Status, &a.ActualStart, &a.ActualEnd, &a.Notes, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepo) Create(ctx context.Context, a *domain.Appointment) error {
	const op = "postgres.AppointmentRepo.Create"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO appointments(id, ticket_id, vendor_id, scheduled_start,
			scheduled_end, status, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.TicketID, a.VendorID, a.ScheduledStart,
		a.ScheduledEnd, a.Status, a.Notes,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *AppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	const op = "postgres.AppointmentRepo.Get"

	db := r.handle()

	a, err := scanAppointment(db.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return a, nil
}

// GetForUpdate locks the appointment row for the surrounding transaction.
func (r *AppointmentRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	const op = "postgres.AppointmentRepo.GetForUpdate"

	db := r.handle()

	a, err := scanAppointment(db.QueryRow(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id = $1
		 FOR UPDATE`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return a, nil
}

// Update writes status and actual times back.
func (r *AppointmentRepo) Update(ctx context.Context, a *domain.Appointment) error {
	const op = "postgres.AppointmentRepo.Update"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE appointments
		 SET status = $2, actual_start = $3, actual_end = $4
		 WHERE id = $1`,
		a.ID, a.Status, a.ActualStart, a.ActualEnd,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

// ListActiveByVendor returns the vendor's appointments that hold a committed
// interval (scheduled, confirmed, in progress). The scheduler runs the
// conflict check over this set inside the same transaction that inserts.
func (r *AppointmentRepo) ListActiveByVendor(
	ctx context.Context,
	vendorID int64,
) ([]domain.Appointment, error) {
	const op = "postgres.AppointmentRepo.ListActiveByVendor"

	return r.list(ctx, op,
		`SELECT `+appointmentColumns+`
		 FROM appointments
		 WHERE vendor_id = $1 AND status IN ($2, $3, $4)
		 ORDER BY scheduled_start`,
		vendorID,
		domain.AppointmentScheduled,
		domain.AppointmentConfirmed,
		domain.AppointmentInProgress,
	)
}

// ListActiveByVendorIntersecting returns the vendor's committed appointments
// whose intervals intersect [from, to). Backs the availability view.
func (r *AppointmentRepo) ListActiveByVendorIntersecting(
	ctx context.Context,
	vendorID int64,
	iv domain.Interval,
) ([]domain.Appointment, error) {
	const op = "postgres.AppointmentRepo.ListActiveByVendorIntersecting"

	return r.list(ctx, op,
		`SELECT `+appointmentColumns+`
		 FROM appointments
		 WHERE vendor_id = $1
			AND status IN ($2, $3, $4)
			AND scheduled_start < $6
			AND $5 < scheduled_end
		 ORDER BY scheduled_start`,
		vendorID,
		domain.AppointmentScheduled,
		domain.AppointmentConfirmed,
		domain.AppointmentInProgress,
		iv.Start, iv.End,
	)
}

func (r *AppointmentRepo) list(
	ctx context.Context,
	op, sql string,
	args ...any,
) ([]domain.Appointment, error) {
	db := r.handle()

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var out []domain.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
