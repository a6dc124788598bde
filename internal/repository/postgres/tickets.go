package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/propflow/maintgo/internal/domain"
)

type TicketRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *TicketRepo) With(db DB) *TicketRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *TicketRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const ticketColumns = `id, property_id, created_by, category, priority, title,
	description, location, status, vendor_id, assigned_to, estimated_cents,
	acceptance_notes, scheduled_date, created_at, updated_at, deleted_at`

func scanTicket(row interface{ Scan(dest ...any) error }) (*domain.Ticket, error) {
	var t domain.Ticket
	err := row.Scan(
		&t.ID, &t.PropertyID, &t.CreatedByID, &t.Category, &t.Priority,
		&t.Title, &t.Description, &t.Location, &t.Status, &t.VendorID,
		&t.AssignedToID, &t.EstimatedCents, &t.AcceptanceNotes,
		&t.ScheduledDate, &t.CreatedAt, &t.UpdatedAt, &t.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a new ticket. Intake is owned by an external collaborator;
// this exists for that collaborator and for test seeding.
func (r *TicketRepo) Create(ctx context.Context, t *domain.Ticket) error {
	const op = "postgres.TicketRepo.Create"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO tickets(id, property_id, created_by, category, priority,
			title, description, location, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.PropertyID, t.CreatedByID, t.Category, t.Priority,
		t.Title, t.Description, t.Location, t.Status,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Get returns a ticket by ID. Soft-deleted tickets are invisible.
func (r *TicketRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.Get"

	db := r.handle()

	t, err := scanTicket(db.QueryRow(ctx,
		`SELECT `+ticketColumns+`
		 FROM tickets WHERE id = $1 AND deleted_at IS NULL`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return t, nil
}

// GetForUpdate locks the ticket row for the duration of the surrounding
// transaction. Every lifecycle transition reads through this so concurrent
// transitions on one ticket serialize.
func (r *TicketRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const op = "postgres.TicketRepo.GetForUpdate"

	db := r.handle()

	t, err := scanTicket(db.QueryRow(ctx,
		`SELECT `+ticketColumns+`
		 FROM tickets WHERE id = $1 AND deleted_at IS NULL
		 FOR UPDATE`,
		id,
	))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return t, nil
}

// Update writes the ticket's mutable fields back. Callers hold the row lock
// via GetForUpdate.
func (r *TicketRepo) Update(ctx context.Context, t *domain.Ticket) error {
	const op = "postgres.TicketRepo.Update"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE tickets
		 SET status = $2, vendor_id = $3, assigned_to = $4,
			 estimated_cents = $5, acceptance_notes = $6,
			 scheduled_date = $7, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		t.ID, t.Status, t.VendorID, t.AssignedToID,
		t.EstimatedCents, t.AcceptanceNotes, t.ScheduledDate,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

// SoftDelete marks the ticket deleted. It disappears from all reads and
// transitions; the row is never removed.
func (r *TicketRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	const op = "postgres.TicketRepo.SoftDelete"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE tickets SET deleted_at = now(), updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

// ListByProperty returns the property's live tickets, newest first.
func (r *TicketRepo) ListByProperty(
	ctx context.Context,
	propertyID int64,
	limit, offset int,
) ([]domain.Ticket, error) {
	const op = "postgres.TicketRepo.ListByProperty"

	return r.list(ctx, op,
		`SELECT `+ticketColumns+`
		 FROM tickets
		 WHERE property_id = $1 AND deleted_at IS NULL
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		propertyID, limit, offset,
	)
}

// ListByVendor returns the vendor's live tickets, newest first.
func (r *TicketRepo) ListByVendor(
	ctx context.Context,
	vendorID int64,
	limit, offset int,
) ([]domain.Ticket, error) {
	const op = "postgres.TicketRepo.ListByVendor"

	return r.list(ctx, op,
		`SELECT `+ticketColumns+`
		 FROM tickets
		 WHERE vendor_id = $1 AND deleted_at IS NULL
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`,
		vendorID, limit, offset,
	)
}

// CountActiveByVendor counts the vendor's non-terminal tickets. Feeds the
// availability view.
func (r *TicketRepo) CountActiveByVendor(ctx context.Context, vendorID int64) (int64, error) {
	const op = "postgres.TicketRepo.CountActiveByVendor"

	db := r.handle()

	var n int64
	err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tickets
		 WHERE vendor_id = $1
			AND deleted_at IS NULL
			AND status NOT IN ($2, $3)`,
		vendorID, domain.TicketCompleted, domain.TicketCancelled,
	).Scan(&n)
	if err != nil {
		return 0, wrapDBErr(op, err)
	}

	return n, nil
}

func (r *TicketRepo) list(
	ctx context.Context,
	op, sql string,
	args ...any,
) ([]domain.Ticket, error) {
	db := r.handle()

	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	var out []domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return out, nil
}
