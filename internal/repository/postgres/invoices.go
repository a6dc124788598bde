package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/propflow/maintgo/internal/domain"
)

type InvoiceRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *InvoiceRepo) With(db DB) *InvoiceRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *InvoiceRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

const invoiceColumns = `id, ticket_id, vendor_id, subtotal_cents, tax_cents,
	discount_cents, total_cents, status, reject_reason, notes, due_date,
	created_at`

func scanInvoice(row interface{ Scan(dest ...any) error }) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(
		&inv.ID, &inv.TicketID, &inv.VendorID, &inv.SubtotalCents,
		&inv.TaxCents, &inv.DiscountCents, &inv.TotalCents, &inv.Status,
		&inv.RejectReason, &inv.Notes, &inv.DueDate, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create inserts the invoice and its line items.
func (r *InvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	const op = "postgres.InvoiceRepo.Create"

	db := r.handle()

	_, err := db.Exec(ctx,
		`INSERT INTO invoices(id, ticket_id, vendor_id, subtotal_cents,
			tax_cents, discount_cents, total_cents, status, notes, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		inv.ID, inv.TicketID, inv.VendorID, inv.SubtotalCents,
		inv.TaxCents, inv.DiscountCents, inv.TotalCents, inv.Status,
		inv.Notes, inv.DueDate,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	batch := &pgx.Batch{}
	for _, it := range inv.Items {
		batch.Queue(
			`INSERT INTO invoice_items(invoice_id, description, quantity,
				unit_price_cents, amount_cents)
			 VALUES ($1, $2, $3, $4, $5)`,
			inv.ID, it.Description, it.Quantity, it.UnitPriceCents, it.AmountCents,
		)
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// Get returns the invoice with its line items.
func (r *InvoiceRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	const op = "postgres.InvoiceRepo.Get"

	return r.get(ctx, op, id, false)
}

// GetForUpdate locks the invoice row for the surrounding transaction.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	const op = "postgres.InvoiceRepo.GetForUpdate"

	return r.get(ctx, op, id, true)
}

func (r *InvoiceRepo) get(
	ctx context.Context,
	op string,
	id uuid.UUID,
	forUpdate bool,
) (*domain.Invoice, error) {
	db := r.handle()

	sql := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}

	inv, err := scanInvoice(db.QueryRow(ctx, sql, id))
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := db.Query(ctx,
		`SELECT description, quantity, unit_price_cents, amount_cents
		 FROM invoice_items WHERE invoice_id = $1
		 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.InvoiceItem
		if err := rows.Scan(&it.Description, &it.Quantity, &it.UnitPriceCents, &it.AmountCents); err != nil {
			return nil, wrapDBErr(op, err)
		}
		inv.Items = append(inv.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBErr(op, err)
	}

	return inv, nil
}

// UpdateStatus writes the invoice's status and reject reason back.
func (r *InvoiceRepo) UpdateStatus(ctx context.Context, inv *domain.Invoice) error {
	const op = "postgres.InvoiceRepo.UpdateStatus"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE invoices SET status = $2, reject_reason = $3 WHERE id = $1`,
		inv.ID, inv.Status, inv.RejectReason,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, pgx.ErrNoRows)
	}

	return nil
}

// HasActiveByTicket reports whether the ticket already carries a non-terminal
// invoice. Checked inside the submission transaction so two concurrent
// submissions cannot both pass.
func (r *InvoiceRepo) HasActiveByTicket(ctx context.Context, ticketID uuid.UUID) (bool, error) {
	const op = "postgres.InvoiceRepo.HasActiveByTicket"

	db := r.handle()

	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM invoices
			WHERE ticket_id = $1 AND status IN ($2, $3, $4)
		 )`,
		ticketID, domain.InvoiceDraft, domain.InvoicePending, domain.InvoiceApproved,
	).Scan(&exists)
	if err != nil {
		return false, wrapDBErr(op, err)
	}

	return exists, nil
}
