package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propflow/maintgo/internal/authz"
	"github.com/propflow/maintgo/internal/domain"
	redisx "github.com/propflow/maintgo/internal/redis"
	"github.com/propflow/maintgo/internal/repository"
	postgresrepo "github.com/propflow/maintgo/internal/repository/postgres"
	redisrepo "github.com/propflow/maintgo/internal/repository/redis"
	"github.com/propflow/maintgo/internal/uow"
)

// Service covers invoice submission and settlement. All monetary figures are
// recomputed server-side from the line items before anything persists.
type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.NotificationsPubSub
	auth   authz.Authorizer
	uow    *uow.UoW
}

func New(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.NotificationsPubSub,
	auth authz.Authorizer,
) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		pubsub: pubsub,
		auth:   auth,
		uow:    uow.NewUoW(store),
	}
}

// SubmitInput carries the vendor-supplied invoice fields. AmountCents on
// items and every total field are advisory only; the service recomputes them.
type SubmitInput struct {
	Items         []domain.InvoiceItem
	TaxCents      int64
	DiscountCents int64
	Notes         string
	DueDate       *time.Time
}

// Submit creates a pending invoice for a completed ticket. Only the assigned
// vendor may submit, and only one non-terminal invoice may exist per ticket.
func (s *Service) Submit(
	ctx context.Context,
	actor domain.Actor,
	ticketID uuid.UUID,
	in SubmitInput,
) (*domain.Invoice, error) {
	const op = "service.billing.Submit"

	items, err := domain.NormalizeItems(in.Items)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrInvalidItems, err)
	}

	var result *domain.Invoice

	err = s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		t, err := s.store.Tickets().With(tx).GetForUpdate(ctx, ticketID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrTicketNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		if !s.auth.IsAssignedVendor(ctx, actor, t) {
			return fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		if t.Status != domain.TicketCompleted {
			return fmt.Errorf("%s: %w", op, ErrTicketNotCompleted)
		}

		busy, err := s.store.Invoices().With(tx).HasActiveByTicket(ctx, t.ID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if busy {
			return fmt.Errorf("%s: %w", op, ErrActiveInvoice)
		}

		inv := &domain.Invoice{
			ID:            uuid.New(),
			TicketID:      t.ID,
			VendorID:      *t.VendorID,
			Items:         items,
			TaxCents:      in.TaxCents,
			DiscountCents: in.DiscountCents,
			Status:        domain.InvoicePending,
			Notes:         in.Notes,
			DueDate:       in.DueDate,
		}
		inv.ComputeTotals()

		if err := s.store.Invoices().With(tx).Create(ctx, inv); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		owner, err := s.store.Directory().With(tx).PropertyOwner(ctx, t.PropertyID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := s.emit(ctx, tx, after, invoiceEvent{
			actor:        actor,
			ticket:       t,
			invoice:      inv,
			action:       "invoice_submitted",
			notifyUserID: owner,
			title:        "Invoice submitted",
			message: fmt.Sprintf("A %s invoice for %q awaits your review.",
				centsToDollars(inv.TotalCents), t.Title),
		}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Decide moves a pending invoice to approved or rejected. Rejection demands
// a reason, which lands on the invoice and in the vendor's notification.
func (s *Service) Decide(
	ctx context.Context,
	actor domain.Actor,
	invoiceID uuid.UUID,
	approve bool,
	reason string,
) (*domain.Invoice, error) {
	const op = "service.billing.Decide"

	target := domain.InvoiceApproved
	if !approve {
		if reason == "" {
			return nil, fmt.Errorf("%s: %w", op, ErrReasonRequired)
		}
		target = domain.InvoiceRejected
	}

	return s.settle(ctx, op, actor, invoiceID, target, reason)
}

// MarkPaid records payment of an approved invoice.
func (s *Service) MarkPaid(
	ctx context.Context,
	actor domain.Actor,
	invoiceID uuid.UUID,
) (*domain.Invoice, error) {
	const op = "service.billing.MarkPaid"
	return s.settle(ctx, op, actor, invoiceID, domain.InvoicePaid, "")
}

// Cancel withdraws a non-paid invoice, freeing the ticket for a fresh
// submission.
func (s *Service) Cancel(
	ctx context.Context,
	actor domain.Actor,
	invoiceID uuid.UUID,
) (*domain.Invoice, error) {
	const op = "service.billing.Cancel"
	return s.settle(ctx, op, actor, invoiceID, domain.InvoiceCancelled, "")
}

func (s *Service) settle(
	ctx context.Context,
	op string,
	actor domain.Actor,
	invoiceID uuid.UUID,
	target domain.InvoiceStatus,
	reason string,
) (*domain.Invoice, error) {
	var result *domain.Invoice

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		inv, err := s.store.Invoices().With(tx).GetForUpdate(ctx, invoiceID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrInvoiceNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		t, err := s.store.Tickets().With(tx).Get(ctx, inv.TicketID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		// the submitting vendor may withdraw its own invoice; every other
		// settlement move belongs to the property side
		vendorCancel := target == domain.InvoiceCancelled &&
			s.auth.IsAssignedVendor(ctx, actor, t)
		if !vendorCancel && !s.auth.CanManageTicket(ctx, actor, t) {
			return fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		if !domain.InvoiceTransitionAllowed(inv.Status, target) {
			return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
		}

		inv.Status = target
		if target == domain.InvoiceRejected {
			inv.RejectReason = &reason
		}

		if err := s.store.Invoices().With(tx).UpdateStatus(ctx, inv); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		notifyUserID, err := s.counterparty(ctx, tx, actor, t)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		msg := fmt.Sprintf("The %s invoice for %q is now %s.",
			centsToDollars(inv.TotalCents), t.Title, target)
		if target == domain.InvoiceRejected {
			msg = fmt.Sprintf("The %s invoice for %q was rejected: %s",
				centsToDollars(inv.TotalCents), t.Title, reason)
		}

		if err := s.emit(ctx, tx, after, invoiceEvent{
			actor:        actor,
			ticket:       t,
			invoice:      inv,
			action:       "invoice_" + string(target),
			notifyUserID: notifyUserID,
			title:        "Invoice " + string(target),
			message:      msg,
		}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		result = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) counterparty(
	ctx context.Context,
	tx postgresrepo.DB,
	actor domain.Actor,
	t *domain.Ticket,
) (int64, error) {
	if actor.Role == domain.RoleVendor {
		return s.store.Directory().With(tx).PropertyOwner(ctx, t.PropertyID)
	}
	if t.AssignedToID != nil {
		return *t.AssignedToID, nil
	}
	return t.CreatedByID, nil
}

type invoiceEvent struct {
	actor        domain.Actor
	ticket       *domain.Ticket
	invoice      *domain.Invoice
	action       string
	notifyUserID int64
	title        string
	message      string
}

func (s *Service) emit(
	ctx context.Context,
	tx postgresrepo.DB,
	after func(uow.AfterCommit),
	ev invoiceEvent,
) error {
	metadata := map[string]any{
		"ticket_id":   ev.ticket.ID,
		"invoice_id":  ev.invoice.ID,
		"vendor_id":   ev.invoice.VendorID,
		"total_cents": ev.invoice.TotalCents,
	}

	entry := &domain.ActivityEntry{
		ID:       uuid.New(),
		UserID:   ev.actor.UserID,
		Type:     "invoice",
		Action:   ev.action,
		Metadata: metadata,
	}
	if err := s.store.Outbox().With(tx).InsertActivity(ctx, entry); err != nil {
		return err
	}

	n := &domain.Notification{
		ID:        uuid.New(),
		UserID:    ev.notifyUserID,
		Type:      ev.action,
		Title:     ev.title,
		Message:   ev.message,
		ActionURL: "/tickets/" + ev.ticket.ID.String(),
		Metadata:  metadata,
	}
	if err := s.store.Outbox().With(tx).InsertNotification(ctx, n); err != nil {
		return err
	}

	ticketID := ev.ticket.ID
	notifyUserID := ev.notifyUserID
	notificationID := n.ID

	after(func(ctx context.Context) {
		_ = s.cache.InvalidateTicket(ctx, ticketID)
		_ = s.pubsub.PublishPending(ctx, notifyUserID, notificationID)
	})

	return nil
}

func centsToDollars(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}
