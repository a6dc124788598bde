package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/propflow/maintgo/internal/authz"
	"github.com/propflow/maintgo/internal/domain"
	redisx "github.com/propflow/maintgo/internal/redis"
	"github.com/propflow/maintgo/internal/repository"
	postgresrepo "github.com/propflow/maintgo/internal/repository/postgres"
	redisrepo "github.com/propflow/maintgo/internal/repository/redis"
	"github.com/propflow/maintgo/internal/uow"
)

// Service owns the ticket state machine. Every transition is one unit of
// work: the ticket row update, exactly one audit entry and exactly one
// notification trigger commit together or not at all.
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

// AssignVendor moves an open ticket to waiting_vendor. Assignment is a
// request, not a commitment: the vendor still has to accept. Retrying with
// the same vendor while the request is pending is a no-op success.
func (s *Service) AssignVendor(
	ctx context.Context,
	actor domain.Actor,
	ticketID uuid.UUID,
	vendorID int64,
) (*domain.Ticket, error) {
	const op = "service.lifecycle.AssignVendor"

	var result *domain.Ticket

	err := s.uow.Do(ctx, func(
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

		if !s.auth.CanManageTicket(ctx, actor, t) {
			return fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		// idempotent replay of the same assignment
		if t.Status == domain.TicketWaitingVendor &&
			t.VendorID != nil && *t.VendorID == vendorID {
			result = t
			return nil
		}

		if !domain.TicketActionAllowed(domain.TicketActionAssign, t.Status) {
			return fmt.Errorf("%s: %w", op, ErrWrongState)
		}

		v, err := s.store.Directory().With(tx).GetVendor(ctx, vendorID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrVendorNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		if !v.Active {
			return fmt.Errorf("%s: %w", op, ErrVendorInactive)
		}

		t.Status, _ = domain.TicketActionTarget(domain.TicketActionAssign)
		t.VendorID = &v.ID
		t.AssignedToID = &v.UserID

		if err := s.store.Tickets().With(tx).Update(ctx, t); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := s.emit(ctx, tx, after, transition{
			actor:        actor,
			ticket:       t,
			action:       "vendor_assigned",
			notifyUserID: v.UserID,
			title:        "New maintenance assignment",
			message:      fmt.Sprintf("You have been assigned to %q. Accept or decline the request.", t.Title),
			metadata: map[string]any{
				"ticket_id": t.ID,
				"vendor_id": v.ID,
			},
		}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// RespondToAssignment is the vendor's half of the assignment handshake.
// Acceptance may attach an estimated cost and notes; rejection always resets
// the ticket to open and clears the assignment.
func (s *Service) RespondToAssignment(
	ctx context.Context,
	actor domain.Actor,
	ticketID uuid.UUID,
	accept bool,
	estimatedCents *int64,
	notes *string,
) (*domain.Ticket, error) {
	const op = "service.lifecycle.RespondToAssignment"

	var result *domain.Ticket

	err := s.uow.Do(ctx, func(
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

		action := domain.TicketActionVendorAccept
		if !accept {
			action = domain.TicketActionVendorReject
		}
		if !domain.TicketActionAllowed(action, t.Status) {
			return fmt.Errorf("%s: %w", op, ErrWrongState)
		}
		target, _ := domain.TicketActionTarget(action)

		owner, err := s.store.Directory().With(tx).PropertyOwner(ctx, t.PropertyID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		vendorID := *t.VendorID

		var tr transition
		if accept {
			t.Status = target
			t.EstimatedCents = estimatedCents
			t.AcceptanceNotes = notes

			tr = transition{
				actor:        actor,
				ticket:       t,
				action:       "vendor_accepted",
				notifyUserID: owner,
				title:        "Vendor accepted the assignment",
				message:      fmt.Sprintf("Work on %q has been accepted and is now in progress.", t.Title),
				metadata: map[string]any{
					"ticket_id":       t.ID,
					"vendor_id":       vendorID,
					"estimated_cents": estimatedCents,
				},
			}
		} else {
			// plain state reset; re-selection order is a collaborator concern
			t.Status = target
			t.VendorID = nil
			t.AssignedToID = nil
			t.EstimatedCents = nil
			t.AcceptanceNotes = nil

			tr = transition{
				actor:        actor,
				ticket:       t,
				action:       "vendor_rejected",
				notifyUserID: owner,
				title:        "Vendor declined the assignment",
				message:      fmt.Sprintf("The assignment for %q was declined. The ticket is open again.", t.Title),
				metadata: map[string]any{
					"ticket_id": t.ID,
					"vendor_id": vendorID,
					"reason":    notes,
				},
			}
		}

		if err := s.store.Tickets().With(tx).Update(ctx, t); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := s.emit(ctx, tx, after, tr); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Cancel moves any non-terminal ticket to cancelled.
func (s *Service) Cancel(
	ctx context.Context,
	actor domain.Actor,
	ticketID uuid.UUID,
) (*domain.Ticket, error) {
	const op = "service.lifecycle.Cancel"

	var result *domain.Ticket

	err := s.uow.Do(ctx, func(
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

		if !s.auth.CanManageTicket(ctx, actor, t) {
			return fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		if !domain.TicketActionAllowed(domain.TicketActionCancel, t.Status) {
			return fmt.Errorf("%s: %w", op, ErrWrongState)
		}

		// counter-party: the assigned vendor if there is one, the requester
		// otherwise
		notifyUserID := t.CreatedByID
		if t.AssignedToID != nil {
			notifyUserID = *t.AssignedToID
		}

		t.Status, _ = domain.TicketActionTarget(domain.TicketActionCancel)

		if err := s.store.Tickets().With(tx).Update(ctx, t); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := s.emit(ctx, tx, after, transition{
			actor:        actor,
			ticket:       t,
			action:       "ticket_cancelled",
			notifyUserID: notifyUserID,
			title:        "Maintenance request cancelled",
			message:      fmt.Sprintf("The request %q has been cancelled.", t.Title),
			metadata: map[string]any{
				"ticket_id": t.ID,
				"vendor_id": t.VendorID,
			},
		}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

type transition struct {
	actor        domain.Actor
	ticket       *domain.Ticket
	action       string
	notifyUserID int64
	title        string
	message      string
	metadata     map[string]any
}

// emit writes the transition's audit entry and notification trigger inside
// the transaction and registers the after-commit delivery nudge and cache
// invalidation.
func (s *Service) emit(
	ctx context.Context,
	tx postgresrepo.DB,
	after func(uow.AfterCommit),
	tr transition,
) error {
	entry := &domain.ActivityEntry{
		ID:       uuid.New(),
		UserID:   tr.actor.UserID,
		Type:     "ticket",
		Action:   tr.action,
		Metadata: tr.metadata,
	}
	if err := s.store.Outbox().With(tx).InsertActivity(ctx, entry); err != nil {
		return err
	}

	n := &domain.Notification{
		ID:        uuid.New(),
		UserID:    tr.notifyUserID,
		Type:      "ticket_" + tr.action,
		Title:     tr.title,
		Message:   tr.message,
		ActionURL: "/tickets/" + tr.ticket.ID.String(),
		Metadata:  tr.metadata,
	}
	if err := s.store.Outbox().With(tx).InsertNotification(ctx, n); err != nil {
		return err
	}

	ticketID := tr.ticket.ID
	notifyUserID := tr.notifyUserID
	notificationID := n.ID

	after(func(ctx context.Context) {
		_ = s.cache.InvalidateTicket(ctx, ticketID)
		_ = s.pubsub.PublishPending(ctx, notifyUserID, notificationID)
	})

	return nil
}
