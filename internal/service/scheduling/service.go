package scheduling

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

// Service owns the appointment state machine and the booking path. The
// conflict check and the insert run in one transaction holding the vendor
// row lock, so two concurrent bookings for the same vendor cannot both pass
// the check.
type Service struct {
	store  *postgresrepo.Store
	cache  *redisrepo.Cache
	pubsub *redisx.NotificationsPubSub
	auth   authz.Authorizer
	uow    *uow.UoW
	now    func() time.Time
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
		now:    time.Now,
	}
}

// Schedule books an appointment for the ticket's assigned vendor and
// advances the ticket to scheduled. Retrying with identical arguments
// returns the already-booked appointment instead of a conflict, and a ticket
// whose appointment was cancelled books again through the same call.
func (s *Service) Schedule(
	ctx context.Context,
	actor domain.Actor,
	ticketID uuid.UUID,
	start, end time.Time,
	notes string,
) (*domain.Appointment, error) {
	const op = "service.scheduling.Schedule"

	if !domain.ValidInterval(start, end) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidInterval)
	}

	var result *domain.Appointment

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

		if !s.auth.IsAssignedVendor(ctx, actor, t) && !s.auth.CanManageTicket(ctx, actor, t) {
			return fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		if t.VendorID == nil {
			return fmt.Errorf("%s: %w", op, ErrNoVendor)
		}

		if !domain.TicketActionAllowed(domain.TicketActionSchedule, t.Status) {
			return fmt.Errorf("%s: %w", op, ErrWrongState)
		}

		// serialize scheduling per vendor: the row lock closes the window
		// between the conflict check and the insert
		v, err := s.store.Directory().With(tx).LockVendor(ctx, *t.VendorID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		existing, err := s.store.Appointments().With(tx).ListActiveByVendor(ctx, v.ID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		// a scheduled ticket holding a live slot either replays it (identical
		// interval, an idempotent retry) or is refused; only when every prior
		// slot is cancelled does a fresh booking go through
		if t.Status == domain.TicketScheduled {
			for i := range existing {
				a := &existing[i]
				if a.TicketID != t.ID {
					continue
				}
				if a.ScheduledStart.Equal(start) && a.ScheduledEnd.Equal(end) {
					result = a
					return nil
				}
				return fmt.Errorf("%s: %w", op, ErrConflict)
			}
		}

		proposed := domain.Interval{Start: start, End: end}
		if c := domain.FindConflict(proposed, existing); c != nil {
			return fmt.Errorf("%s: %w", op, ErrConflict)
		}

		a := &domain.Appointment{
			ID:             uuid.New(),
			TicketID:       t.ID,
			VendorID:       v.ID,
			ScheduledStart: start,
			ScheduledEnd:   end,
			Status:         domain.AppointmentScheduled,
			Notes:          notes,
		}
		if err := s.store.Appointments().With(tx).Create(ctx, a); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		t.Status, _ = domain.TicketActionTarget(domain.TicketActionSchedule)
		t.ScheduledDate = &start
		if err := s.store.Tickets().With(tx).Update(ctx, t); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := s.emit(ctx, tx, after, emitArgs{
			actor:        actor,
			ticket:       t,
			appointment:  a,
			action:       "appointment_scheduled",
			notifyUserID: v.UserID,
			title:        "Appointment booked",
			message: fmt.Sprintf("Work on %q is booked for %s.",
				t.Title, start.Format(time.RFC1123)),
		}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// UpdateStatus moves an appointment along its state machine. Starting work
// stamps actualStart, completing stamps actualEnd and completes the owning
// ticket in the same transaction. Cancelling a booked appointment leaves the
// ticket scheduled with its stale scheduledDate; a fresh Schedule call is
// the recovery path.
func (s *Service) UpdateStatus(
	ctx context.Context,
	actor domain.Actor,
	appointmentID uuid.UUID,
	newStatus domain.AppointmentStatus,
) (*domain.Appointment, error) {
	const op = "service.scheduling.UpdateStatus"

	var result *domain.Appointment

	err := s.uow.Do(ctx, func(
		ctx context.Context,
		tx postgresrepo.DB,
		after func(uow.AfterCommit),
	) error {
		a, err := s.store.Appointments().With(tx).GetForUpdate(ctx, appointmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrAppointmentNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		t, err := s.store.Tickets().With(tx).GetForUpdate(ctx, a.TicketID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%s: %w", op, ErrTicketNotFound)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		if !s.auth.IsAssignedVendor(ctx, actor, t) && !s.auth.CanManageTicket(ctx, actor, t) {
			return fmt.Errorf("%s: %w", op, ErrUnauthorized)
		}

		if !domain.AppointmentTransitionAllowed(a.Status, newStatus) {
			return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
		}

		a.Status = newStatus
		switch newStatus {
		case domain.AppointmentInProgress:
			now := s.now()
			a.ActualStart = &now
		case domain.AppointmentCompleted:
			now := s.now()
			a.ActualEnd = &now
		}

		if err := s.store.Appointments().With(tx).Update(ctx, a); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if newStatus == domain.AppointmentCompleted {
			if !domain.TicketActionAllowed(domain.TicketActionComplete, t.Status) {
				return fmt.Errorf("%s: %w", op, ErrWrongState)
			}
			t.Status, _ = domain.TicketActionTarget(domain.TicketActionComplete)
			if err := s.store.Tickets().With(tx).Update(ctx, t); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}

		notifyUserID, err := s.counterparty(ctx, tx, actor, t)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		if err := s.emit(ctx, tx, after, emitArgs{
			actor:        actor,
			ticket:       t,
			appointment:  a,
			action:       "appointment_" + string(newStatus),
			notifyUserID: notifyUserID,
			title:        "Appointment " + string(newStatus),
			message: fmt.Sprintf("The appointment for %q is now %s.",
				t.Title, newStatus),
		}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// counterparty picks who to notify: the property owner when the vendor acts,
// the vendor otherwise.
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

type emitArgs struct {
	actor        domain.Actor
	ticket       *domain.Ticket
	appointment  *domain.Appointment
	action       string
	notifyUserID int64
	title        string
	message      string
}

func (s *Service) emit(
	ctx context.Context,
	tx postgresrepo.DB,
	after func(uow.AfterCommit),
	args emitArgs,
) error {
	metadata := map[string]any{
		"ticket_id":      args.ticket.ID,
		"appointment_id": args.appointment.ID,
		"vendor_id":      args.appointment.VendorID,
	}

	entry := &domain.ActivityEntry{
		ID:       uuid.New(),
		UserID:   args.actor.UserID,
		Type:     "appointment",
		Action:   args.action,
		Metadata: metadata,
	}
	if err := s.store.Outbox().With(tx).InsertActivity(ctx, entry); err != nil {
		return err
	}

	n := &domain.Notification{
		ID:        uuid.New(),
		UserID:    args.notifyUserID,
		Type:      args.action,
		Title:     args.title,
		Message:   args.message,
		ActionURL: "/tickets/" + args.ticket.ID.String(),
		Metadata:  metadata,
	}
	if err := s.store.Outbox().With(tx).InsertNotification(ctx, n); err != nil {
		return err
	}

	ticketID := args.ticket.ID
	vendorID := args.appointment.VendorID
	slot := args.appointment.Interval()
	notifyUserID := args.notifyUserID
	notificationID := n.ID

	after(func(ctx context.Context) {
		_ = s.cache.InvalidateTicket(ctx, ticketID)
		_ = s.cache.InvalidateVendorDays(ctx, vendorID, slot)
		_ = s.pubsub.PublishPending(ctx, notifyUserID, notificationID)
	})

	return nil
}
