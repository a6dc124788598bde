package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propflow/maintgo/internal/domain"
	"github.com/propflow/maintgo/internal/repository"
	postgresrepo "github.com/propflow/maintgo/internal/repository/postgres"
	redisrepo "github.com/propflow/maintgo/internal/repository/redis"
)

var ErrNotFound = errors.New("not found")

const (
	ticketTTL       = 5 * time.Minute
	availabilityTTL = 2 * time.Minute

	defaultPageSize = 20
	maxPageSize     = 100
)

// Service is the read side. Hot lookups go through the cache; writes
// invalidate the matching keys after commit, so a short TTL is only a
// backstop.
type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache) *Service {
	return &Service{store: store, cache: cache}
}

func (s *Service) Ticket(ctx context.Context, id uuid.UUID) (*domain.Ticket, error) {
	const op = "service.query.Ticket"

	t, err := redisrepo.GetOrSetJSON(ctx, s.cache,
		redisrepo.KeyTicketSummary(id), ticketTTL,
		func(ctx context.Context) (*domain.Ticket, error) {
			return s.store.Tickets().Get(ctx, id)
		})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

func (s *Service) Appointment(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	const op = "service.query.Appointment"

	a, err := s.store.Appointments().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

func (s *Service) Invoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	const op = "service.query.Invoice"

	inv, err := s.store.Invoices().Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return inv, nil
}

// TicketsByProperty lists a property's live tickets, newest first.
func (s *Service) TicketsByProperty(
	ctx context.Context,
	propertyID int64,
	limit, offset int,
) ([]domain.Ticket, error) {
	const op = "service.query.TicketsByProperty"

	limit, offset = clampPage(limit, offset)
	out, err := s.store.Tickets().ListByProperty(ctx, propertyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// TicketsByVendor lists the tickets assigned to a vendor, newest first.
func (s *Service) TicketsByVendor(
	ctx context.Context,
	vendorID int64,
	limit, offset int,
) ([]domain.Ticket, error) {
	const op = "service.query.TicketsByVendor"

	limit, offset = clampPage(limit, offset)
	out, err := s.store.Tickets().ListByVendor(ctx, vendorID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// VendorAvailability derives one vendor's calendar-day view: the committed
// appointments intersecting the day plus the open-ticket load. Cached per
// vendor and day; scheduling invalidates every day a new booking touches.
func (s *Service) VendorAvailability(
	ctx context.Context,
	vendorID int64,
	day time.Time,
) (*domain.VendorAvailability, error) {
	const op = "service.query.VendorAvailability"

	// calendar days are UTC, the same normalization the write-side
	// invalidation uses
	day = day.UTC().Truncate(24 * time.Hour)

	if _, err := s.store.Directory().GetVendor(ctx, vendorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := redisrepo.KeyVendorDay(vendorID, day.Format("2006-01-02"))

	av, err := redisrepo.GetOrSetJSON(ctx, s.cache, key, availabilityTTL,
		func(ctx context.Context) (*domain.VendorAvailability, error) {
			return s.buildAvailability(ctx, vendorID, day)
		})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return av, nil
}

func (s *Service) buildAvailability(
	ctx context.Context,
	vendorID int64,
	day time.Time,
) (*domain.VendorAvailability, error) {
	iv := domain.DayInterval(day)

	appts, err := s.store.Appointments().ListActiveByVendorIntersecting(ctx, vendorID, iv)
	if err != nil {
		return nil, err
	}

	active, err := s.store.Tickets().CountActiveByVendor(ctx, vendorID)
	if err != nil {
		return nil, err
	}

	return &domain.VendorAvailability{
		VendorID:          vendorID,
		Date:              iv.Start,
		Appointments:      appts,
		ActiveTicketCount: active,
		IsAvailable:       len(appts) == 0,
	}, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
