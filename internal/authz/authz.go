package authz

import (
	"context"

	"github.com/propflow/maintgo/internal/domain"
	postgresrepo "github.com/propflow/maintgo/internal/repository/postgres"
)

// Authorizer is the yes/no authority predicate the workflow core consumes.
// Identity resolution and credential checking happen upstream; the core never
// sees more than an Actor and these answers.
type Authorizer interface {
	// CanManageTicket reports whether the actor holds authority over the
	// ticket's property (assignment, cancellation, invoice decisions).
	CanManageTicket(ctx context.Context, actor domain.Actor, t *domain.Ticket) bool

	// IsAssignedVendor reports whether the actor is the vendor currently
	// assigned to the ticket.
	IsAssignedVendor(ctx context.Context, actor domain.Actor, t *domain.Ticket) bool
}

// Service answers authority questions from the vendor/property directory.
type Service struct {
	store *postgresrepo.Store
}

func New(store *postgresrepo.Store) *Service {
	return &Service{store: store}
}

func (s *Service) CanManageTicket(ctx context.Context, actor domain.Actor, t *domain.Ticket) bool {
	switch actor.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleLandlord:
		owner, err := s.store.Directory().PropertyOwner(ctx, t.PropertyID)
		if err != nil {
			return false
		}
		return owner == actor.UserID
	}
	return false
}

func (s *Service) IsAssignedVendor(ctx context.Context, actor domain.Actor, t *domain.Ticket) bool {
	if actor.Role != domain.RoleVendor || t.VendorID == nil {
		return false
	}

	v, err := s.store.Directory().GetVendor(ctx, *t.VendorID)
	if err != nil {
		return false
	}

	return v.UserID == actor.UserID
}
