package lifecycle

import "errors"

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrUnauthorized   = errors.New("actor lacks authority over this ticket")
	ErrWrongState     = errors.New("action not permitted from the ticket's current status")
	ErrVendorNotFound = errors.New("vendor not found")
	ErrVendorInactive = errors.New("vendor is not active")
)
