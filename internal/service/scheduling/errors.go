package scheduling

import "errors"

var (
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrUnauthorized        = errors.New("actor lacks authority over this appointment")
	ErrNoVendor            = errors.New("ticket has no assigned vendor")
	ErrWrongState          = errors.New("ticket cannot be scheduled from its current status")
	ErrInvalidInterval     = errors.New("start must be strictly before end")
	ErrConflict            = errors.New("vendor has a conflicting appointment")
	ErrInvalidTransition   = errors.New("appointment status transition not permitted")
)
