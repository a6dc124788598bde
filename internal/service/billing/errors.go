package billing

import "errors"

var (
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrInvoiceNotFound    = errors.New("invoice not found")
	ErrUnauthorized       = errors.New("actor may not act on this invoice")
	ErrTicketNotCompleted = errors.New("ticket is not completed")
	ErrInvalidItems       = errors.New("invalid invoice items")
	ErrActiveInvoice      = errors.New("ticket already has an active invoice")
	ErrInvalidTransition  = errors.New("invalid invoice transition")
	ErrReasonRequired     = errors.New("rejection requires a reason")
)
