package domain

// TicketAction is one event of the ticket lifecycle. Every mutation of a
// ticket's status goes through one of these; there is no free-form status
// write.
type TicketAction string

const (
	TicketActionAssign       TicketAction = "assign"
	TicketActionVendorAccept TicketAction = "vendor_accept"
	TicketActionVendorReject TicketAction = "vendor_reject"
	TicketActionSchedule     TicketAction = "schedule"
	TicketActionComplete     TicketAction = "complete"
	TicketActionCancel       TicketAction = "cancel"
)

// ticketActionFrom lists the statuses an action is allowed to fire from.
var ticketActionFrom = map[TicketAction][]TicketStatus{
	TicketActionAssign:       {TicketOpen},
	TicketActionVendorAccept: {TicketWaitingVendor},
	TicketActionVendorReject: {TicketWaitingVendor},
	// scheduled is a valid source so a ticket whose appointment was
	// cancelled can book again
	TicketActionSchedule: {TicketInProgress, TicketWaitingParts, TicketScheduled},
	TicketActionComplete:     {TicketScheduled},
	TicketActionCancel: {
		TicketOpen, TicketWaitingVendor, TicketInProgress,
		TicketWaitingParts, TicketScheduled,
	},
}

// ticketActionTarget is the status an action lands in.
var ticketActionTarget = map[TicketAction]TicketStatus{
	TicketActionAssign:       TicketWaitingVendor,
	TicketActionVendorAccept: TicketInProgress,
	TicketActionVendorReject: TicketOpen,
	TicketActionSchedule:     TicketScheduled,
	TicketActionComplete:     TicketCompleted,
	TicketActionCancel:       TicketCancelled,
}

// TicketActionAllowed reports whether action may fire from the given status.
func TicketActionAllowed(action TicketAction, from TicketStatus) bool {
	allowed, ok := ticketActionFrom[action]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == from {
			return true
		}
	}
	return false
}

// TicketActionTarget returns the status an action lands in. The boolean is
// false for unknown actions.
func TicketActionTarget(action TicketAction) (TicketStatus, bool) {
	to, ok := ticketActionTarget[action]
	return to, ok
}

// appointmentGraph is the appointment sub-state-machine. Anything not listed
// here is an invalid transition, including every move out of a terminal
// status.
var appointmentGraph = map[AppointmentStatus][]AppointmentStatus{
	AppointmentScheduled: {
		AppointmentConfirmed, AppointmentCancelled, AppointmentNoShow,
	},
	AppointmentConfirmed: {
		AppointmentInProgress, AppointmentCancelled, AppointmentNoShow,
	},
	AppointmentInProgress: {AppointmentCompleted},
}

// AppointmentTransitionAllowed reports whether moving from one appointment
// status to another is valid.
func AppointmentTransitionAllowed(from, to AppointmentStatus) bool {
	for _, s := range appointmentGraph[from] {
		if s == to {
			return true
		}
	}
	return false
}

// AppointmentActive reports whether the appointment holds a committed
// interval for conflict purposes.
func AppointmentActive(s AppointmentStatus) bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentInProgress:
		return true
	}
	return false
}

// invoiceGraph: pending to approved to paid, pending to rejected, and any
// non-paid status to cancelled. Totals are recomputed server-side regardless
// of status.
var invoiceGraph = map[InvoiceStatus][]InvoiceStatus{
	InvoiceDraft:    {InvoicePending, InvoiceCancelled},
	InvoicePending:  {InvoiceApproved, InvoiceRejected, InvoiceCancelled},
	InvoiceApproved: {InvoicePaid, InvoiceCancelled},
	InvoiceRejected: {InvoiceCancelled},
}

// InvoiceTransitionAllowed reports whether moving from one invoice status to
// another is valid.
func InvoiceTransitionAllowed(from, to InvoiceStatus) bool {
	for _, s := range invoiceGraph[from] {
		if s == to {
			return true
		}
	}
	return false
}
