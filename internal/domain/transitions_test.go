package domain

import "testing"

func TestTicketActionAllowed(t *testing.T) {
	cases := []struct {
		action TicketAction
		from   TicketStatus
		valid  bool
	}{
		{TicketActionAssign, TicketOpen, true},
		{TicketActionAssign, TicketWaitingVendor, false},
		{TicketActionAssign, TicketInProgress, false},
		{TicketActionVendorAccept, TicketWaitingVendor, true},
		{TicketActionVendorAccept, TicketOpen, false},
		{TicketActionVendorAccept, TicketScheduled, false},
		{TicketActionVendorReject, TicketWaitingVendor, true},
		{TicketActionVendorReject, TicketInProgress, false},
		{TicketActionSchedule, TicketInProgress, true},
		{TicketActionSchedule, TicketWaitingParts, true},
		{TicketActionSchedule, TicketScheduled, true},
		{TicketActionSchedule, TicketOpen, false},
		{TicketActionSchedule, TicketCompleted, false},
		{TicketActionComplete, TicketScheduled, true},
		{TicketActionComplete, TicketInProgress, false},
		{TicketActionCancel, TicketOpen, true},
		{TicketActionCancel, TicketWaitingVendor, true},
		{TicketActionCancel, TicketInProgress, true},
		{TicketActionCancel, TicketWaitingParts, true},
		{TicketActionCancel, TicketScheduled, true},
		{TicketActionCancel, TicketCompleted, false},
		{TicketActionCancel, TicketCancelled, false},
		{TicketAction("unknown"), TicketOpen, false},
	}

	for _, tt := range cases {
		if got := TicketActionAllowed(tt.action, tt.from); got != tt.valid {
			t.Errorf("TicketActionAllowed(%q, %q)=%v, want %v", tt.action, tt.from, got, tt.valid)
		}
	}
}

func TestTicketActionTarget(t *testing.T) {
	cases := []struct {
		action TicketAction
		want   TicketStatus
	}{
		{TicketActionAssign, TicketWaitingVendor},
		{TicketActionVendorAccept, TicketInProgress},
		{TicketActionVendorReject, TicketOpen},
		{TicketActionSchedule, TicketScheduled},
		{TicketActionComplete, TicketCompleted},
		{TicketActionCancel, TicketCancelled},
	}

	for _, tt := range cases {
		got, ok := TicketActionTarget(tt.action)
		if !ok || got != tt.want {
			t.Errorf("TicketActionTarget(%q)=(%q, %v), want (%q, true)", tt.action, got, ok, tt.want)
		}
	}

	if _, ok := TicketActionTarget(TicketAction("unknown")); ok {
		t.Error("TicketActionTarget should not resolve unknown actions")
	}
}

func TestAppointmentTransitionAllowed(t *testing.T) {
	cases := []struct {
		from  AppointmentStatus
		to    AppointmentStatus
		valid bool
	}{
		{AppointmentScheduled, AppointmentConfirmed, true},
		{AppointmentScheduled, AppointmentCancelled, true},
		{AppointmentScheduled, AppointmentNoShow, true},
		{AppointmentScheduled, AppointmentInProgress, false},
		{AppointmentScheduled, AppointmentCompleted, false},
		{AppointmentConfirmed, AppointmentInProgress, true},
		{AppointmentConfirmed, AppointmentCancelled, true},
		{AppointmentConfirmed, AppointmentCompleted, false},
		{AppointmentInProgress, AppointmentCompleted, true},
		{AppointmentInProgress, AppointmentCancelled, false},
		{AppointmentCompleted, AppointmentScheduled, false},
		{AppointmentCompleted, AppointmentInProgress, false},
		{AppointmentCancelled, AppointmentScheduled, false},
		{AppointmentNoShow, AppointmentScheduled, false},
	}

	for _, tt := range cases {
		if got := AppointmentTransitionAllowed(tt.from, tt.to); got != tt.valid {
			t.Errorf("AppointmentTransitionAllowed(%q, %q)=%v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}

func TestAppointmentActive(t *testing.T) {
	active := []AppointmentStatus{
		AppointmentScheduled, AppointmentConfirmed, AppointmentInProgress,
	}
	inactive := []AppointmentStatus{
		AppointmentCompleted, AppointmentCancelled, AppointmentNoShow,
	}

	for _, s := range active {
		if !AppointmentActive(s) {
			t.Errorf("AppointmentActive(%q)=false, want true", s)
		}
	}
	for _, s := range inactive {
		if AppointmentActive(s) {
			t.Errorf("AppointmentActive(%q)=true, want false", s)
		}
	}
}

func TestInvoiceTransitionAllowed(t *testing.T) {
	cases := []struct {
		from  InvoiceStatus
		to    InvoiceStatus
		valid bool
	}{
		{InvoiceDraft, InvoicePending, true},
		{InvoiceDraft, InvoiceCancelled, true},
		{InvoiceDraft, InvoiceApproved, false},
		{InvoicePending, InvoiceApproved, true},
		{InvoicePending, InvoiceRejected, true},
		{InvoicePending, InvoiceCancelled, true},
		{InvoicePending, InvoicePaid, false},
		{InvoiceApproved, InvoicePaid, true},
		{InvoiceApproved, InvoiceCancelled, true},
		{InvoiceApproved, InvoiceRejected, false},
		{InvoiceRejected, InvoiceCancelled, true},
		{InvoicePaid, InvoiceCancelled, false},
		{InvoicePaid, InvoicePending, false},
		{InvoiceCancelled, InvoicePending, false},
	}

	for _, tt := range cases {
		if got := InvoiceTransitionAllowed(tt.from, tt.to); got != tt.valid {
			t.Errorf("InvoiceTransitionAllowed(%q, %q)=%v, want %v", tt.from, tt.to, got, tt.valid)
		}
	}
}
