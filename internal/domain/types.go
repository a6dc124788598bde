package domain

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketOpen          TicketStatus = "open"
	TicketWaitingVendor TicketStatus = "waiting_vendor"
	TicketInProgress    TicketStatus = "in_progress"
	TicketWaitingParts  TicketStatus = "waiting_parts"
	TicketScheduled     TicketStatus = "scheduled"
	TicketCompleted     TicketStatus = "completed"
	TicketCancelled     TicketStatus = "cancelled"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentConfirmed  AppointmentStatus = "confirmed"
	AppointmentInProgress AppointmentStatus = "in_progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
	AppointmentNoShow     AppointmentStatus = "no_show"
)

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoicePending   InvoiceStatus = "pending"
	InvoiceApproved  InvoiceStatus = "approved"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceRejected  InvoiceStatus = "rejected"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

type Role string

const (
	RoleLandlord Role = "landlord"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
	RoleTenant   Role = "tenant"
)

// Actor is the acting principal as resolved by the authentication
// collaborator upstream. The core never checks credentials itself.
type Actor struct {
	UserID int64
	Role   Role
}

type Ticket struct {
	ID              uuid.UUID
	PropertyID      int64
	CreatedByID     int64
	Category        string
	Priority        Priority
	Title           string
	Description     string
	Location        string
	Status          TicketStatus
	VendorID        *int64
	AssignedToID    *int64
	EstimatedCents  *int64
	AcceptanceNotes *string
	ScheduledDate   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

type Vendor struct {
	ID           int64
	UserID       int64
	BusinessName string
	Category     string
	Active       bool
}

type Appointment struct {
	ID             uuid.UUID
	TicketID       uuid.UUID
	VendorID       int64
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	Status         AppointmentStatus
	ActualStart    *time.Time
	ActualEnd      *time.Time
	Notes          string
	CreatedAt      time.Time
}

// Interval is an appointment's committed slot as seen by the
// conflict detector. Half-open: [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (a Appointment) Interval() Interval {
	return Interval{Start: a.ScheduledStart, End: a.ScheduledEnd}
}

type InvoiceItem struct {
	Description    string
	Quantity       int64
	UnitPriceCents int64
	AmountCents    int64
}

type Invoice struct {
	ID            uuid.UUID
	TicketID      uuid.UUID
	VendorID      int64
	Items         []InvoiceItem
	SubtotalCents int64
	TaxCents      int64
	DiscountCents int64
	TotalCents    int64
	Status        InvoiceStatus
	RejectReason  *string
	Notes         string
	DueDate       *time.Time
	CreatedAt     time.Time
}

// Notification is the trigger row handed to the delivery collaborator.
// Delivery itself (email/SMS/push) happens outside this core.
type Notification struct {
	ID        uuid.UUID
	UserID    int64
	Type      string
	Title     string
	Message   string
	ActionURL string
	Metadata  map[string]any
	CreatedAt time.Time
}

// ActivityEntry is one audit-log record, written once per transition.
type ActivityEntry struct {
	ID        uuid.UUID
	UserID    int64
	Type      string
	Action    string
	Metadata  map[string]any
	CreatedAt time.Time
}

// VendorAvailability is the read-only derived view for one vendor and
// one calendar day.
type VendorAvailability struct {
	VendorID          int64
	Date              time.Time
	Appointments      []Appointment
	ActiveTicketCount int64
	IsAvailable       bool
}
