package httpgin

import "time"

type AssignVendorRequest struct {
	VendorID int64 `json:"vendor_id" binding:"required,gt=0"`
}

type RespondAssignmentRequest struct {
	Action         string  `json:"action" binding:"required,oneof=accept reject"`
	EstimatedCents *int64  `json:"estimated_cents" binding:"omitempty,gte=0"`
	Notes          *string `json:"notes"`
}

type ScheduleAppointmentRequest struct {
	StartsAt string `json:"starts_at" binding:"required"`
	EndsAt   string `json:"ends_at" binding:"required"`
	Notes    string `json:"notes"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed in_progress completed cancelled no_show"`
}

type InvoiceItemInput struct {
	Description    string `json:"description" binding:"required"`
	Quantity       int64  `json:"quantity" binding:"required,gt=0"`
	UnitPriceCents int64  `json:"unit_price_cents" binding:"gte=0"`
}

type SubmitInvoiceRequest struct {
	Items         []InvoiceItemInput `json:"items" binding:"required,min=1,dive"`
	TaxCents      int64              `json:"tax_cents" binding:"gte=0"`
	DiscountCents int64              `json:"discount_cents" binding:"gte=0"`
	Notes         string             `json:"notes"`
	DueDate       string             `json:"due_date"`
}

type DecideInvoiceRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approve reject"`
	Reason   string `json:"reason"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
