package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/propflow/maintgo/internal/domain"
	redisrepo "github.com/propflow/maintgo/internal/repository/redis"
	"github.com/propflow/maintgo/internal/service"
	"github.com/propflow/maintgo/internal/service/billing"
	"github.com/propflow/maintgo/internal/service/lifecycle"
	"github.com/propflow/maintgo/internal/service/query"
	"github.com/propflow/maintgo/internal/service/scheduling"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	limiter *redisrepo.SlidingWindowLimiter,
	logger *slog.Logger,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS())
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// read side
	r.GET("/tickets/:id", handleGetTicket(svcs))
	r.GET("/appointments/:id", handleGetAppointment(svcs))
	r.GET("/invoices/:id", handleGetInvoice(svcs))
	r.GET("/vendors/:id/availability", handleVendorAvailability(svcs))
	r.GET("/vendors/:id/tickets", handleTicketsByVendor(svcs))
	r.GET("/properties/:id/tickets", handleTicketsByProperty(svcs))

	// write side: actor identity required
	w := r.Group("/", ActorMiddleware())
	{
		w.POST("/tickets/:id/assign", handleAssignVendor(svcs, idem))
		w.POST("/tickets/:id/respond", handleRespondAssignment(svcs))
		w.POST("/tickets/:id/cancel", handleCancelTicket(svcs))
		w.POST("/tickets/:id/appointments", handleScheduleAppointment(svcs, idem, limiter))
		w.PATCH("/appointments/:id/status", handleUpdateAppointmentStatus(svcs))
		w.POST("/tickets/:id/invoices", handleSubmitInvoice(svcs, idem))
		w.POST("/invoices/:id/decision", handleDecideInvoice(svcs))
		w.POST("/invoices/:id/pay", handleMarkInvoicePaid(svcs))
		w.POST("/invoices/:id/cancel", handleCancelInvoice(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Get ticket
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Success  200  {object}  domain.Ticket
// @Failure  404  {object}  ErrorResponse
// @Router   /tickets/{id} [get]
func handleGetTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		t, err := svcs.Query.Ticket(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, t, "public, max-age=15", true)
	}
}

// @Summary  Get appointment
// @Param    id  path  string  true  "Appointment ID (uuid)"
// @Success  200  {object}  domain.Appointment
// @Router   /appointments/{id} [get]
func handleGetAppointment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		a, err := svcs.Query.Appointment(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// @Summary  Get invoice with line items
// @Param    id  path  string  true  "Invoice ID (uuid)"
// @Success  200  {object}  domain.Invoice
// @Router   /invoices/{id} [get]
func handleGetInvoice(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		inv, err := svcs.Query.Invoice(c.Request.Context(), id)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, inv)
	}
}

// @Summary  Vendor availability for one day
// @Param    id    path   int     true  "Vendor ID"
// @Param    date  query  string  true  "Day (YYYY-MM-DD)"
// @Success  200  {object}  domain.VendorAvailability
// @Failure  404  {object}  ErrorResponse
// @Router   /vendors/{id}/availability [get]
func handleVendorAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		day, err := time.Parse("2006-01-02", c.Query("date"))
		if err != nil {
			badRequest(c, "invalid date (YYYY-MM-DD)")
			return
		}
		av, err := svcs.Query.VendorAvailability(c.Request.Context(), vendorID, day)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 30s
		writeJSONWithCache(c, http.StatusOK, av, "public, max-age=30", true)
	}
}

// @Summary  List tickets assigned to a vendor
// @Param    id     path   int  true  "Vendor ID"
// @Param    limit  query  int  false "page size"
// @Param    offset query  int  false "offset"
// @Success  200  {array}  domain.Ticket
// @Router   /vendors/{id}/tickets [get]
func handleTicketsByVendor(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		limit := parseIntDefault(c.Query("limit"), 20)
		offset := parseIntDefault(c.Query("offset"), 0)

		out, err := svcs.Query.TicketsByVendor(c.Request.Context(), vendorID, limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=15", true)
	}
}

// @Summary  List a property's tickets
// @Param    id     path   int  true  "Property ID"
// @Param    limit  query  int  false "page size"
// @Param    offset query  int  false "offset"
// @Success  200  {array}  domain.Ticket
// @Router   /properties/{id}/tickets [get]
func handleTicketsByProperty(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		propertyID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		limit := parseIntDefault(c.Query("limit"), 20)
		offset := parseIntDefault(c.Query("offset"), 0)

		out, err := svcs.Query.TicketsByProperty(c.Request.Context(), propertyID, limit, offset)
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, out, "public, max-age=15", true)
	}
}

// @Summary  Assign vendor (idempotent)
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Param    req body  AssignVendorRequest true "payload"
// @Header   200 {string} Idempotency-Key "echo"
// @Success  200 {object} domain.Ticket
// @Failure  403 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "wrong state / idem in progress"
// @Router   /tickets/{id}/assign [post]
func handleAssignVendor(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req AssignVendorRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		flow, done := beginIdem(c, idem, "assign", ticketID, http.StatusOK)
		if done {
			return
		}

		t, err := svcs.Lifecycle.AssignVendor(
			c.Request.Context(),
			actorFrom(c),
			ticketID,
			req.VendorID,
		)
		if err != nil {
			flow.abandon(c)
			respondErr(c, err)
			return
		}

		flow.finish(c, t)
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Vendor accepts or rejects an assignment
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Param    req body  RespondAssignmentRequest true "payload"
// @Success  200 {object} domain.Ticket
// @Failure  403 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse
// @Router   /tickets/{id}/respond [post]
func handleRespondAssignment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req RespondAssignmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		t, err := svcs.Lifecycle.RespondToAssignment(
			c.Request.Context(),
			actorFrom(c),
			ticketID,
			req.Action == "accept",
			req.EstimatedCents,
			req.Notes,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Cancel ticket
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Success  200 {object} domain.Ticket
// @Failure  409 {object} ErrorResponse "already terminal"
// @Router   /tickets/{id}/cancel [post]
func handleCancelTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		t, err := svcs.Lifecycle.Cancel(c.Request.Context(), actorFrom(c), ticketID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Book appointment (idempotent, rate limited)
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Param    req body  ScheduleAppointmentRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} domain.Appointment
// @Failure  409 {object} ErrorResponse "slot conflict"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /tickets/{id}/appointments [post]
func handleScheduleAppointment(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	limiter *redisrepo.SlidingWindowLimiter,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req ScheduleAppointmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		start, err := parseRFC3339(req.StartsAt)
		if err != nil {
			badRequest(c, "invalid starts_at (RFC3339)")
			return
		}
		end, err := parseRFC3339(req.EndsAt)
		if err != nil {
			badRequest(c, "invalid ends_at (RFC3339)")
			return
		}

		if limiter != nil {
			allowed, _, retryAfter, err := limiter.Allow(
				c.Request.Context(), "ip:"+c.ClientIP())
			if err == nil && !allowed {
				secs := int(retryAfter/time.Second) + 1
				c.Header("Retry-After", strconv.Itoa(secs))
				c.JSON(http.StatusTooManyRequests,
					ErrorResponse{Error: "rate limited"})
				return
			}
		}

		flow, done := beginIdem(c, idem, "schedule", ticketID, http.StatusCreated)
		if done {
			return
		}

		a, err := svcs.Scheduling.Schedule(
			c.Request.Context(),
			actorFrom(c),
			ticketID,
			start, end,
			req.Notes,
		)
		if err != nil {
			flow.abandon(c)
			respondErr(c, err)
			return
		}

		flow.finish(c, a)
		c.JSON(http.StatusCreated, a)
	}
}

// @Summary  Advance appointment status
// @Param    id  path  string  true  "Appointment ID (uuid)"
// @Param    req body  UpdateAppointmentStatusRequest true "payload"
// @Success  200 {object} domain.Appointment
// @Failure  409 {object} ErrorResponse "invalid transition"
// @Router   /appointments/{id}/status [patch]
func handleUpdateAppointmentStatus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		appointmentID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req UpdateAppointmentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		a, err := svcs.Scheduling.UpdateStatus(
			c.Request.Context(),
			actorFrom(c),
			appointmentID,
			domain.AppointmentStatus(req.Status),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// @Summary  Submit invoice for a completed ticket (idempotent)
// @Param    id  path  string  true  "Ticket ID (uuid)"
// @Param    req body  SubmitInvoiceRequest true "payload"
// @Header   201 {string} Idempotency-Key "echo"
// @Success  201 {object} domain.Invoice
// @Failure  409 {object} ErrorResponse "ticket not completed / active invoice exists"
// @Router   /tickets/{id}/invoices [post]
func handleSubmitInvoice(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticketID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req SubmitInvoiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		in, err := submitInput(req)
		if err != nil {
			badRequest(c, err.Error())
			return
		}

		flow, done := beginIdem(c, idem, "invoice", ticketID, http.StatusCreated)
		if done {
			return
		}

		inv, err := svcs.Billing.Submit(c.Request.Context(), actorFrom(c), ticketID, in)
		if err != nil {
			flow.abandon(c)
			respondErr(c, err)
			return
		}

		flow.finish(c, inv)
		c.JSON(http.StatusCreated, inv)
	}
}

// @Summary  Approve or reject a pending invoice
// @Param    id  path  string  true  "Invoice ID (uuid)"
// @Param    req body  DecideInvoiceRequest true "payload"
// @Success  200 {object} domain.Invoice
// @Failure  400 {object} ErrorResponse "rejection without reason"
// @Failure  409 {object} ErrorResponse "invalid transition"
// @Router   /invoices/{id}/decision [post]
func handleDecideInvoice(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoiceID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req DecideInvoiceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		inv, err := svcs.Billing.Decide(
			c.Request.Context(),
			actorFrom(c),
			invoiceID,
			req.Decision == "approve",
			req.Reason,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, inv)
	}
}

// @Summary  Mark an approved invoice paid
// @Param    id  path  string  true  "Invoice ID (uuid)"
// @Success  200 {object} domain.Invoice
// @Router   /invoices/{id}/pay [post]
func handleMarkInvoicePaid(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoiceID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		inv, err := svcs.Billing.MarkPaid(c.Request.Context(), actorFrom(c), invoiceID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, inv)
	}
}

// @Summary  Cancel a non-paid invoice
// @Param    id  path  string  true  "Invoice ID (uuid)"
// @Success  200 {object} domain.Invoice
// @Router   /invoices/{id}/cancel [post]
func handleCancelInvoice(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		invoiceID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		inv, err := svcs.Billing.Cancel(c.Request.Context(), actorFrom(c), invoiceID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, inv)
	}
}

// --- Helpers ---

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return v, true
}

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func submitInput(req SubmitInvoiceRequest) (billing.SubmitInput, error) {
	in := billing.SubmitInput{
		TaxCents:      req.TaxCents,
		DiscountCents: req.DiscountCents,
		Notes:         req.Notes,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, domain.InvoiceItem{
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		})
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return in, errors.New("invalid due_date (YYYY-MM-DD)")
		}
		in.DueDate = &due
	}
	return in, nil
}

// idemFlow carries one request's idempotency bookkeeping. A zero flow is a
// no-op, so handlers call finish/abandon unconditionally.
type idemFlow struct {
	idem *redisrepo.IdempotencyStore
	key  string
	echo string
}

// beginIdem replays a stored response or takes the in-progress lock. When it
// returns done=true the response has already been written.
func beginIdem(
	c *gin.Context,
	idem *redisrepo.IdempotencyStore,
	scope string,
	entityID uuid.UUID,
	replayStatus int,
) (idemFlow, bool) {
	idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if idem == nil || idemKey == "" {
		return idemFlow{}, false
	}

	key := redisrepo.KeyIdem(scope, entityID, idemKey)

	if payload, ok, _ := idem.GetResult(c.Request.Context(), key); ok {
		c.Header("Idempotency-Key", idemKey)
		c.Data(replayStatus, "application/json; charset=utf-8", []byte(payload))
		return idemFlow{}, true
	}

	locked, err := idem.AcquireLock(c.Request.Context(), key, 60*time.Second)
	if err != nil {
		respondErr(c, err)
		return idemFlow{}, true
	}
	if !locked {
		if payload, ok, _ := idem.GetResult(c.Request.Context(), key); ok {
			c.Header("Idempotency-Key", idemKey)
			c.Data(replayStatus, "application/json; charset=utf-8", []byte(payload))
			return idemFlow{}, true
		}
		c.Header("Retry-After", "1")
		c.JSON(http.StatusConflict,
			ErrorResponse{Error: "idempotency key in progress"})
		return idemFlow{}, true
	}

	return idemFlow{idem: idem, key: key, echo: idemKey}, false
}

func (f idemFlow) finish(c *gin.Context, result any) {
	if f.idem == nil {
		return
	}
	b, _ := json.Marshal(result)
	_ = f.idem.SaveResult(c.Request.Context(), f.key, string(b))
	c.Header("Idempotency-Key", f.echo)
}

func (f idemFlow) abandon(c *gin.Context) {
	if f.idem == nil {
		return
	}
	_ = f.idem.Release(c.Request.Context(), f.key)
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	switch {
	// lifecycle service
	case errors.Is(err, lifecycle.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "ticket not found"})
		return
	case errors.Is(err, lifecycle.ErrVendorNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "vendor not found"})
		return
	case errors.Is(err, lifecycle.ErrUnauthorized):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not allowed"})
		return
	case errors.Is(err, lifecycle.ErrVendorInactive):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "vendor inactive"})
		return
	case errors.Is(err, lifecycle.ErrWrongState):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "wrong ticket state"})
		return
	// scheduling service
	case errors.Is(err, scheduling.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "ticket not found"})
		return
	case errors.Is(err, scheduling.ErrAppointmentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "appointment not found"})
		return
	case errors.Is(err, scheduling.ErrUnauthorized):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not allowed"})
		return
	case errors.Is(err, scheduling.ErrInvalidInterval):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid interval"})
		return
	case errors.Is(err, scheduling.ErrNoVendor):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "ticket has no vendor"})
		return
	case errors.Is(err, scheduling.ErrWrongState):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "wrong ticket state"})
		return
	case errors.Is(err, scheduling.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "slot conflict"})
		return
	case errors.Is(err, scheduling.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "invalid transition"})
		return
	// billing service
	case errors.Is(err, billing.ErrTicketNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "ticket not found"})
		return
	case errors.Is(err, billing.ErrInvoiceNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "invoice not found"})
		return
	case errors.Is(err, billing.ErrUnauthorized):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not allowed"})
		return
	case errors.Is(err, billing.ErrInvalidItems):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid invoice items"})
		return
	case errors.Is(err, billing.ErrReasonRequired):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "rejection requires a reason"})
		return
	case errors.Is(err, billing.ErrTicketNotCompleted):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "ticket not completed"})
		return
	case errors.Is(err, billing.ErrActiveInvoice):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "active invoice exists"})
		return
	case errors.Is(err, billing.ErrInvalidTransition):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "invalid transition"})
		return
	// query service
	case errors.Is(err, query.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
