package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/propflow/maintgo/internal/domain"
	redisx "github.com/propflow/maintgo/internal/redis"
	postgresrepo "github.com/propflow/maintgo/internal/repository/postgres"
	redisrepo "github.com/propflow/maintgo/internal/repository/redis"
	"github.com/propflow/maintgo/internal/service/billing"
	"github.com/propflow/maintgo/internal/service/lifecycle"
	"github.com/propflow/maintgo/internal/service/scheduling"
)

const (
	landlordID = int64(7)
	vendorUser = int64(42)
	tenantUser = int64(99)
)

var (
	landlord = domain.Actor{UserID: landlordID, Role: domain.RoleLandlord}
	vendor   = domain.Actor{UserID: vendorUser, Role: domain.RoleVendor}
	stranger = domain.Actor{UserID: tenantUser, Role: domain.RoleTenant}
)

func TestTicketWorkflowEndToEnd(t *testing.T) {
	ctx := context.Background()
	env := setupTestServices(t, ctx)

	ticket := env.newTicket(t, ctx)

	// landlord assigns, vendor is still free to decline
	got, err := env.svcs.Lifecycle.AssignVendor(ctx, landlord, ticket.ID, env.vendorID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if got.Status != domain.TicketWaitingVendor {
		t.Fatalf("status after assign = %q, want waiting_vendor", got.Status)
	}

	// retrying the same assignment is a no-op success
	again, err := env.svcs.Lifecycle.AssignVendor(ctx, landlord, ticket.ID, env.vendorID)
	if err != nil {
		t.Fatalf("assign retry: %v", err)
	}
	if again.Status != domain.TicketWaitingVendor {
		t.Fatalf("status after retry = %q", again.Status)
	}

	est := int64(15000)
	notes := "needs a new trap"
	got, err = env.svcs.Lifecycle.RespondToAssignment(ctx, vendor, ticket.ID, true, &est, &notes)
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got.Status != domain.TicketInProgress {
		t.Fatalf("status after accept = %q, want in_progress", got.Status)
	}
	if got.EstimatedCents == nil || *got.EstimatedCents != est {
		t.Fatalf("estimate = %v, want %d", got.EstimatedCents, est)
	}

	start := time.Date(2026, 4, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	appt, err := env.svcs.Scheduling.Schedule(ctx, vendor, ticket.ID, start, end, "")
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if appt.Status != domain.AppointmentScheduled {
		t.Fatalf("appointment status = %q", appt.Status)
	}

	got, err = env.svcs.Query.Ticket(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("query ticket: %v", err)
	}
	if got.Status != domain.TicketScheduled {
		t.Fatalf("ticket status after schedule = %q, want scheduled", got.Status)
	}

	// identical retry replays the same appointment
	replay, err := env.svcs.Scheduling.Schedule(ctx, vendor, ticket.ID, start, end, "")
	if err != nil {
		t.Fatalf("schedule retry: %v", err)
	}
	if replay.ID != appt.ID {
		t.Fatalf("retry booked a second appointment: %s vs %s", replay.ID, appt.ID)
	}

	// an overlapping slot on another ticket must be refused
	other := env.newTicket(t, ctx)
	env.advanceToInProgress(t, ctx, other)
	_, err = env.svcs.Scheduling.Schedule(ctx, vendor, other.ID,
		start.Add(time.Hour), end.Add(time.Hour), "")
	if !errors.Is(err, scheduling.ErrConflict) {
		t.Fatalf("overlap err = %v, want ErrConflict", err)
	}

	// a back-to-back slot is fine
	b2b, err := env.svcs.Scheduling.Schedule(ctx, vendor, other.ID, end, end.Add(time.Hour), "")
	if err != nil {
		t.Fatalf("back-to-back schedule: %v", err)
	}

	// walk the first appointment to completion
	for _, next := range []domain.AppointmentStatus{
		domain.AppointmentConfirmed,
		domain.AppointmentInProgress,
		domain.AppointmentCompleted,
	} {
		if appt, err = env.svcs.Scheduling.UpdateStatus(ctx, vendor, appt.ID, next); err != nil {
			t.Fatalf("update to %s: %v", next, err)
		}
	}
	if appt.ActualStart == nil || appt.ActualEnd == nil {
		t.Fatalf("actual times not stamped: %+v", appt)
	}

	got, err = env.svcs.Query.Ticket(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("query ticket: %v", err)
	}
	if got.Status != domain.TicketCompleted {
		t.Fatalf("ticket status after completion = %q, want completed", got.Status)
	}

	// cancelled appointment leaves its ticket scheduled
	if _, err := env.svcs.Scheduling.UpdateStatus(
		ctx, vendor, b2b.ID, domain.AppointmentCancelled); err != nil {
		t.Fatalf("cancel appointment: %v", err)
	}
	otherGot, err := env.svcs.Query.Ticket(ctx, other.ID)
	if err != nil {
		t.Fatalf("query other: %v", err)
	}
	if otherGot.Status != domain.TicketScheduled {
		t.Fatalf("other ticket = %q, want scheduled", otherGot.Status)
	}

	// and books again through a fresh Schedule call
	rebooked, err := env.svcs.Scheduling.Schedule(ctx, vendor, other.ID, end, end.Add(time.Hour), "")
	if err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
	if rebooked.ID == b2b.ID {
		t.Fatal("rebook returned the cancelled appointment")
	}
	otherGot, err = env.svcs.Query.Ticket(ctx, other.ID)
	if err != nil {
		t.Fatalf("query other: %v", err)
	}
	if otherGot.ScheduledDate == nil || !otherGot.ScheduledDate.Equal(end) {
		t.Fatalf("scheduledDate after rebook = %v, want %v", otherGot.ScheduledDate, end)
	}

	// one live slot per ticket: a different interval is refused while it holds
	_, err = env.svcs.Scheduling.Schedule(ctx, vendor, other.ID,
		end.Add(2*time.Hour), end.Add(3*time.Hour), "")
	if !errors.Is(err, scheduling.ErrConflict) {
		t.Fatalf("second live slot err = %v, want ErrConflict", err)
	}

	// vendor invoices the completed work; spoofed totals are recomputed
	inv, err := env.svcs.Billing.Submit(ctx, vendor, ticket.ID, billing.SubmitInput{
		Items: []domain.InvoiceItem{
			{Description: "Labor", Quantity: 3, UnitPriceCents: 5000, AmountCents: 1},
			{Description: "Trap assembly", Quantity: 1, UnitPriceCents: 3600, AmountCents: 1},
		},
		TaxCents:      1860,
		DiscountCents: 500,
	})
	if err != nil {
		t.Fatalf("submit invoice: %v", err)
	}
	if inv.SubtotalCents != 18600 {
		t.Errorf("subtotal = %d, want 18600", inv.SubtotalCents)
	}
	if inv.TotalCents != 19960 {
		t.Errorf("total = %d, want 19960", inv.TotalCents)
	}
	if inv.Status != domain.InvoicePending {
		t.Errorf("invoice status = %q, want pending", inv.Status)
	}

	// only one live invoice per ticket
	_, err = env.svcs.Billing.Submit(ctx, vendor, ticket.ID, billing.SubmitInput{
		Items: []domain.InvoiceItem{{Description: "x", Quantity: 1, UnitPriceCents: 100}},
	})
	if !errors.Is(err, billing.ErrActiveInvoice) {
		t.Fatalf("second submit err = %v, want ErrActiveInvoice", err)
	}

	inv, err = env.svcs.Billing.Decide(ctx, landlord, inv.ID, true, "")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if inv.Status != domain.InvoiceApproved {
		t.Fatalf("invoice status = %q, want approved", inv.Status)
	}

	inv, err = env.svcs.Billing.MarkPaid(ctx, landlord, inv.ID)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if inv.Status != domain.InvoicePaid {
		t.Fatalf("invoice status = %q, want paid", inv.Status)
	}
}

func TestConcurrentSchedulingOneWinner(t *testing.T) {
	ctx := context.Background()
	env := setupTestServices(t, ctx)

	a := env.newTicket(t, ctx)
	b := env.newTicket(t, ctx)
	env.advanceToInProgress(t, ctx, a)
	env.advanceToInProgress(t, ctx, b)

	start := time.Date(2026, 4, 3, 9, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, id := range []uuid.UUID{a.ID, b.ID} {
		wg.Add(1)
		go func(ticketID uuid.UUID) {
			defer wg.Done()
			_, err := env.svcs.Scheduling.Schedule(
				ctx, vendor, ticketID, start, start.Add(2*time.Hour), "")
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)

	var ok, conflict int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, scheduling.ErrConflict):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflict != 1 {
		t.Fatalf("ok=%d conflict=%d, want exactly one winner", ok, conflict)
	}
}

func TestUnauthorizedActorsRejected(t *testing.T) {
	ctx := context.Background()
	env := setupTestServices(t, ctx)

	ticket := env.newTicket(t, ctx)

	if _, err := env.svcs.Lifecycle.AssignVendor(
		ctx, stranger, ticket.ID, env.vendorID); !errors.Is(err, lifecycle.ErrUnauthorized) {
		t.Fatalf("stranger assign err = %v, want ErrUnauthorized", err)
	}

	if _, err := env.svcs.Lifecycle.RespondToAssignment(
		ctx, vendor, ticket.ID, true, nil, nil); !errors.Is(err, lifecycle.ErrUnauthorized) {
		t.Fatalf("unassigned vendor respond err = %v, want ErrUnauthorized", err)
	}

	env.advanceToInProgress(t, ctx, ticket)

	start := time.Date(2026, 4, 4, 9, 0, 0, 0, time.UTC)
	if _, err := env.svcs.Scheduling.Schedule(
		ctx, stranger, ticket.ID, start, start.Add(time.Hour), ""); !errors.Is(err, scheduling.ErrUnauthorized) {
		t.Fatalf("stranger schedule err = %v, want ErrUnauthorized", err)
	}
}

func TestInvoiceRequiresCompletedTicket(t *testing.T) {
	ctx := context.Background()
	env := setupTestServices(t, ctx)

	ticket := env.newTicket(t, ctx)
	env.advanceToInProgress(t, ctx, ticket)

	_, err := env.svcs.Billing.Submit(ctx, vendor, ticket.ID, billing.SubmitInput{
		Items: []domain.InvoiceItem{{Description: "x", Quantity: 1, UnitPriceCents: 100}},
	})
	if !errors.Is(err, billing.ErrTicketNotCompleted) {
		t.Fatalf("submit err = %v, want ErrTicketNotCompleted", err)
	}

	if _, err := env.svcs.Billing.Decide(
		ctx, landlord, uuid.New(), false, ""); !errors.Is(err, billing.ErrReasonRequired) {
		t.Fatalf("reject without reason err = %v, want ErrReasonRequired", err)
	}
}

func TestVendorAvailabilityView(t *testing.T) {
	ctx := context.Background()
	env := setupTestServices(t, ctx)

	ticket := env.newTicket(t, ctx)
	env.advanceToInProgress(t, ctx, ticket)

	day := time.Date(2026, 4, 6, 0, 0, 0, 0, time.UTC)

	av, err := env.svcs.Query.VendorAvailability(ctx, env.vendorID, day)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if !av.IsAvailable || len(av.Appointments) != 0 {
		t.Fatalf("expected free day, got %+v", av)
	}

	if _, err := env.svcs.Scheduling.Schedule(
		ctx, vendor, ticket.ID, day.Add(9*time.Hour), day.Add(11*time.Hour), ""); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	// booking invalidates the cached day
	av, err = env.svcs.Query.VendorAvailability(ctx, env.vendorID, day)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if av.IsAvailable || len(av.Appointments) != 1 {
		t.Fatalf("expected one booked slot, got %+v", av)
	}
}

func TestTransitionPublishesNudge(t *testing.T) {
	ctx := context.Background()
	env := setupTestServices(t, ctx)

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	type nudge struct {
		userID         int64
		notificationID uuid.UUID
	}
	got := make(chan nudge, 1)
	go func() {
		_ = env.pubsub.Subscribe(subCtx, func(ctx context.Context, userID int64, notificationID uuid.UUID) {
			select {
			case got <- nudge{userID, notificationID}:
			default:
			}
		})
	}()
	// let the subscription attach before publishing
	time.Sleep(200 * time.Millisecond)

	ticket := env.newTicket(t, ctx)
	if _, err := env.svcs.Lifecycle.AssignVendor(ctx, landlord, ticket.ID, env.vendorID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	select {
	case n := <-got:
		if n.userID != vendorUser {
			t.Fatalf("nudge user = %d, want %d", n.userID, vendorUser)
		}
		if n.notificationID == uuid.Nil {
			t.Fatal("nudge carries no notification id")
		}
	case <-subCtx.Done():
		t.Fatal("no nudge received after the transition committed")
	}
}

// --- test harness ---

type testEnv struct {
	svcs       *Services
	store      *postgresrepo.Store
	pubsub     *redisx.NotificationsPubSub
	vendorID   int64
	propertyID int64
}

func (e *testEnv) newTicket(t *testing.T, ctx context.Context) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		ID:          uuid.New(),
		PropertyID:  e.propertyID,
		CreatedByID: landlordID,
		Category:    "plumbing",
		Priority:    domain.PriorityHigh,
		Title:       "Leaking sink",
		Status:      domain.TicketOpen,
	}
	if err := e.store.Tickets().Create(ctx, ticket); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	return ticket
}

func (e *testEnv) advanceToInProgress(t *testing.T, ctx context.Context, ticket *domain.Ticket) {
	t.Helper()
	if _, err := e.svcs.Lifecycle.AssignVendor(ctx, landlord, ticket.ID, e.vendorID); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := e.svcs.Lifecycle.RespondToAssignment(ctx, vendor, ticket.ID, true, nil, nil); err != nil {
		t.Fatalf("accept: %v", err)
	}
}

func setupTestServices(t *testing.T, ctx context.Context) *testEnv {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		dsn = os.Getenv("DB_DSN")
	}
	if dsn == "" {
		t.Skip("TEST_DB_DSN or DB_DSN is required for integration tests")
	}
	redisAddr := os.Getenv("TEST_REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("TEST_REDIS_ADDR is required for integration tests")
	}

	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	if err := execOnce(ctx, dsn, "CREATE SCHEMA "+schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		_ = execOnce(context.Background(), dsn, "DROP SCHEMA "+schema+" CASCADE")
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		t.Fatalf("open pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := applyMigrations(ctx, pool, filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	rdb, err := redisx.New(ctx, redisx.Config{Addr: redisAddr, DB: 1})
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.FlushDB(context.Background()).Err(); _ = rdb.Close() })

	store := postgresrepo.NewStore(pool)
	ps := redisx.NewNotificationsPubSub(rdb)
	svcs := New(store, redisrepo.New(rdb), ps)

	v := &domain.Vendor{
		UserID:       vendorUser,
		BusinessName: "Ace Plumbing",
		Category:     "plumbing",
		Active:       true,
	}
	if err := store.Directory().CreateVendor(ctx, v); err != nil {
		t.Fatalf("seed vendor: %v", err)
	}
	propertyID, err := store.Directory().CreateProperty(ctx, landlordID, "12 Oak St")
	if err != nil {
		t.Fatalf("seed property: %v", err)
	}

	return &testEnv{
		svcs:       svcs,
		store:      store,
		pubsub:     ps,
		vendorID:   v.ID,
		propertyID: propertyID,
	}
}

func execOnce(ctx context.Context, dsn, sql string) error {
	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	_, err = conn.Exec(ctx, sql)
	return err
}

func applyMigrations(ctx context.Context, pool *pgxpool.Pool, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	for _, name := range files {
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if strings.TrimSpace(string(content)) == "" {
			continue
		}
		if _, err := pool.Exec(ctx, string(content)); err != nil {
			return err
		}
	}
	return nil
}
