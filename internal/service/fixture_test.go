package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-sla/internal/auth"
	"github.com/spec-kit/helpdesk-sla/internal/domain"
	"github.com/spec-kit/helpdesk-sla/internal/events"
	"github.com/spec-kit/helpdesk-sla/internal/observability"
	"github.com/spec-kit/helpdesk-sla/internal/repository/memory"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordedEvents struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordedEvents) handler(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordedEvents) ofType(t events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, ev := range r.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

type fixture struct {
	t       *testing.T
	ctx     context.Context
	clock   *fakeClock
	store   *memory.Store
	events  *recordedEvents
	metrics *observability.Metrics
	seq     int

	tickets     *TicketService
	assignments *AssignmentService
	sla         *SLAService
	comments    *CommentService
	tenants     *TenantService
	providers   *ProviderService
	auth        *AuthService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	store := memory.NewStore().WithClock(clock.Now)
	dispatcher := events.NewInMemoryDispatcher(nil)
	recorded := &recordedEvents{}
	for _, et := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketAssigned,
		events.EventTicketEscalated,
		events.EventTicketCommentAdded,
	} {
		dispatcher.Subscribe(et, recorded.handler)
	}
	metrics := observability.NewMetrics()

	return &fixture{
		t:       t,
		ctx:     context.Background(),
		clock:   clock,
		store:   store,
		events:  recorded,
		metrics: metrics,
		tickets: NewTicketService(TicketDependencies{
			TicketRepo:  store.Tickets(),
			HistoryRepo: store.History(),
			Dispatcher:  dispatcher,
			Clock:       clock.Now,
		}),
		assignments: NewAssignmentService(AssignmentDependencies{
			TicketRepo:  store.Tickets(),
			UserRepo:    store.Users(),
			HistoryRepo: store.History(),
			Dispatcher:  dispatcher,
			Clock:       clock.Now,
		}),
		sla: NewSLAService(SLADependencies{
			TicketRepo:  store.Tickets(),
			HistoryRepo: store.History(),
			Dispatcher:  dispatcher,
			Metrics:     metrics,
			Clock:       clock.Now,
		}),
		comments: NewCommentService(CommentDependencies{
			TicketRepo:  store.Tickets(),
			CommentRepo: store.Comments(),
			Dispatcher:  dispatcher,
			Clock:       clock.Now,
		}),
		tenants:   NewTenantService(store.Tenants()),
		providers: NewProviderService(store.Providers()),
		auth: NewAuthService(AuthDependencies{
			UserRepo:     store.Users(),
			TenantRepo:   store.Tenants(),
			TokenManager: auth.NewTokenManager("test-secret", 10),
			BcryptCost:   4,
		}),
	}
}

func (f *fixture) tenant(name string) *domain.Tenant {
	f.t.Helper()
	tenant, err := f.tenants.CreateTenant(f.ctx, name, "")
	require.NoError(f.t, err)
	return tenant
}

func (f *fixture) user(tenantID int64, role domain.Role) *domain.User {
	f.t.Helper()
	f.seq++
	user := &domain.User{TenantID: tenantID, Name: string(role), Email: fmt.Sprintf("%s%d@example.com", role, f.seq), Role: role}
	require.NoError(f.t, f.store.Users().Create(f.ctx, user))
	return user
}

func (f *fixture) ticket(actor *domain.User, priority domain.TicketPriority) *domain.Ticket {
	f.t.Helper()
	ticket, err := f.tickets.CreateTicket(f.ctx, actor, TicketCreateInput{
		TenantID:    actor.TenantID,
		Title:       "Printer jammed",
		Description: "the office printer jams on every page",
		Priority:    string(priority),
	})
	require.NoError(f.t, err)
	return ticket
}
