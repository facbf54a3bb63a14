package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
	"github.com/spec-kit/helpdesk-sla/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-sla/pkg/util/errorutil"
)

func seedTicket(t *testing.T, store *Store, due time.Time, status domain.TicketStatus) *domain.Ticket {
	t.Helper()
	ticket := &domain.Ticket{
		TenantID:        1,
		Title:           "t",
		Description:     "d",
		Priority:        domain.TicketPriorityLow,
		Status:          status,
		CreatedByUserID: 1,
		SLADue:          &due,
	}
	require.NoError(t, store.Tickets().Create(context.Background(), ticket))
	return ticket
}

func TestEscalateBreachedIsConditional(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

	breached := seedTicket(t, store, now.Add(-time.Hour), domain.TicketStatusOpen)
	seedTicket(t, store, now.Add(time.Hour), domain.TicketStatusOpen)
	seedTicket(t, store, now.Add(-time.Hour), domain.TicketStatusClosed)
	seedTicket(t, store, now.Add(-time.Hour), domain.TicketStatusResolved)

	escalated, err := store.Tickets().EscalateBreached(ctx, now)
	require.NoError(t, err)
	require.Len(t, escalated, 1)
	assert.Equal(t, breached.ID, escalated[0].ID)
	assert.True(t, escalated[0].IsEscalated)

	again, err := store.Tickets().EscalateBreached(ctx, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestMutateRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	ticket := seedTicket(t, store, time.Now().Add(time.Hour), domain.TicketStatusOpen)

	_, err := store.Tickets().Mutate(ctx, ticket.ID, func(tk *domain.Ticket) error {
		tk.Status = domain.TicketStatusClosed
		return apperrors.NewForbidden("nope")
	})
	require.Error(t, err)

	got, err := store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, got.Status)
}

func TestMutateDoesNotWriteSLAOrEscalation(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	due := time.Now().Add(time.Hour)
	ticket := seedTicket(t, store, due, domain.TicketStatusOpen)

	_, err := store.Tickets().Mutate(ctx, ticket.ID, func(tk *domain.Ticket) error {
		later := due.Add(48 * time.Hour)
		tk.SLADue = &later
		tk.IsEscalated = true
		tk.Status = domain.TicketStatusInProgress
		return nil
	})
	require.NoError(t, err)

	got, err := store.Tickets().GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, got.Status)
	assert.True(t, got.SLADue.Equal(due))
	assert.False(t, got.IsEscalated)
}

func TestMutateMissingTicket(t *testing.T) {
	_, err := NewStore().Tickets().Mutate(context.Background(), 99, func(*domain.Ticket) error { return nil })
	assert.True(t, apperrors.IsNoRows(err))
}

func TestConcurrentSweepAndStatusUpdateKeepBothEffects(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Now().UTC()

	var ids []int64
	for i := 0; i < 50; i++ {
		ids = append(ids, seedTicket(t, store, now.Add(-time.Minute), domain.TicketStatusOpen).ID)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for _, id := range ids {
			_, err := store.Tickets().Mutate(ctx, id, func(tk *domain.Ticket) error {
				tk.Status = domain.TicketStatusInProgress
				return nil
			})
			assert.NoError(t, err)
		}
	}()
	go func() {
		defer wg.Done()
		_, err := store.Tickets().EscalateBreached(ctx, now)
		assert.NoError(t, err)
	}()
	wg.Wait()

	for _, id := range ids {
		got, err := store.Tickets().GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.TicketStatusInProgress, got.Status)
		assert.True(t, got.IsEscalated, "escalation lost for ticket %d", id)
	}
}

func TestListWithFilterScopesAndPages(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		tk := &domain.Ticket{TenantID: 1, Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow, CreatedByUserID: int64(i%2 + 10), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, store.Tickets().Create(ctx, tk))
	}
	other := &domain.Ticket{TenantID: 2, Status: domain.TicketStatusOpen, CreatedByUserID: 10}
	require.NoError(t, store.Tickets().Create(ctx, other))

	tenant := int64(1)
	all, err := store.Tickets().ListWithFilter(ctx, repository.TicketFilter{TenantID: &tenant})
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.True(t, all[0].CreatedAt.After(all[4].CreatedAt))

	creator := int64(10)
	own, err := store.Tickets().ListWithFilter(ctx, repository.TicketFilter{TenantID: &tenant, CreatedByUserID: &creator})
	require.NoError(t, err)
	assert.Len(t, own, 3)

	page, err := store.Tickets().ListWithFilter(ctx, repository.TicketFilter{TenantID: &tenant, Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestUserEmailIsUnique(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()
	require.NoError(t, users.Create(ctx, &domain.User{TenantID: 1, Email: "a@example.com", Role: domain.RoleAdmin}))
	err := users.Create(ctx, &domain.User{TenantID: 2, Email: "A@example.com", Role: domain.RoleCustomer})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}
