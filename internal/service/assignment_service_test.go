package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
	"github.com/spec-kit/helpdesk-sla/internal/events"
	apperrors "github.com/spec-kit/helpdesk-sla/pkg/util/errorutil"
)

func TestAssignTicketErrors(t *testing.T) {
	f := newFixture(t)
	a := f.tenant("A")
	b := f.tenant("B")
	adminA := f.user(a.ID, domain.RoleAdmin)
	providerA := f.user(a.ID, domain.RoleProvider)
	customerA := f.user(a.ID, domain.RoleCustomer)
	adminB := f.user(b.ID, domain.RoleAdmin)
	providerB := f.user(b.ID, domain.RoleProvider)

	ticketA := f.ticket(customerA, domain.TicketPriorityLow)
	ticketB := f.ticket(adminB, domain.TicketPriorityLow)

	cases := []struct {
		name     string
		actor    *domain.User
		ticketID int64
		userID   int64
		code     string
	}{
		{"provider cannot assign", providerA, ticketA.ID, providerA.ID, apperrors.CodeForbidden},
		{"missing ticket", adminA, 9999, providerA.ID, apperrors.CodeNotFound},
		{"ticket of another tenant", adminA, ticketB.ID, providerB.ID, apperrors.CodeForbidden},
		{"missing user", adminA, ticketA.ID, 9999, apperrors.CodeNotFound},
		{"cross tenant assignee", adminA, ticketA.ID, providerB.ID, apperrors.CodeCrossTenant},
		{"customer assignee", adminA, ticketA.ID, customerA.ID, apperrors.CodeInvalidAssignee},
		{"admin assignee", adminA, ticketA.ID, adminA.ID, apperrors.CodeInvalidAssignee},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.assignments.AssignTicket(f.ctx, tc.actor, tc.ticketID, tc.userID)
			assert.True(t, apperrors.HasCode(err, tc.code), "got %v", err)
		})
	}

	unchanged, err := f.tickets.GetTicket(f.ctx, adminA, ticketA.ID)
	require.NoError(t, err)
	assert.Nil(t, unchanged.AssignedToUserID)
	assert.Empty(t, f.events.ofType(events.EventTicketAssigned))
}

func TestAssignTicketToProvider(t *testing.T) {
	f := newFixture(t)
	a := f.tenant("A")
	admin := f.user(a.ID, domain.RoleAdmin)
	first := f.user(a.ID, domain.RoleProvider)
	second := f.user(a.ID, domain.RoleProvider)
	customer := f.user(a.ID, domain.RoleCustomer)
	ticket := f.ticket(customer, domain.TicketPriorityMedium)

	assigned, err := f.assignments.AssignTicket(f.ctx, admin, ticket.ID, first.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedToUserID)
	assert.Equal(t, first.ID, *assigned.AssignedToUserID)

	reassigned, err := f.assignments.AssignTicket(f.ctx, admin, ticket.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, *reassigned.AssignedToUserID)

	queue, err := f.tickets.ListAssignedTickets(f.ctx, second, TicketListFilter{})
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, ticket.ID, queue[0].ID)

	empty, err := f.tickets.ListAssignedTickets(f.ctx, first, TicketListFilter{})
	require.NoError(t, err)
	assert.Empty(t, empty)

	assignedEvents := f.events.ofType(events.EventTicketAssigned)
	require.Len(t, assignedEvents, 2)
	payload := assignedEvents[1].Payload.(events.TicketAssignedPayload)
	require.NotNil(t, payload.PreviousAssigneeID)
	assert.Equal(t, first.ID, *payload.PreviousAssigneeID)
	assert.Equal(t, second.ID, payload.AssigneeID)
}
