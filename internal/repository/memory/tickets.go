package memory

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
	"github.com/spec-kit/helpdesk-sla/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-sla/pkg/util/errorutil"
)

type ticketRepo struct{ s *Store }

func (r ticketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket.ID = r.s.nextID()
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = r.s.now()
	}
	ticket.UpdatedAt = ticket.CreatedAt
	r.s.tickets[ticket.ID] = cloneTicket(*ticket)
	return nil
}

func (r ticketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ticket, ok := r.s.tickets[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := cloneTicket(ticket)
	return &out, nil
}

func (r ticketRepo) Mutate(_ context.Context, id int64, fn repository.TicketMutator) (*domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.tickets[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	working := cloneTicket(stored)
	if err := fn(&working); err != nil {
		return nil, err
	}
	stored.Status = working.Status
	stored.AssignedToUserID = cloneInt64(working.AssignedToUserID)
	stored.UpdatedAt = working.UpdatedAt
	r.s.tickets[id] = stored
	out := cloneTicket(stored)
	return &out, nil
}

func (r ticketRepo) EscalateBreached(_ context.Context, now time.Time) ([]domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var escalated []domain.Ticket
	for id, ticket := range r.s.tickets {
		if !ticket.IsBreached(now) {
			continue
		}
		at := now
		ticket.IsEscalated = true
		ticket.EscalatedAt = &at
		r.s.tickets[id] = ticket
		escalated = append(escalated, cloneTicket(ticket))
	}
	sort.Slice(escalated, func(i, j int) bool { return escalated[i].ID < escalated[j].ID })
	return escalated, nil
}

func (r ticketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []domain.Ticket
	for _, ticket := range r.s.tickets {
		if matches(ticket, filter) {
			matched = append(matched, cloneTicket(ticket))
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func matches(t domain.Ticket, f repository.TicketFilter) bool {
	if f.TenantID != nil && t.TenantID != *f.TenantID {
		return false
	}
	if f.CreatedByUserID != nil && t.CreatedByUserID != *f.CreatedByUserID {
		return false
	}
	if f.AssignedToUserID != nil && !t.IsAssignedTo(*f.AssignedToUserID) {
		return false
	}
	if f.Escalated != nil && t.IsEscalated != *f.Escalated {
		return false
	}
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, t.Status) {
		return false
	}
	if len(f.Priorities) > 0 && !containsPriority(f.Priorities, t.Priority) {
		return false
	}
	return true
}

func containsStatus(list []domain.TicketStatus, s domain.TicketStatus) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}

func containsPriority(list []domain.TicketPriority, p domain.TicketPriority) bool {
	for _, candidate := range list {
		if candidate == p {
			return true
		}
	}
	return false
}

func cloneTicket(t domain.Ticket) domain.Ticket {
	t.AssignedToUserID = cloneInt64(t.AssignedToUserID)
	if t.Category != nil {
		c := *t.Category
		t.Category = &c
	}
	if t.SLADue != nil {
		d := *t.SLADue
		t.SLADue = &d
	}
	if t.EscalatedAt != nil {
		e := *t.EscalatedAt
		t.EscalatedAt = &e
	}
	return t
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
