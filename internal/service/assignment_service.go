package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
	"github.com/spec-kit/helpdesk-sla/internal/events"
	"github.com/spec-kit/helpdesk-sla/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-sla/pkg/util/errorutil"
)

// AssignmentService handles ticket assignment operations.
type AssignmentService struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
	now     Clock
	audit   auditTrail
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	TicketRepo  repository.TicketRepository
	UserRepo    repository.UserRepository
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
	Clock       Clock
	Logger      *zap.Logger
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	return &AssignmentService{
		tickets: deps.TicketRepo,
		users:   deps.UserRepo,
		now:     clockOrDefault(deps.Clock),
		audit: auditTrail{
			history:    deps.HistoryRepo,
			dispatcher: deps.Dispatcher,
			logger:     loggerOrNop(deps.Logger),
		},
	}
}

// AssignTicket hands a ticket to a provider of the same tenant. Only admins
// may assign.
func (s *AssignmentService) AssignTicket(ctx context.Context, actor *domain.User, ticketID, userID int64) (*domain.Ticket, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("only admins can assign tickets")
	}

	ticket, err := loadTicket(ctx, s.tickets, ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.TenantID != actor.TenantID {
		return nil, apperrors.NewForbidden("ticket belongs to another tenant")
	}

	assignee, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if apperrors.IsNoRows(err) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}
	if assignee.TenantID != ticket.TenantID {
		return nil, apperrors.NewCrossTenant("assignee belongs to another tenant", map[string]any{
			"ticket_tenant_id":   ticket.TenantID,
			"assignee_tenant_id": assignee.TenantID,
		})
	}
	if !assignee.IsProvider() {
		return nil, apperrors.NewInvalidAssignee("assignee must be a provider", map[string]any{
			"user_id": userID,
			"role":    assignee.Role,
		})
	}

	var previous *int64
	now := s.now()
	updated, err := s.tickets.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		if t.TenantID != assignee.TenantID {
			return apperrors.NewCrossTenant("assignee belongs to another tenant", nil)
		}
		previous = t.AssignedToUserID
		id := assignee.ID
		t.AssignedToUserID = &id
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, ticketError(err, ticketID)
	}

	s.audit.record(ctx, &domain.TicketHistory{
		TicketID:        updated.ID,
		ChangedByUserID: actorID(actor),
		ChangeType:      domain.ChangeTypeAssignee,
		OldValue:        map[string]any{"assigned_to_user_id": previous},
		NewValue:        map[string]any{"assigned_to_user_id": assignee.ID},
	})
	s.audit.publish(ctx, events.NewTicketEvent(events.EventTicketAssigned, updated, events.UserActor(actor), now, events.TicketAssignedPayload{
		PreviousAssigneeID: previous,
		AssigneeID:         assignee.ID,
	}))
	return updated, nil
}
