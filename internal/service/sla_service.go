package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
	"github.com/spec-kit/helpdesk-sla/internal/events"
	"github.com/spec-kit/helpdesk-sla/internal/observability"
	"github.com/spec-kit/helpdesk-sla/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-sla/pkg/util/errorutil"
)

// SLAService escalates tickets whose SLA deadline has passed.
type SLAService struct {
	tickets repository.TicketRepository
	metrics *observability.Metrics
	now     Clock
	logger  *zap.Logger
	audit   auditTrail
}

// SLADependencies bundles collaborators for the sweep.
type SLADependencies struct {
	TicketRepo  repository.TicketRepository
	HistoryRepo repository.TicketHistoryRepository
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Clock       Clock
	Logger      *zap.Logger
}

// NewSLAService builds the service.
func NewSLAService(deps SLADependencies) *SLAService {
	logger := loggerOrNop(deps.Logger)
	return &SLAService{
		tickets: deps.TicketRepo,
		metrics: deps.Metrics,
		now:     clockOrDefault(deps.Clock),
		logger:  logger,
		audit: auditTrail{
			history:    deps.HistoryRepo,
			dispatcher: deps.Dispatcher,
			logger:     logger,
		},
	}
}

// RunSweep escalates every breached ticket across all tenants and returns
// how many were escalated. The selection and the flag flip happen in one
// conditional update, so overlapping sweeps escalate disjoint sets.
func (s *SLAService) RunSweep(ctx context.Context) (int, error) {
	started := time.Now()
	now := s.now()

	escalated, err := s.tickets.EscalateBreached(ctx, now)
	s.metrics.RecordSweep(len(escalated), time.Since(started), now, err)
	if err != nil {
		return 0, fmt.Errorf("escalate breached tickets: %w", err)
	}

	for i := range escalated {
		ticket := &escalated[i]
		escalatedAt := now
		if ticket.EscalatedAt != nil {
			escalatedAt = *ticket.EscalatedAt
		}
		s.logger.Info("ticket escalated",
			zap.Int64("ticket_id", ticket.ID),
			zap.Int64("tenant_id", ticket.TenantID),
			zap.String("priority", string(ticket.Priority)),
			zap.Timep("sla_due", ticket.SLADue))
		s.audit.record(ctx, &domain.TicketHistory{
			TicketID:   ticket.ID,
			ChangeType: domain.ChangeTypeEscalation,
			OldValue:   map[string]any{"is_escalated": false},
			NewValue:   map[string]any{"is_escalated": true, "escalated_at": escalatedAt},
		})
		s.audit.publish(ctx, events.NewTicketEvent(events.EventTicketEscalated, ticket, events.SystemActor(), now, events.TicketEscalatedPayload{
			Priority:    ticket.Priority,
			SLADue:      ticket.SLADue,
			EscalatedAt: escalatedAt,
			AssigneeID:  ticket.AssignedToUserID,
		}))
	}
	return len(escalated), nil
}

// RunSweepAsAdmin is the on-demand trigger. The sweep itself is tenant
// agnostic; only admins may start it.
func (s *SLAService) RunSweepAsAdmin(ctx context.Context, actor *domain.User) (int, error) {
	if err := requireActor(actor); err != nil {
		return 0, err
	}
	if !actor.IsAdmin() {
		return 0, apperrors.NewForbidden("only admins can run the SLA sweep")
	}
	count, err := s.RunSweep(ctx)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	s.logger.Info("manual sla sweep", zap.Int64("actor_id", actor.ID), zap.Int("escalated", count))
	return count, nil
}
