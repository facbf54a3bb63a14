package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
	"github.com/spec-kit/helpdesk-sla/internal/events"
	"github.com/spec-kit/helpdesk-sla/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-sla/pkg/util/errorutil"
)

// Clock returns the current time. Services default to UTC wall time.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return systemClock
	}
	return c
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func requireActor(actor *domain.User) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	return nil
}

// loadTicket fetches a ticket and maps a missing row to NOT_FOUND.
func loadTicket(ctx context.Context, tickets repository.TicketRepository, id int64) (*domain.Ticket, error) {
	ticket, err := tickets.GetByID(ctx, id)
	if err != nil {
		return nil, ticketError(err, id)
	}
	return ticket, nil
}

func ticketError(err error, id int64) error {
	if apperrors.IsNoRows(err) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": id})
	}
	return apperrors.MapError(err)
}

// canRead applies tenant isolation plus the customer ownership rule.
func canRead(actor *domain.User, ticket *domain.Ticket) error {
	if ticket.TenantID != actor.TenantID {
		return apperrors.NewForbidden("ticket belongs to another tenant")
	}
	if actor.IsCustomer() && ticket.CreatedByUserID != actor.ID {
		return apperrors.NewForbidden("customers may only access their own tickets")
	}
	return nil
}

// readableTicket loads a ticket the actor is allowed to see.
func readableTicket(ctx context.Context, tickets repository.TicketRepository, actor *domain.User, id int64) (*domain.Ticket, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	ticket, err := loadTicket(ctx, tickets, id)
	if err != nil {
		return nil, err
	}
	if err := canRead(actor, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// auditTrail writes history and publishes events after a change has
// committed. Failures are logged; the change itself already succeeded.
type auditTrail struct {
	history    repository.TicketHistoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func (a auditTrail) record(ctx context.Context, entry *domain.TicketHistory) {
	if a.history == nil {
		return
	}
	if err := a.history.Create(ctx, entry); err != nil {
		a.logger.Warn("failed to record ticket history",
			zap.Int64("ticket_id", entry.TicketID),
			zap.String("change_type", string(entry.ChangeType)),
			zap.Error(err))
	}
}

func (a auditTrail) publish(ctx context.Context, event events.Event) {
	if a.dispatcher == nil {
		return
	}
	if err := a.dispatcher.Publish(ctx, event); err != nil {
		a.logger.Warn("failed to publish event", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func actorID(actor *domain.User) *int64 {
	if actor == nil {
		return nil
	}
	id := actor.ID
	return &id
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
