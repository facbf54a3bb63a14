package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sla/internal/classifier"
	"github.com/spec-kit/helpdesk-sla/internal/domain"
	"github.com/spec-kit/helpdesk-sla/internal/events"
	"github.com/spec-kit/helpdesk-sla/internal/repository"
	"github.com/spec-kit/helpdesk-sla/internal/sla"
	apperrors "github.com/spec-kit/helpdesk-sla/pkg/util/errorutil"
)

// quickTitleLength is how much of the free text becomes the title of a
// quick-created ticket.
const quickTitleLength = 40

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	priorities classifier.Classifier
	categories classifier.Classifier
	policy     sla.Policy
	now        Clock
	audit      auditTrail
}

// TicketDependencies bundles collaborators for the ticket service. Nil
// classifiers and a zero Policy fall back to the built-in defaults.
type TicketDependencies struct {
	TicketRepo         repository.TicketRepository
	HistoryRepo        repository.TicketHistoryRepository
	Dispatcher         events.Dispatcher
	PriorityClassifier classifier.Classifier
	CategoryClassifier classifier.Classifier
	Policy             sla.Policy
	Clock              Clock
	Logger             *zap.Logger
}

// TicketCreateInput describes ticket creation payload. An empty Priority
// asks the classifier to infer one from the description.
type TicketCreateInput struct {
	TenantID    int64
	Title       string
	Description string
	Priority    string
}

// TicketListFilter narrows a listing inside the caller's visibility.
type TicketListFilter struct {
	Statuses   []domain.TicketStatus
	Priorities []domain.TicketPriority
	Escalated  *bool
	Limit      int
	Offset     int
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	priorities := deps.PriorityClassifier
	if priorities == nil {
		priorities = classifier.NewPriorityClassifier()
	}
	categories := deps.CategoryClassifier
	if categories == nil {
		categories = classifier.NewCategoryClassifier()
	}
	policy := deps.Policy
	if policy == (sla.Policy{}) {
		policy = sla.DefaultPolicy()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		priorities: priorities,
		categories: categories,
		policy:     policy,
		now:        clockOrDefault(deps.Clock),
		audit: auditTrail{
			history:    deps.HistoryRepo,
			dispatcher: deps.Dispatcher,
			logger:     loggerOrNop(deps.Logger),
		},
	}
}

// CreateTicket validates and persists a new ticket with its SLA deadline.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, input TicketCreateInput) (*domain.Ticket, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	details := map[string]any{}
	if title == "" {
		details["title"] = "must not be blank"
	}
	if description == "" {
		details["description"] = "must not be blank"
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid ticket", details)
	}
	if input.TenantID != actor.TenantID {
		return nil, apperrors.NewTenantMismatch(actor.TenantID, input.TenantID)
	}

	var priority domain.TicketPriority
	if strings.TrimSpace(input.Priority) != "" {
		parsed, err := domain.ParsePriority(input.Priority)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": input.Priority})
		}
		priority = parsed
	} else {
		priority = domain.TicketPriority(s.priorities.Classify(description))
	}

	return s.create(ctx, actor, title, description, priority, classifier.CategoryText(title, description))
}

// QuickCreateTicket files a ticket from a single free-text report. Title,
// priority and category all come from the text; the tenant is the caller's.
func (s *TicketService) QuickCreateTicket(ctx context.Context, actor *domain.User, text string) (*domain.Ticket, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewValidationError("invalid ticket", map[string]any{"text": "must not be blank"})
	}
	priority := domain.TicketPriority(s.priorities.Classify(text))
	return s.create(ctx, actor, quickTitle(text), text, priority, text)
}

func (s *TicketService) create(ctx context.Context, actor *domain.User, title, description string, priority domain.TicketPriority, categoryText string) (*domain.Ticket, error) {
	now := s.now()
	due := s.policy.DueAt(priority, now)
	category := s.categories.Classify(categoryText)

	ticket := &domain.Ticket{
		TenantID:        actor.TenantID,
		Title:           title,
		Description:     description,
		Priority:        priority,
		Category:        &category,
		Status:          domain.TicketStatusOpen,
		CreatedByUserID: actor.ID,
		SLADue:          &due,
		IsEscalated:     false,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit.record(ctx, &domain.TicketHistory{
		TicketID:        ticket.ID,
		ChangedByUserID: actorID(actor),
		ChangeType:      domain.ChangeTypeCreated,
		NewValue: map[string]any{
			"status":   ticket.Status,
			"priority": ticket.Priority,
			"category": category,
			"sla_due":  due,
		},
	})
	s.audit.publish(ctx, events.NewTicketEvent(events.EventTicketCreated, ticket, events.UserActor(actor), now, events.TicketCreatedPayload{
		Title:    ticket.Title,
		Priority: ticket.Priority,
		Category: ticket.Category,
		SLADue:   ticket.SLADue,
	}))
	return ticket, nil
}

// GetTicket returns a ticket visible to the actor.
func (s *TicketService) GetTicket(ctx context.Context, actor *domain.User, ticketID int64) (*domain.Ticket, error) {
	return readableTicket(ctx, s.tickets, actor, ticketID)
}

// ListTickets returns tickets in the actor's tenant. Customers only see the
// tickets they created.
func (s *TicketService) ListTickets(ctx context.Context, actor *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	tenantID := actor.TenantID
	repoFilter := repository.TicketFilter{
		TenantID:   &tenantID,
		Statuses:   filter.Statuses,
		Priorities: filter.Priorities,
		Escalated:  filter.Escalated,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	if actor.IsCustomer() {
		creator := actor.ID
		repoFilter.CreatedByUserID = &creator
	}
	tickets, err := s.tickets.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListAssignedTickets returns the provider's own queue.
func (s *TicketService) ListAssignedTickets(ctx context.Context, actor *domain.User, filter TicketListFilter) ([]domain.Ticket, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.IsProvider() {
		return nil, apperrors.NewForbidden("only providers have an assigned queue")
	}
	tenantID := actor.TenantID
	assignee := actor.ID
	tickets, err := s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		TenantID:         &tenantID,
		AssignedToUserID: &assignee,
		Statuses:         filter.Statuses,
		Priorities:       filter.Priorities,
		Escalated:        filter.Escalated,
		Limit:            filter.Limit,
		Offset:           filter.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

var (
	adminStatuses = []domain.TicketStatus{
		domain.TicketStatusOpen,
		domain.TicketStatusInProgress,
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
	}
	providerStatuses = []domain.TicketStatus{
		domain.TicketStatusInProgress,
		domain.TicketStatusResolved,
		domain.TicketStatusClosed,
	}
)

// AllowedStatuses lists the statuses a role may set.
func AllowedStatuses(role domain.Role) []domain.TicketStatus {
	switch role {
	case domain.RoleAdmin:
		return adminStatuses
	case domain.RoleProvider:
		return providerStatuses
	}
	return nil
}

func statusAllowed(role domain.Role, status domain.TicketStatus) bool {
	for _, candidate := range AllowedStatuses(role) {
		if candidate == status {
			return true
		}
	}
	return false
}

// UpdateStatus moves a ticket to a new status under a row lock. Only status
// and updated_at change; the SLA deadline and escalation flag are left to
// the sweeper.
func (s *TicketService) UpdateStatus(ctx context.Context, actor *domain.User, ticketID int64, rawStatus string) (*domain.Ticket, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	status := domain.TicketStatus(strings.ToLower(strings.TrimSpace(rawStatus)))

	var oldStatus domain.TicketStatus
	now := s.now()
	ticket, err := s.tickets.Mutate(ctx, ticketID, func(t *domain.Ticket) error {
		if t.TenantID != actor.TenantID {
			return apperrors.NewForbidden("ticket belongs to another tenant")
		}
		switch {
		case actor.IsAdmin():
		case actor.IsProvider():
			if !t.IsAssignedTo(actor.ID) {
				return apperrors.NewForbidden("ticket is not assigned to you")
			}
		default:
			return apperrors.NewForbidden("role may not change ticket status")
		}
		if !statusAllowed(actor.Role, status) {
			return apperrors.NewInvalidStatus("status not allowed for role", map[string]any{
				"status":  rawStatus,
				"role":    actor.Role,
				"allowed": AllowedStatuses(actor.Role),
			})
		}
		oldStatus = t.Status
		t.Status = status
		t.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, ticketError(err, ticketID)
	}

	s.audit.record(ctx, &domain.TicketHistory{
		TicketID:        ticket.ID,
		ChangedByUserID: actorID(actor),
		ChangeType:      domain.ChangeTypeStatus,
		OldValue:        map[string]any{"status": oldStatus},
		NewValue:        map[string]any{"status": ticket.Status},
	})
	s.audit.publish(ctx, events.NewTicketEvent(events.EventTicketStatusChanged, ticket, events.UserActor(actor), now, events.TicketStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: ticket.Status,
	}))
	return ticket, nil
}

// ListHistory returns the audit trail of a ticket visible to the actor.
func (s *TicketService) ListHistory(ctx context.Context, actor *domain.User, ticketID int64) ([]domain.TicketHistory, error) {
	ticket, err := readableTicket(ctx, s.tickets, actor, ticketID)
	if err != nil {
		return nil, err
	}
	if s.audit.history == nil {
		return []domain.TicketHistory{}, nil
	}
	entries, err := s.audit.history.ListByTicket(ctx, ticket.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

func quickTitle(text string) string {
	if utf8.RuneCountInString(text) <= quickTitleLength {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:quickTitleLength])) + "..."
}
