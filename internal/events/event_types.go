package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketEscalated     EventType = "ticket_escalated"
	EventTicketCommentAdded  EventType = "ticket_comment_added"
)

// Actor identifies who caused an event. System is set for sweeper actions.
type Actor struct {
	UserID *int64      `json:"user_id,omitempty"`
	Role   domain.Role `json:"role,omitempty"`
	System bool        `json:"system,omitempty"`
}

// UserActor builds an Actor for an authenticated user.
func UserActor(user *domain.User) Actor {
	if user == nil {
		return SystemActor()
	}
	id := user.ID
	return Actor{UserID: &id, Role: user.Role}
}

// SystemActor marks background actions.
func SystemActor() Actor {
	return Actor{System: true}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TenantID  int64     `json:"tenant_id"`
	TicketID  int64     `json:"ticket_id"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewTicketEvent stamps a fresh id on an event for ticket.
func NewTicketEvent(eventType EventType, ticket *domain.Ticket, actor Actor, at time.Time, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TenantID:  ticket.TenantID,
		TicketID:  ticket.ID,
		Actor:     actor,
		Timestamp: at,
		Payload:   payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title    string                `json:"title"`
	Priority domain.TicketPriority `json:"priority"`
	Category *string               `json:"category,omitempty"`
	SLADue   *time.Time            `json:"sla_due,omitempty"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	PreviousAssigneeID *int64 `json:"previous_assignee_id,omitempty"`
	AssigneeID         int64  `json:"assignee_id"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	Priority    domain.TicketPriority `json:"priority"`
	SLADue      *time.Time            `json:"sla_due,omitempty"`
	EscalatedAt time.Time             `json:"escalated_at"`
	AssigneeID  *int64                `json:"assignee_id,omitempty"`
}

// TicketCommentAddedPayload payload.
type TicketCommentAddedPayload struct {
	CommentID    int64  `json:"comment_id"`
	AuthorUserID *int64 `json:"author_user_id,omitempty"`
	BodyPreview  string `json:"body_preview"`
}
