package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
)

// CreateTicketRequest payload. Priority is optional; when empty it is
// inferred from the description.
type CreateTicketRequest struct {
	TenantID    int64  `json:"tenant_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// QuickTicketRequest payload for free-text ticket filing.
type QuickTicketRequest struct {
	Text string `json:"text"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// CreateCommentRequest payload.
type CreateCommentRequest struct {
	Content string `json:"content"`
}

// TicketResponse is the public shape of a ticket.
type TicketResponse struct {
	ID               int64                 `json:"id"`
	TenantID         int64                 `json:"tenant_id"`
	Title            string                `json:"title"`
	Description      string                `json:"description"`
	Priority         domain.TicketPriority `json:"priority"`
	Category         *string               `json:"category"`
	Status           domain.TicketStatus   `json:"status"`
	CreatedByUserID  int64                 `json:"created_by_user_id"`
	AssignedToUserID *int64                `json:"assigned_to_user_id"`
	SLADue           *time.Time            `json:"sla_due"`
	IsEscalated      bool                  `json:"is_escalated"`
	EscalatedAt      *time.Time            `json:"escalated_at"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// CommentResponse represents a ticket comment.
type CommentResponse struct {
	ID           int64     `json:"id"`
	TicketID     int64     `json:"ticket_id"`
	AuthorUserID *int64    `json:"author_user_id"`
	Content      string    `json:"content"`
	CreatedAt    time.Time `json:"created_at"`
}

// HistoryResponse represents an audit trail entry.
type HistoryResponse struct {
	ID              int64                   `json:"id"`
	ChangedByUserID *int64                  `json:"changed_by_user_id"`
	ChangeType      domain.TicketChangeType `json:"change_type"`
	OldValue        map[string]any          `json:"old_value,omitempty"`
	NewValue        map[string]any          `json:"new_value,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

// SweepResponse reports an on-demand sweep.
type SweepResponse struct {
	Escalated int `json:"escalated"`
}

// NewTicketResponse maps a ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:               t.ID,
		TenantID:         t.TenantID,
		Title:            t.Title,
		Description:      t.Description,
		Priority:         t.Priority,
		Category:         t.Category,
		Status:           t.Status,
		CreatedByUserID:  t.CreatedByUserID,
		AssignedToUserID: t.AssignedToUserID,
		SLADue:           t.SLADue,
		IsEscalated:      t.IsEscalated,
		EscalatedAt:      t.EscalatedAt,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// NewTicketList maps a slice of tickets, never returning nil.
func NewTicketList(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}

// NewCommentResponse maps a comment.
func NewCommentResponse(c *domain.TicketComment) CommentResponse {
	return CommentResponse{
		ID:           c.ID,
		TicketID:     c.TicketID,
		AuthorUserID: c.AuthorUserID,
		Content:      c.Content,
		CreatedAt:    c.CreatedAt,
	}
}

// NewHistoryResponse maps a history entry.
func NewHistoryResponse(h *domain.TicketHistory) HistoryResponse {
	return HistoryResponse{
		ID:              h.ID,
		ChangedByUserID: h.ChangedByUserID,
		ChangeType:      h.ChangeType,
		OldValue:        h.OldValue,
		NewValue:        h.NewValue,
		CreatedAt:       h.CreatedAt,
	}
}
