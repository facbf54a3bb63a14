package domain

import "time"

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeCreated    TicketChangeType = "CREATED"
	ChangeTypeStatus     TicketChangeType = "STATUS_CHANGE"
	ChangeTypeAssignee   TicketChangeType = "ASSIGNEE_CHANGE"
	ChangeTypeEscalation TicketChangeType = "ESCALATION"
)

// TicketHistory is an immutable audit trail entry. A nil ChangedByUserID
// marks a system change such as an SLA escalation.
type TicketHistory struct {
	ID              int64
	TicketID        int64
	ChangedByUserID *int64
	ChangeType      TicketChangeType
	OldValue        map[string]any
	NewValue        map[string]any
	CreatedAt       time.Time
}
