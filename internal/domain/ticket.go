package domain

import (
	"fmt"
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
// Escalation is tracked separately on Ticket.IsEscalated.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in-progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TerminalStatuses are never escalated.
var TerminalStatuses = []TicketStatus{TicketStatusResolved, TicketStatusClosed}

// IsTerminal reports whether the ticket no longer accrues SLA time.
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// Valid reports whether s belongs to the status vocabulary.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// ParsePriority accepts any casing of a known priority.
func ParsePriority(raw string) (TicketPriority, error) {
	p := TicketPriority(strings.ToLower(strings.TrimSpace(raw)))
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return p, nil
	}
	return "", fmt.Errorf("unknown priority %q", raw)
}

// Category labels produced by the keyword classifier.
const (
	CategoryNetworking = "Networking"
	CategoryElectrical = "Electrical"
	CategoryPlumbing   = "Plumbing"
	CategoryITSupport  = "IT Support"
	CategoryMedical    = "Medical"
	CategorySecurity   = "Security"
	CategoryGeneral    = "General"
)

// Ticket is the aggregate for support requests.
//
// SLADue is fixed at creation, IsEscalated only moves false to true and
// TenantID never changes.
type Ticket struct {
	ID               int64
	TenantID         int64
	Title            string
	Description      string
	Priority         TicketPriority
	Category         *string
	Status           TicketStatus
	CreatedByUserID  int64
	AssignedToUserID *int64
	SLADue           *time.Time
	IsEscalated      bool
	EscalatedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsBreached reports whether the ticket is an escalation candidate at now.
func (t *Ticket) IsBreached(now time.Time) bool {
	return t.SLADue != nil && t.SLADue.Before(now) && !t.Status.IsTerminal() && !t.IsEscalated
}

// IsAssignedTo reports whether the ticket is assigned to userID.
func (t *Ticket) IsAssignedTo(userID int64) bool {
	return t.AssignedToUserID != nil && *t.AssignedToUserID == userID
}
