// Package sla maps ticket priorities to response windows.
package sla

import (
	"time"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
)

// Policy holds the response window per priority.
type Policy struct {
	Critical time.Duration
	High     time.Duration
	Medium   time.Duration
	Low      time.Duration
}

// DefaultPolicy mirrors the production windows. Critical shares the low
// window until operators configure SLA_CRITICAL_HOURS.
func DefaultPolicy() Policy {
	return Policy{
		Critical: 24 * time.Hour,
		High:     6 * time.Hour,
		Medium:   12 * time.Hour,
		Low:      24 * time.Hour,
	}
}

// NewPolicy builds a policy from hour counts; non-positive values keep the default.
func NewPolicy(criticalHours, highHours, mediumHours, lowHours int) Policy {
	p := DefaultPolicy()
	if criticalHours > 0 {
		p.Critical = time.Duration(criticalHours) * time.Hour
	}
	if highHours > 0 {
		p.High = time.Duration(highHours) * time.Hour
	}
	if mediumHours > 0 {
		p.Medium = time.Duration(mediumHours) * time.Hour
	}
	if lowHours > 0 {
		p.Low = time.Duration(lowHours) * time.Hour
	}
	return p
}

// Window returns the response window for priority. Unknown priorities get
// the low window.
func (p Policy) Window(priority domain.TicketPriority) time.Duration {
	switch priority {
	case domain.TicketPriorityCritical:
		return p.Critical
	case domain.TicketPriorityHigh:
		return p.High
	case domain.TicketPriorityMedium:
		return p.Medium
	default:
		return p.Low
	}
}

// DueAt returns the SLA deadline for a ticket created at createdAt.
func (p Policy) DueAt(priority domain.TicketPriority, createdAt time.Time) time.Time {
	return createdAt.Add(p.Window(priority))
}
