package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/helpdesk-sla/internal/domain"
)

func TestDefaultPolicyWindows(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, 6*time.Hour, p.Window(domain.TicketPriorityHigh))
	assert.Equal(t, 12*time.Hour, p.Window(domain.TicketPriorityMedium))
	assert.Equal(t, 24*time.Hour, p.Window(domain.TicketPriorityLow))
	assert.Equal(t, 24*time.Hour, p.Window(domain.TicketPriorityCritical))
	assert.Equal(t, 24*time.Hour, p.Window(domain.TicketPriority("unknown")))
}

func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(2, 0, -1, 48)
	assert.Equal(t, 2*time.Hour, p.Critical)
	assert.Equal(t, 6*time.Hour, p.High)
	assert.Equal(t, 12*time.Hour, p.Medium)
	assert.Equal(t, 48*time.Hour, p.Low)
}

func TestDueAt(t *testing.T) {
	created := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, created.Add(6*time.Hour), DefaultPolicy().DueAt(domain.TicketPriorityHigh, created))
}
