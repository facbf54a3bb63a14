package observability

import (
	"strconv"
	"sync"
	"time"
)

// Metrics provides basic in-memory counters.
type Metrics struct {
	mu           sync.Mutex
	requestCount map[string]int64
	errorCount   map[string]int64
	sweep        SweepStats
}

// SweepStats summarises escalation sweeper activity.
type SweepStats struct {
	Runs           int64     `json:"runs"`
	Failures       int64     `json:"failures"`
	Skipped        int64     `json:"skipped"`
	Escalated      int64     `json:"escalated"`
	LastEscalated  int        `json:"last_escalated"`
	LastDurationMS int64     `json:"last_duration_ms"`
	LastRunAt      time.Time `json:"last_run_at,omitempty"`
	LastError      string    `json:"last_error,omitempty"`
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	Requests map[string]int64 `json:"requests"`
	Errors   map[string]int64 `json:"errors"`
	Sweep    SweepStats       `json:"sweep"`
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		requestCount: make(map[string]int64),
		errorCount:   make(map[string]int64),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	key := pathKey(path, method, status)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount[key]++
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[key]++
}

// RecordSweep stores the outcome of one sweep run.
func (m *Metrics) RecordSweep(escalated int, duration time.Duration, at time.Time, err error) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep.Runs++
	m.sweep.LastRunAt = at
	m.sweep.LastDurationMS = duration.Milliseconds()
	if err != nil {
		m.sweep.Failures++
		m.sweep.LastError = err.Error()
		return
	}
	m.sweep.LastError = ""
	m.sweep.LastEscalated = escalated
	m.sweep.Escalated += int64(escalated)
}

// RecordSweepSkipped counts ticks where another instance held the sweep lock.
func (m *Metrics) RecordSweepSkipped() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweep.Skipped++
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := Snapshot{
		Requests: make(map[string]int64, len(m.requestCount)),
		Errors:   make(map[string]int64, len(m.errorCount)),
		Sweep:    m.sweep,
	}
	for k, v := range m.requestCount {
		snap.Requests[k] = v
	}
	for k, v := range m.errorCount {
		snap.Errors[k] = v
	}
	return snap
}

func pathKey(path, method string, status int) string {
	return path + "|" + method + "|" + strconv.Itoa(status)
}
