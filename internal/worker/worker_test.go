package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sla/internal/config"
	"github.com/spec-kit/helpdesk-sla/internal/events"
	"github.com/spec-kit/helpdesk-sla/internal/observability"
	"github.com/spec-kit/helpdesk-sla/internal/service"
)

type stubSweeper struct {
	calls atomic.Int32
	fn    func(call int32) (int, error)
}

func (s *stubSweeper) RunSweep(ctx context.Context) (int, error) {
	n := s.calls.Add(1)
	if s.fn == nil {
		return 0, nil
	}
	return s.fn(n)
}

type stubLocker struct {
	mu       sync.Mutex
	held     bool
	released int
	err      error
}

func (l *stubLocker) TryLock(_ context.Context, key string, _ time.Duration) (func(context.Context), bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held {
		return nil, false, nil
	}
	return func(context.Context) {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.released++
	}, true, nil
}

func TestRunOnceReturnsCount(t *testing.T) {
	sweeper := &stubSweeper{fn: func(int32) (int, error) { return 3, nil }}
	locker := &stubLocker{}
	s := NewSLASweeper(sweeper, locker, SLASweeperConfig{Interval: time.Minute}, zap.NewNop(), nil)

	count, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, locker.released)
}

func TestRunOnceSkipsWhenLockHeld(t *testing.T) {
	sweeper := &stubSweeper{}
	metrics := observability.NewMetrics()
	s := NewSLASweeper(sweeper, &stubLocker{held: true}, SLASweeperConfig{Interval: time.Minute}, zap.NewNop(), metrics)

	count, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, sweeper.calls.Load())
	assert.Equal(t, int64(1), metrics.Snapshot().Sweep.Skipped)
}

func TestRunOnceSurfacesLockError(t *testing.T) {
	sweeper := &stubSweeper{}
	s := NewSLASweeper(sweeper, &stubLocker{err: errors.New("redis down")}, SLASweeperConfig{Interval: time.Minute}, zap.NewNop(), nil)

	_, err := s.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Zero(t, sweeper.calls.Load())
}

func TestRunOnceRecoversPanic(t *testing.T) {
	sweeper := &stubSweeper{fn: func(int32) (int, error) { panic("boom") }}
	s := NewSLASweeper(sweeper, nil, SLASweeperConfig{Interval: time.Minute}, zap.NewNop(), nil)

	_, err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestLoopContinuesAfterFailures(t *testing.T) {
	sweeper := &stubSweeper{fn: func(call int32) (int, error) {
		if call%2 == 1 {
			return 0, errors.New("store unavailable")
		}
		return 1, nil
	}}
	s := NewSLASweeper(sweeper, nil, SLASweeperConfig{Interval: 5 * time.Millisecond}, zap.NewNop(), nil)

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), ErrSweeperStarted)

	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 4 }, time.Second, 5*time.Millisecond)
	s.Stop()
	s.Stop()

	after := sweeper.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, sweeper.calls.Load(), "no ticks after Stop")
}

func TestLoopStopsOnContextCancel(t *testing.T) {
	sweeper := &stubSweeper{}
	s := NewSLASweeper(sweeper, nil, SLASweeperConfig{Interval: 5 * time.Millisecond}, zap.NewNop(), nil)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	assert.Eventually(t, func() bool { return sweeper.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
	cancel()
	s.Stop()
}

func TestNotificationWorkerRegistersHandlers(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher(nil)
	notifications := service.NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{EmailFrom: "noreply@example.com"})
	StartNotificationWorker(notifications)
	StartNotificationWorker(nil)

	err := dispatcher.Publish(context.Background(), events.Event{Type: events.EventTicketEscalated, TicketID: 1})
	assert.NoError(t, err)
}
