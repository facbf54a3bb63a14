package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-sla/internal/observability"
)

// Sweeper escalates breached tickets and reports how many it changed.
type Sweeper interface {
	RunSweep(ctx context.Context) (int, error)
}

// Locker grants exclusive access to a named job across instances. When
// acquired is false another holder owns the key and release is nil.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context), acquired bool, err error)
}

// SweepLockKey is the key sweeps coordinate on.
const SweepLockKey = "helpdesk:sla-sweep"

// SLASweeperConfig controls cadence and bounds of the sweeper.
type SLASweeperConfig struct {
	Interval time.Duration
	Timeout  time.Duration
	LockTTL  time.Duration
}

// ErrSweeperStarted is returned when Start is called twice.
var ErrSweeperStarted = errors.New("sla sweeper already started")

// SLASweeper runs the escalation sweep on a fixed interval until stopped.
type SLASweeper struct {
	sweeper Sweeper
	locker  Locker
	cfg     SLASweeperConfig
	logger  *zap.Logger
	metrics *observability.Metrics

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	done    chan struct{}
}

// NewSLASweeper builds a sweeper. locker and metrics may be nil.
func NewSLASweeper(sweeper Sweeper, locker Locker, cfg SLASweeperConfig, logger *zap.Logger, metrics *observability.Metrics) *SLASweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.Timeout <= 0 || cfg.Timeout > cfg.Interval {
		cfg.Timeout = cfg.Interval
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = cfg.Interval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SLASweeper{
		sweeper: sweeper,
		locker:  locker,
		cfg:     cfg,
		logger:  logger.Named("sla_sweeper"),
		metrics: metrics,
	}
}

// Start launches the sweep loop. The loop ends on Stop or when ctx is done.
func (s *SLASweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrSweeperStarted
	}
	s.started = true
	s.stopCh = make(chan struct{})
	s.done = make(chan struct{})

	s.logger.Info("starting sla sweeper",
		zap.Duration("interval", s.cfg.Interval),
		zap.Duration("timeout", s.cfg.Timeout),
		zap.Bool("distributed_lock", s.locker != nil))

	go s.loop(ctx, s.stopCh, s.done)
	return nil
}

// Stop signals the loop and waits for an in-flight tick to finish. It is
// safe to call more than once.
func (s *SLASweeper) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Info("sla sweeper stopped")
}

func (s *SLASweeper) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			_, _ = s.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single tick: take the lock, sweep with a timeout and
// log the outcome. Errors and panics are logged and returned, never raised.
func (s *SLASweeper) RunOnce(ctx context.Context) (count int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sla sweep panic: %v", r)
			s.logger.Error("sla sweep panicked", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
		}
	}()

	tickCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if s.locker != nil {
		release, acquired, lockErr := s.locker.TryLock(tickCtx, SweepLockKey, s.cfg.LockTTL)
		if lockErr != nil {
			s.logger.Error("sla sweep lock failed", zap.Error(lockErr))
			return 0, lockErr
		}
		if !acquired {
			s.metrics.RecordSweepSkipped()
			s.logger.Debug("sla sweep skipped; lock held elsewhere")
			return 0, nil
		}
		defer release(context.WithoutCancel(ctx))
	}

	count, err = s.sweeper.RunSweep(tickCtx)
	if err != nil {
		s.logger.Error("sla sweep failed", zap.Error(err))
		return 0, err
	}
	if count > 0 {
		s.logger.Info("sla sweep escalated tickets", zap.Int("escalated", count))
	} else {
		s.logger.Debug("sla sweep finished", zap.Int("escalated", count))
	}
	return count, nil
}
