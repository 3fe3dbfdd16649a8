package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/upravnik/assembly-engine/internal/adapter"
	"github.com/upravnik/assembly-engine/internal/decision"
	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/logger"
	"github.com/upravnik/assembly-engine/internal/store"
)

const (
	SWEEP_CYCLE_INTERVAL = 5 * time.Second // Time to sleep between sweep cycles
)

// DeadlineSweeperConfig holds configuration for the deadline sweeper
type DeadlineSweeperConfig struct {
	BatchSize      int // Expired items to close per cycle
	WorkerPoolSize int // Concurrent workers
}

// deadlineSweeper closes open agenda items whose voting deadline passed.
// Manual closes and multiple sweeper replicas may race it; losing such a race
// counts as success.
type deadlineSweeper struct {
	config    *DeadlineSweeperConfig
	store     store.Store
	resolver  decision.Resolver
	pool      pond.Pool
	clock     adapter.Clock
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewDeadlineSweeper creates a new deadline sweeper
func NewDeadlineSweeper(
	config *DeadlineSweeperConfig,
	st store.Store,
	resolver decision.Resolver,
	clock adapter.Clock,
) Sweeper {
	return &deadlineSweeper{
		config:    config,
		store:     st,
		resolver:  resolver,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *deadlineSweeper) Name() string {
	return "deadline-sweeper"
}

// Start begins the sweeper's main loop
func (s *deadlineSweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh)
	}()

	logger.Info("Starting deadline sweeper",
		zap.Int("batch_size", s.config.BatchSize),
		zap.Int("worker_pool_size", s.config.WorkerPoolSize),
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Deadline sweeper stopping due to context cancellation", zap.Error(ctx.Err()))
			s.cleanup()
			return nil
		case <-s.stopChan:
			logger.Info("Deadline sweeper stop requested")
			s.cleanup()
			return nil
		default:
			if err := s.runSweepCycle(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Error(err)
				}
			}
		}
	}
}

// cleanup stops the worker pool and waits for tasks to complete
func (s *deadlineSweeper) cleanup() {
	if s.pool != nil {
		s.pool.StopAndWait()
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *deadlineSweeper) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.Info("Stopping deadline sweeper")

	close(s.stopChan)

	select {
	case <-s.stoppedCh:
		logger.Info("Deadline sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.Warn("Deadline sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runSweepCycle closes one batch of expired items
func (s *deadlineSweeper) runSweepCycle(ctx context.Context) error {
	items, err := s.store.ListExpiredOpenItems(ctx, s.clock.Now(), s.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to list expired open items: %w", err)
	}

	if len(items) == 0 {
		if !s.sleep(ctx, SWEEP_CYCLE_INTERVAL) {
			return ctx.Err()
		}
		return nil
	}

	logger.Info("Found expired open items", zap.Int("count", len(items)))

	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.BatchSize),
		pond.WithContext(ctx),
	)

	var closedCount, lostRaceCount, failedCount atomic.Int32

	for _, item := range items {
		s.pool.Submit(func() {
			err := s.closeWithRetry(ctx, item.AssemblyID, item.ID)
			switch {
			case err == nil:
				closedCount.Add(1)
			case errors.Is(err, domain.ErrAgendaItemAlreadyClosed):
				// Someone closed it first; that is the desired end state
				lostRaceCount.Add(1)
			default:
				failedCount.Add(1)
				logger.Error(err,
					zap.Uint64("assemblyID", item.AssemblyID),
					zap.Uint64("itemID", item.ID),
				)
			}
		})
	}

	s.pool.StopAndWait()

	logger.Info("Sweep cycle completed",
		zap.Int("expired", len(items)),
		zap.Int32("closed", closedCount.Load()),
		zap.Int32("lost_race", lostRaceCount.Load()),
		zap.Int32("failed", failedCount.Load()),
	)

	if !s.sleep(ctx, SWEEP_CYCLE_INTERVAL) {
		return ctx.Err()
	}

	return nil
}

// closeWithRetry closes one item, retrying transient failures. State
// conflicts are surfaced immediately; retrying them cannot change anything.
func (s *deadlineSweeper) closeWithRetry(ctx context.Context, assemblyID, itemID uint64) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second

	operation := func() error {
		_, err := s.resolver.Close(ctx, assemblyID, itemID)
		if err != nil {
			if errors.Is(err, domain.ErrAgendaItemAlreadyClosed) ||
				errors.Is(err, domain.ErrAgendaItemNotOpen) ||
				errors.Is(err, domain.ErrAgendaItemNotFound) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}

// sleep sleeps for the given duration but can be interrupted by context
// cancellation. Returns false if interrupted.
func (s *deadlineSweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	}
}
