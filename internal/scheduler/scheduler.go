// Package scheduler drives periodic sweeps over tracked content.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"content_metrics/internal/domain"
)

// Sweeper runs one pass over all tracked content.
type Sweeper interface {
	Sweep(ctx context.Context) (*domain.SweepStats, error)
}

type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
	engine   *cron.Cron
	stopOnce sync.Once
}

// NewScheduler creates a scheduler that sweeps every interval. A sweep still
// running when the next tick fires makes that tick a no-op. Each run is
// bounded by timeout.
func NewScheduler(sweeper Sweeper, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	logger = logger.With("component", "scheduler")
	cl := cronLogger{logger: logger}

	return &Scheduler{
		sweeper:  sweeper,
		interval: interval,
		timeout:  timeout,
		logger:   logger,
		engine: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

// Start runs one sweep immediately, then on every interval until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval, "timeout", s.timeout)

	s.runSweep(ctx)

	s.engine.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		s.runSweep(ctx)
	}))
	s.engine.Start()

	<-ctx.Done()
	s.Stop()

	s.logger.Info("scheduler stopped")
	return ctx.Err()
}

// Stop halts scheduling and waits for a running sweep to return.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		<-s.engine.Stop().Done()
	})
}

func (s *Scheduler) runSweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	sweepCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if _, err := s.sweeper.Sweep(sweepCtx); err != nil {
		s.logger.Error("sweep failed", "error", err)
	}
}

// cronLogger routes cron engine logs to slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
