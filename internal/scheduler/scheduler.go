package scheduler

import (
	"context"
	"log/slog"
	"time"

	"feedhub/internal/domain"
)

// Poller runs one polling pass.
type Poller interface {
	Poll(ctx context.Context) (*domain.PollStats, error)
}

const defaultInterval = 5 * time.Minute

// Scheduler runs one poll at a time. A pass never outlives its interval, so
// passes cannot pile up behind a slow provider.
type Scheduler struct {
	poller   Poller
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger
}

// NewScheduler creates a scheduler that runs poller every interval. Each
// pass is bounded by timeout, capped at the interval.
func NewScheduler(poller Poller, interval, timeout time.Duration, logger *slog.Logger) *Scheduler {
	if interval <= 0 {
		interval = defaultInterval
	}
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	return &Scheduler{
		poller:   poller,
		interval: interval,
		timeout:  timeout,
		logger:   logger.With("component", "scheduler"),
	}
}

// Start polls once right away and then on every tick until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runPoll(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runPoll(ctx)
		}
	}
}

func (s *Scheduler) runPoll(ctx context.Context) {
	pollCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stats, err := s.poller.Poll(pollCtx)
	if err != nil {
		s.logger.Error("poll failed", "error", err)
		return
	}
	if stats != nil && stats.Errors > 0 {
		s.logger.Warn("poll finished with publish errors", "errors", stats.Errors)
	}
}
