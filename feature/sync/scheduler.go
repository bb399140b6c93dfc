package sync

import (
	"context"
	stdsync "sync"
	"time"

	"inventory-sync/core/utils"

	"go.uber.org/zap"
)

// BatchRunner runs one sync batch over a set of dates.
type BatchRunner interface {
	RunBatch(ctx context.Context, dates []string)
}

// Scheduler fires sync batches on three cadences with overlapping date
// windows, so near-term inventory is refreshed far more often than the
// long horizon:
//
//   - daily: tomorrow through 30 days out
//   - every 4 hours: today through 6 days out
//   - every minute: today only
//
// Each cadence runs its batches synchronously in its own loop, so a slow
// batch makes that cadence skip ticks instead of piling up concurrent runs.
// Different cadences may still overlap in real time; the engine's per-date
// locking keeps concurrent merges of the same (product, date) exclusive.
type Scheduler struct {
	runner BatchRunner
	logger *zap.Logger

	dailyInterval    time.Duration
	fourHourInterval time.Duration
	minuteInterval   time.Duration

	cancel context.CancelFunc
	stopCh chan struct{}
	wg     stdsync.WaitGroup
}

// NewScheduler creates a scheduler with the standard cadences.
func NewScheduler(runner BatchRunner, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		runner:           runner,
		logger:           logger,
		dailyInterval:    24 * time.Hour,
		fourHourInterval: 4 * time.Hour,
		minuteInterval:   time.Minute,
		stopCh:           make(chan struct{}),
	}
}

// Start launches the three cadence loops. Every loop runs its batch once
// immediately so a fresh deployment has data before the first tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	cadences := []struct {
		name     string
		interval time.Duration
		window   func() []string
	}{
		{"daily", s.dailyInterval, func() []string { return utils.DateRange(1, 31) }},
		{"four-hourly", s.fourHourInterval, func() []string { return utils.DateRange(0, 7) }},
		{"minutely", s.minuteInterval, func() []string { return utils.DateRange(0, 1) }},
	}

	for _, c := range cadences {
		s.wg.Add(1)
		go s.loop(ctx, c.name, c.interval, c.window)
	}
}

// Stop cancels in-flight batches and waits for the cadence loops to exit.
func (s *Scheduler) Stop() {
	close(s.stopCh)
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, name string, interval time.Duration, window func() []string) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	run := func() {
		dates := window()
		s.logger.Info("Starting scheduled fetch",
			zap.String("cadence", name),
			zap.Int("dates", len(dates)))
		s.runner.RunBatch(ctx, dates)
	}

	run()
	for {
		select {
		case <-ticker.C:
			run()
		case <-s.stopCh:
			return
		}
	}
}
