package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"mercator-hq/meter/pkg/ledger"
	"mercator-hq/meter/pkg/processing/costs"
)

// DisabledSchedule turns the scheduler off.
const DisabledSchedule = "off"

// Scheduler logs a ledger summary on a cron schedule.
type Scheduler struct {
	tracker  *ledger.Tracker
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewScheduler creates a summary scheduler for tracker. The schedule uses
// standard five-field cron syntax.
func NewScheduler(tracker *ledger.Tracker, schedule string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		tracker:  tracker,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "ledger.report"),
	}
}

// Start schedules the summary job. It stops when ctx is cancelled. An empty
// or "off" schedule does nothing.
//
// Common cron expressions:
//   - "*/15 * * * *" - every 15 minutes
//   - "0 * * * *"    - hourly
//   - "0 0 * * *"    - daily at midnight
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" || s.schedule == DisabledSchedule {
		s.logger.Info("ledger summary schedule disabled")
		return nil
	}
	if s.running {
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, s.Report); err != nil {
		return fmt.Errorf("failed to schedule ledger summary: %w", err)
	}

	s.cron.Start()
	s.running = true
	s.logger.Info("ledger summary scheduler started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Report logs the current whole-ledger summary, one line overall and one
// per provider.
func (s *Scheduler) Report() {
	summary := s.tracker.Summary("")
	if summary.Requests == 0 {
		s.logger.Debug("ledger summary: no requests tracked")
		return
	}

	s.logger.Info("ledger summary",
		"requests", summary.Requests,
		"sessions", len(s.tracker.Sessions()),
		"prompt_tokens", summary.Tokens.Prompt,
		"completion_tokens", summary.Tokens.Completion,
		"reasoning_tokens", summary.Tokens.Reasoning,
		"total_cost", summary.TotalCost.StringFixed(costs.DisplayPlaces),
		"avg_thinking_time_ms", summary.AverageThinkingTime.Milliseconds(),
	)

	for provider, stats := range summary.Providers {
		s.logger.Info("ledger summary by provider",
			"provider", string(provider),
			"requests", stats.Requests,
			"total_tokens", stats.Tokens.Total,
			"cost", stats.Cost.StringFixed(costs.DisplayPlaces),
		)
	}
}

// Stop stops the scheduler and waits for a running report to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("ledger summary scheduler stopped")
}

// IsRunning reports whether the scheduler is running.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled report time, or nil when not scheduled.
func (s *Scheduler) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
