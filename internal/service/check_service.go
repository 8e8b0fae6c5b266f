package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rupert648/feed-the-moose/pkg/push"
)

// DedupLedger is the per-day, per-window record of dispatched reminders.
type DedupLedger interface {
	HasSent(windowTime, date string) (bool, error)
	MarkSent(windowTime, date string) error
}

// CheckService is the scheduled check orchestrator: on each trigger it
// walks the schedule and dispatches one reminder batch per due, unfed,
// not-yet-notified window.
type CheckService struct {
	schedule   ScheduleStore
	feedings   FeedingStore
	ledger     DedupLedger
	dispatcher PushSender
	logger     zerolog.Logger
	now        func() time.Time
}

func NewCheckService(
	schedule ScheduleStore,
	feedings FeedingStore,
	ledger DedupLedger,
	dispatcher PushSender,
	logger zerolog.Logger,
) *CheckService {
	return &CheckService{
		schedule:   schedule,
		feedings:   feedings,
		ledger:     ledger,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// RunScheduledCheck evaluates every window in time-ascending order and
// returns how many reminder batches were dispatched. Windows are processed
// independently: a failure on one is logged and the walk continues. The
// ledger is written only after dispatch was attempted, so a dispatch error
// leaves the window eligible for the next trigger (at-least-once bias).
func (s *CheckService) RunScheduledCheck(ctx context.Context) (int, error) {
	schedule, err := s.schedule.GetAll()
	if err != nil {
		return 0, fmt.Errorf("failed to read schedule: %w", err)
	}

	now := s.now()
	currentTime := TimeOfDayString(now)
	today := DateString(now)

	notificationsSent := 0
	for _, window := range schedule {
		// "HH:MM" compares correctly as a string.
		if window.Time > currentTime {
			continue
		}

		alreadyFed, err := s.feedings.ExistsForWindowOnDate(window.Time, today)
		if err != nil {
			s.logger.Error().Err(err).Str("window", window.Time).Msg("failed to check feeding state")
			continue
		}
		if alreadyFed {
			continue
		}

		alreadyNotified, err := s.ledger.HasSent(window.Time, today)
		if err != nil {
			s.logger.Error().Err(err).Str("window", window.Time).Msg("failed to check notification log")
			continue
		}
		if alreadyNotified {
			continue
		}

		label := window.DisplayName()
		if _, err := s.dispatcher.SendToAll(ctx, push.Payload{
			Title: "Time to feed Moose!",
			Body:  fmt.Sprintf("%s feeding time has arrived", label),
			URL:   "/",
		}); err != nil {
			s.logger.Error().Err(err).Str("window", window.Time).Msg("reminder dispatch failed")
			continue
		}

		if err := s.ledger.MarkSent(window.Time, today); err != nil {
			// The batch went out; worst case the next trigger repeats it.
			s.logger.Error().Err(err).Str("window", window.Time).Msg("failed to mark notification sent")
		}
		notificationsSent++

		s.logger.Info().Str("window", window.Time).Str("label", label).Msg("reminder dispatched")
	}

	return notificationsSent, nil
}
