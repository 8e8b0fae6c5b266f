package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rupert648/feed-the-moose/internal/background"
	"github.com/rupert648/feed-the-moose/internal/model"
	"github.com/rupert648/feed-the-moose/pkg/push"
	"github.com/rupert648/feed-the-moose/pkg/storage"
	"gorm.io/gorm"
)

const historyPageSize = 20

var (
	// ErrInvalidWindowTime means the window time is not a valid "HH:MM".
	ErrInvalidWindowTime = errors.New("invalid window time")
	// ErrWindowAlreadyFed means the window already has a feeding today.
	ErrWindowAlreadyFed = errors.New("feeding window already fed today")
)

// FeedingStore is the feeding-table access the service needs.
type FeedingStore interface {
	Create(feeding *model.Feeding) error
	FindForDate(date string) ([]model.FeedingEntry, error)
	ExistsForWindowOnDate(windowTime, date string) (bool, error)
	History(limit, offset int) ([]model.FeedingEntry, int64, error)
}

// ScheduleStore reads the feeding schedule.
type ScheduleStore interface {
	GetAll() ([]model.FeedingWindow, error)
}

// PushSender fans a notification out to all registered devices.
type PushSender interface {
	SendToAll(ctx context.Context, payload push.Payload) (push.Result, error)
}

// FeedingService records feedings and reports window statuses.
type FeedingService struct {
	feedings   FeedingStore
	schedule   ScheduleStore
	photos     storage.PhotoStore
	dispatcher PushSender
	tracker    *background.Tracker
	logger     zerolog.Logger
	now        func() time.Time
}

func NewFeedingService(
	feedings FeedingStore,
	schedule ScheduleStore,
	photos storage.PhotoStore,
	dispatcher PushSender,
	tracker *background.Tracker,
	logger zerolog.Logger,
) *FeedingService {
	return &FeedingService{
		feedings:   feedings,
		schedule:   schedule,
		photos:     photos,
		dispatcher: dispatcher,
		tracker:    tracker,
		logger:     logger,
		now:        time.Now,
	}
}

// WindowStatuses returns today's schedule joined with today's feedings.
func (s *FeedingService) WindowStatuses() ([]model.WindowStatus, error) {
	schedule, err := s.schedule.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule: %w", err)
	}

	now := s.now()
	feedings, err := s.feedings.FindForDate(DateString(now))
	if err != nil {
		return nil, fmt.Errorf("failed to read today's feedings: %w", err)
	}

	return EvaluateWindows(schedule, feedings, now), nil
}

// RecordFeeding persists a feeding for the given window, storing the photo
// first if one was provided. On success a confirmation push naming the
// feeder is dispatched on the background tracker, so the caller's response
// never waits on push delivery.
func (s *FeedingService) RecordFeeding(ctx context.Context, userID uuid.UUID, userName, windowTime string, photo io.Reader, photoSize int64, contentType string) (*model.RecordFeedingResponse, error) {
	if _, err := ParseWindowTime(windowTime); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWindowTime, windowTime)
	}

	today := DateString(s.now())
	alreadyFed, err := s.feedings.ExistsForWindowOnDate(windowTime, today)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing feedings: %w", err)
	}
	if alreadyFed {
		return nil, ErrWindowAlreadyFed
	}

	var photoKey *string
	if photo != nil && photoSize > 0 {
		key, err := s.photos.UploadPhoto(ctx, photo, photoSize, contentType)
		if err != nil {
			return nil, fmt.Errorf("failed to store photo: %w", err)
		}
		photoKey = &key
	}

	feeding := &model.Feeding{
		UserID:     userID,
		WindowTime: windowTime,
		PhotoKey:   photoKey,
		FedAt:      s.now().UTC(),
	}
	if err := s.feedings.Create(feeding); err != nil {
		// The unique index arbitrates concurrent submissions; the loser
		// gets the same conflict as if the check had caught it.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrWindowAlreadyFed
		}
		return nil, fmt.Errorf("failed to record feeding: %w", err)
	}

	s.logger.Info().
		Str("window", windowTime).
		Str("user", userName).
		Bool("photo", photoKey != nil).
		Msg("feeding recorded")

	// Confirmations are not deduplicated: every feeding notifies everyone.
	s.tracker.Go("feeding-confirmation", func(ctx context.Context) {
		_, err := s.dispatcher.SendToAll(ctx, push.Payload{
			Title: "Moose has been fed!",
			Body:  fmt.Sprintf("%s fed Moose", userName),
			URL:   "/",
		})
		if err != nil {
			s.logger.Error().Err(err).Msg("confirmation push failed")
		}
	})

	return &model.RecordFeedingResponse{Success: true, PhotoKey: photoKey}, nil
}

// History returns one page of feeding history, newest first.
func (s *FeedingService) History(page int) (*model.FeedingHistoryResponse, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * historyPageSize

	entries, total, err := s.feedings.History(historyPageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to read feeding history: %w", err)
	}

	return &model.FeedingHistoryResponse{
		Feedings: entries,
		Total:    total,
		Page:     page,
		PageSize: historyPageSize,
		HasMore:  int64(offset+len(entries)) < total,
	}, nil
}
