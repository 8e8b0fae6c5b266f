package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rupert648/feed-the-moose/internal/model"
	"github.com/rupert648/feed-the-moose/pkg/push"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCheckService(schedule *fakeSchedule, feedings *fakeFeedings, ledger *fakeLedger, dispatcher *fakeDispatcher, now time.Time) *CheckService {
	s := NewCheckService(schedule, feedings, ledger, dispatcher, zerolog.Nop())
	s.now = func() time.Time { return now }
	return s
}

func TestRunScheduledCheck_DispatchesOnceThenDeduplicates(t *testing.T) {
	schedule := &fakeSchedule{windows: []model.FeedingWindow{{Time: "08:00", Label: strPtr("Breakfast")}}}
	feedings := newFakeFeedings()
	ledger := newFakeLedger()
	dispatcher := &fakeDispatcher{result: push.Result{Sent: 2, Total: 2}}

	s := newCheckService(schedule, feedings, ledger, dispatcher, utc(8, 5))

	count, err := s.RunScheduledCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	payloads := dispatcher.sent()
	require.Len(t, payloads, 1)
	assert.Equal(t, "Time to feed Moose!", payloads[0].Title)
	assert.Equal(t, "Breakfast feeding time has arrived", payloads[0].Body)

	sent, err := ledger.HasSent("08:00", "2026-09-01")
	require.NoError(t, err)
	assert.True(t, sent)

	// Second invocation a few minutes later dispatches nothing.
	s = newCheckService(schedule, feedings, ledger, dispatcher, utc(8, 10))
	count, err = s.RunScheduledCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Len(t, dispatcher.sent(), 1)
}

func TestRunScheduledCheck_SkipsFutureWindows(t *testing.T) {
	schedule := &fakeSchedule{windows: []model.FeedingWindow{{Time: "18:00"}}}
	dispatcher := &fakeDispatcher{}

	s := newCheckService(schedule, newFakeFeedings(), newFakeLedger(), dispatcher, utc(9, 0))

	count, err := s.RunScheduledCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, dispatcher.sent())
}

func TestRunScheduledCheck_SkipsFedWindows(t *testing.T) {
	schedule := &fakeSchedule{windows: []model.FeedingWindow{{Time: "08:00"}}}
	feedings := newFakeFeedings()
	feedings.fed["08:00|2026-09-01"] = true
	dispatcher := &fakeDispatcher{}

	s := newCheckService(schedule, feedings, newFakeLedger(), dispatcher, utc(9, 0))

	count, err := s.RunScheduledCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Empty(t, dispatcher.sent())
}

func TestRunScheduledCheck_UnlabeledWindowUsesTime(t *testing.T) {
	schedule := &fakeSchedule{windows: []model.FeedingWindow{{Time: "08:00"}}}
	dispatcher := &fakeDispatcher{}

	s := newCheckService(schedule, newFakeFeedings(), newFakeLedger(), dispatcher, utc(8, 5))

	_, err := s.RunScheduledCheck(context.Background())
	require.NoError(t, err)

	payloads := dispatcher.sent()
	require.Len(t, payloads, 1)
	assert.Equal(t, "08:00 feeding time has arrived", payloads[0].Body)
}

func TestRunScheduledCheck_DispatchFailureLeavesWindowEligible(t *testing.T) {
	schedule := &fakeSchedule{windows: []model.FeedingWindow{{Time: "08:00"}}}
	ledger := newFakeLedger()
	dispatcher := &fakeDispatcher{err: errors.New("push service unreachable")}

	s := newCheckService(schedule, newFakeFeedings(), ledger, dispatcher, utc(8, 5))

	count, err := s.RunScheduledCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Ledger untouched: the next trigger retries.
	sent, err := ledger.HasSent("08:00", "2026-09-01")
	require.NoError(t, err)
	assert.False(t, sent)
}

func TestRunScheduledCheck_WindowsProcessedIndependently(t *testing.T) {
	schedule := &fakeSchedule{windows: []model.FeedingWindow{
		{Time: "06:00"},
		{Time: "08:00"},
	}}
	feedings := newFakeFeedings()
	feedings.fedErr["06:00|2026-09-01"] = errors.New("db hiccup")
	dispatcher := &fakeDispatcher{}

	s := newCheckService(schedule, feedings, newFakeLedger(), dispatcher, utc(9, 0))

	count, err := s.RunScheduledCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	payloads := dispatcher.sent()
	require.Len(t, payloads, 1)
	assert.Equal(t, "08:00 feeding time has arrived", payloads[0].Body)
}

func TestRunScheduledCheck_ScheduleReadFailureIsFatal(t *testing.T) {
	schedule := &fakeSchedule{err: errors.New("connection refused")}
	s := newCheckService(schedule, newFakeFeedings(), newFakeLedger(), &fakeDispatcher{}, utc(9, 0))

	_, err := s.RunScheduledCheck(context.Background())
	assert.Error(t, err)
}

func TestRunScheduledCheck_MultipleDueWindows(t *testing.T) {
	schedule := &fakeSchedule{windows: []model.FeedingWindow{
		{Time: "06:00", Label: strPtr("Early")},
		{Time: "08:00", Label: strPtr("Breakfast")},
		{Time: "18:00", Label: strPtr("Dinner")},
	}}
	dispatcher := &fakeDispatcher{}

	s := newCheckService(schedule, newFakeFeedings(), newFakeLedger(), dispatcher, utc(12, 0))

	count, err := s.RunScheduledCheck(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	payloads := dispatcher.sent()
	require.Len(t, payloads, 2)
	assert.Equal(t, "Early feeding time has arrived", payloads[0].Body)
	assert.Equal(t, "Breakfast feeding time has arrived", payloads[1].Body)
}
