package background

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerWaitsForTasks(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())

	var done atomic.Int32
	for i := 0; i < 5; i++ {
		tracker.Go("task", func(ctx context.Context) {
			time.Sleep(10 * time.Millisecond)
			done.Add(1)
		})
	}

	require.NoError(t, tracker.Wait(context.Background()))
	assert.Equal(t, int32(5), done.Load())
}

func TestTrackerWaitHonorsDeadline(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())

	release := make(chan struct{})
	tracker.Go("stuck", func(ctx context.Context) {
		<-release
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := tracker.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	require.NoError(t, tracker.Wait(context.Background()))
}

func TestTrackerRecoversPanics(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())

	tracker.Go("explodes", func(ctx context.Context) {
		panic("boom")
	})
	tracker.Go("survives", func(ctx context.Context) {})

	require.NoError(t, tracker.Wait(context.Background()))
}

func TestTrackerTaskContextOutlivesCaller(t *testing.T) {
	tracker := NewTracker(zerolog.Nop())

	got := make(chan error, 1)
	tracker.Go("detached", func(ctx context.Context) {
		// The tracked context is independent of any request context the
		// caller may have held.
		got <- ctx.Err()
	})

	require.NoError(t, tracker.Wait(context.Background()))
	assert.NoError(t, <-got)
}
