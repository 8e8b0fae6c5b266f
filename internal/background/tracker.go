package background

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Tracker runs detached work (like the post-feeding confirmation push)
// without blocking the caller, while still letting shutdown wait for every
// task to finish. Tasks get a fresh context so a completed request's
// cancellation cannot abort them.
type Tracker struct {
	wg     sync.WaitGroup
	logger zerolog.Logger
}

func NewTracker(logger zerolog.Logger) *Tracker {
	return &Tracker{logger: logger}
}

// Go starts fn on its own goroutine and tracks it until completion.
func (t *Tracker) Go(name string, fn func(ctx context.Context)) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				t.logger.Error().Str("task", name).Interface("panic", r).Msg("background task panicked")
			}
		}()
		fn(context.Background())
	}()
}

// Wait blocks until all tracked tasks finish or ctx expires.
func (t *Tracker) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
