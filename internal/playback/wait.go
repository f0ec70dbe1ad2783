package playback

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// ErrStopped is the control signal raised inside a run once it has been
// stopped. It never reaches callers of the Scheduler.
var ErrStopped = errors.New("playback stopped")

// Wait suspends for d, one tick at a time. Before every tick it checks ctx
// for cancellation and paused for a hold; a held tick still sleeps but does
// not count towards d. Cancellation is therefore observed within one tick.
func Wait(ctx context.Context, clock Clock, tick, d time.Duration, paused func() bool) error {
	var elapsed time.Duration
	for elapsed < d {
		if ctx.Err() != nil {
			return ErrStopped
		}
		if paused == nil || !paused() {
			elapsed += tick
		}
		if err := clock.Sleep(ctx, tick); err != nil {
			if ctx.Err() != nil {
				return ErrStopped
			}
			return err
		}
	}
	return nil
}

// Token is the cancellation handle of a single run. The caller that starts
// a run owns the token and is the only one that stops or pauses it.
type Token struct {
	ctx    context.Context
	cancel context.CancelFunc
	paused atomic.Bool
}

// NewToken derives a token from parent.
func NewToken(parent context.Context) *Token {
	ctx, cancel := context.WithCancel(parent)
	return &Token{ctx: ctx, cancel: cancel}
}

// Context returns the context cancelled by Stop.
func (t *Token) Context() context.Context { return t.ctx }

// Stop cancels the run. Idempotent.
func (t *Token) Stop() { t.cancel() }

// Stopped reports whether Stop has been called.
func (t *Token) Stopped() bool { return t.ctx.Err() != nil }

// SetPaused holds or releases the run.
func (t *Token) SetPaused(p bool) { t.paused.Store(p) }

// Paused reports whether the run is held.
func (t *Token) Paused() bool { return t.paused.Load() }

// Wait suspends for d under this token's stop and pause flags.
func (t *Token) Wait(clock Clock, tick, d time.Duration) error {
	return Wait(t.ctx, clock, tick, d, t.Paused)
}
