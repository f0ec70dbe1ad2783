package playback

import (
	"context"
	"time"
)

// Clock yields control to the host for a duration.
type Clock interface {
	// Sleep blocks for d or until ctx is done, whichever is first, and
	// returns ctx.Err() in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock sleeps on wall-clock time.
type RealClock struct{}

// Sleep implements Clock.
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func(ctx context.Context, d time.Duration) error

// Sleep implements Clock.
func (f ClockFunc) Sleep(ctx context.Context, d time.Duration) error {
	return f(ctx, d)
}

// ScaledClock divides every sleep by Speed. Speeds ≤ 0 are treated as 1.
type ScaledClock struct {
	Clock Clock
	Speed float64
}

// Sleep implements Clock.
func (c ScaledClock) Sleep(ctx context.Context, d time.Duration) error {
	if c.Speed > 0 && c.Speed != 1 {
		d = time.Duration(float64(d) / c.Speed)
	}
	return c.Clock.Sleep(ctx, d)
}
