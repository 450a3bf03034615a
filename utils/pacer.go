package utils

import (
	"context"
	"math/rand/v2"
	"time"
)

// Pacer spaces out consecutive requests by a random delay in [Min, Max].
// The first call to Wait returns immediately.
type Pacer struct {
	Min time.Duration
	Max time.Duration

	// Sleep and Jitter are replaceable in tests.
	Sleep  func(ctx context.Context, d time.Duration) error
	Jitter func(n int64) int64

	started bool
}

// NewPacer returns a Pacer drawing delays uniformly from [min, max].
func NewPacer(min, max time.Duration) *Pacer {
	if max < min {
		min, max = max, min
	}
	return &Pacer{Min: min, Max: max}
}

// Next returns the delay the following Wait will use.
func (p *Pacer) Next() time.Duration {
	span := int64(p.Max - p.Min)
	if span <= 0 {
		return p.Min
	}
	jitter := p.Jitter
	if jitter == nil {
		jitter = rand.Int64N
	}
	return p.Min + time.Duration(jitter(span+1))
}

// Wait blocks for a randomized delay, except on the first call.
func (p *Pacer) Wait(ctx context.Context) (time.Duration, error) {
	if !p.started {
		p.started = true
		return 0, ctx.Err()
	}
	d := p.Next()
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	return d, sleep(ctx, d)
}
