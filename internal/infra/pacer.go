package infra

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a minimum interval between consecutive commands.
// The interval is measured from the start of the previous exchange: Wait
// stamps the start time just before returning, so two consecutive returns
// are never closer together than the configured interval.
//
// The mutex is held across the sleep. That is deliberate: the pacer is the
// hard serialization point of the client, no two commands may be in flight
// concurrently on one session.
type Pacer struct {
	mu   sync.Mutex
	min  time.Duration
	last time.Time
}

// NewPacer creates a pacer with the given minimum inter-command interval.
func NewPacer(minInterval time.Duration) *Pacer {
	return &Pacer{min: minInterval}
}

// Wait blocks until at least the minimum interval has elapsed since the
// previous Wait returned. The first call returns immediately.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.last.IsZero() {
		if remaining := p.min - time.Since(p.last); remaining > 0 {
			timer := time.NewTimer(remaining)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	p.last = time.Now()
	return nil
}

// Interval returns the configured minimum interval.
func (p *Pacer) Interval() time.Duration {
	return p.min
}
