package framework

import (
	"context"
	"time"
)

// Periodic is a Runnable calling Tick at a fixed interval until the
// context is done or Tick fails.
type Periodic struct {
	name     string
	Interval time.Duration
	Tick     func(ctx context.Context, now time.Time) error
}

// NewPeriodic creates a Periodic.
func NewPeriodic(name string, interval time.Duration, tick func(context.Context, time.Time) error) *Periodic {
	return &Periodic{name: name, Interval: interval, Tick: tick}
}

// Name implements Named.
func (p *Periodic) Name() string {
	return p.name
}

// Run implements Runnable. A tick taking longer than Interval delays the
// next one rather than queueing it.
func (p *Periodic) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultLoopInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if err := p.Tick(ctx, now); err != nil {
				return err
			}
		}
	}
}
