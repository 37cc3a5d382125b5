package retry

import (
	"context"
	"time"
)

// Fixed waits the same interval between attempts.
type Fixed struct {
	counter
	jitter   float64
	interval time.Duration
	cooldown time.Duration
}

var _ Policy = (*Fixed)(nil)

// NewFixed makes up to attempts attempts, or an unlimited number if attempts is 0.
func NewFixed(attempts int, interval time.Duration) *Fixed {
	if interval < 0 {
		panic("interval can't be < 0")
	}
	return &Fixed{
		counter:  newCounter(attempts),
		interval: interval,
		jitter:   0.1,
	}
}

func (p *Fixed) WithJitter(jitter float64) *Fixed {
	checkJitter(jitter)
	p.jitter = jitter
	return p
}

func (p *Fixed) WithCooldown(cooldown time.Duration) *Fixed {
	checkCooldown(p.counter, cooldown)
	p.cooldown = cooldown
	return p
}

func (p *Fixed) Attempt(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if p.attempted > 0 {
		if p.exhausted() || !sleep(ctx, p.interval, p.jitter) {
			return false
		}
	}
	p.attempted++
	return true
}

func (p *Fixed) Cooldown() time.Duration {
	return p.cooldown
}

func (p *Fixed) Derive() Policy {
	return NewFixed(p.attempts, p.interval).
		WithJitter(p.jitter).
		WithCooldown(p.cooldown)
}
