package retry

import (
	"context"
	"time"
)

// Immediate retries without waiting.
type Immediate struct {
	counter
	cooldown time.Duration
}

var _ Policy = (*Immediate)(nil)

// NewImmediate makes up to attempts attempts, or an unlimited number if attempts is 0.
func NewImmediate(attempts int) *Immediate {
	return &Immediate{
		counter: newCounter(attempts),
	}
}

func (p *Immediate) WithCooldown(cooldown time.Duration) *Immediate {
	checkCooldown(p.counter, cooldown)
	p.cooldown = cooldown
	return p
}

func (p *Immediate) Attempt(ctx context.Context) bool {
	if ctx.Err() != nil || p.exhausted() {
		return false
	}
	if !p.infinite() {
		p.attempted++
	}
	return true
}

func (p *Immediate) Cooldown() time.Duration {
	return p.cooldown
}

func (p *Immediate) Derive() Policy {
	return NewImmediate(p.attempts).WithCooldown(p.cooldown)
}
