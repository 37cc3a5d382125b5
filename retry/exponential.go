package retry

import (
	"context"
	"math"
	"time"
)

// Exponential multiplies the interval by base after every attempt, up to maxInterval.
type Exponential struct {
	counter
	jitter      float64
	base        float64
	minInterval time.Duration
	maxInterval time.Duration
	cooldown    time.Duration
}

var _ Policy = (*Exponential)(nil)

// NewExponential makes up to attempts attempts, or an unlimited number if attempts is 0. The
// first retry waits minInterval.
func NewExponential(attempts int, minInterval, maxInterval time.Duration) *Exponential {
	if minInterval <= 0 {
		panic("minInterval can't be <= 0")
	}
	if minInterval >= maxInterval {
		panic("minInterval can't be >= maxInterval")
	}
	return &Exponential{
		counter:     newCounter(attempts),
		minInterval: minInterval,
		maxInterval: maxInterval,
		base:        2,
		jitter:      0.1,
	}
}

func (p *Exponential) WithBase(base float64) *Exponential {
	if base <= 1 {
		panic("base can't be <= 1")
	}
	p.base = base
	return p
}

func (p *Exponential) WithJitter(jitter float64) *Exponential {
	checkJitter(jitter)
	p.jitter = jitter
	return p
}

func (p *Exponential) WithCooldown(cooldown time.Duration) *Exponential {
	checkCooldown(p.counter, cooldown)
	p.cooldown = cooldown
	return p
}

func (p *Exponential) Attempt(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}
	if p.attempted > 0 {
		if p.exhausted() || !sleep(ctx, p.interval(), p.jitter) {
			return false
		}
	}
	p.attempted++
	return true
}

// interval of the next retry. Computed in float64 so a long run of infinite attempts can't
// overflow time.Duration.
func (p *Exponential) interval() time.Duration {
	d := float64(p.minInterval) * math.Pow(p.base, float64(p.attempted-1))
	if d >= float64(p.maxInterval) {
		return p.maxInterval
	}
	return time.Duration(d)
}

func (p *Exponential) Cooldown() time.Duration {
	return p.cooldown
}

func (p *Exponential) Derive() Policy {
	return NewExponential(p.attempts, p.minInterval, p.maxInterval).
		WithBase(p.base).
		WithJitter(p.jitter).
		WithCooldown(p.cooldown)
}
