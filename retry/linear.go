package retry

import (
	"context"
	"time"
)

// Linear adds step to the interval after every attempt, up to maxInterval.
type Linear struct {
	counter
	jitter      float64
	step        time.Duration
	minInterval time.Duration
	maxInterval time.Duration
	cooldown    time.Duration
}

var _ Policy = (*Linear)(nil)

// NewLinear makes up to attempts attempts, or an unlimited number if attempts is 0. The first
// retry waits minInterval. By default the step is chosen so that the last retry waits
// maxInterval, or is minInterval when attempts are unlimited.
func NewLinear(attempts int, minInterval, maxInterval time.Duration) *Linear {
	if minInterval <= 0 {
		panic("minInterval can't be <= 0")
	}
	if minInterval >= maxInterval {
		panic("minInterval can't be >= maxInterval")
	}

	c := newCounter(attempts)

	var step time.Duration
	switch {
	case c.infinite():
		step = minInterval
	case attempts > 2:
		step = (maxInterval - minInterval) / time.Duration(attempts-2)
	}

	return &Linear{
		counter:     c,
		minInterval: minInterval,
		maxInterval: maxInterval,
		step:        step,
		jitter:      0.1,
	}
}

func (p *Linear) WithStep(step time.Duration) *Linear {
	if step <= 0 {
		panic("step can't be <= 0")
	}
	p.step = step
	return p
}

func (p *Linear) WithJitter(jitter float64) *Linear {
	checkJitter(jitter)
	p.jitter = jitter
	return p
}

func (p *Linear) WithCooldown(cooldown time.Duration) *Linear {
	checkCooldown(p.counter, cooldown)
	p.cooldown = cooldown
	return p
}

func (p *Linear) Attempt(ctx context.Context) bool {
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

func (p *Linear) interval() time.Duration {
	retries := time.Duration(p.attempted - 1)
	if p.step > 0 && retries >= (p.maxInterval-p.minInterval)/p.step {
		return p.maxInterval
	}
	return p.minInterval + p.step*retries
}

func (p *Linear) Cooldown() time.Duration {
	return p.cooldown
}

func (p *Linear) Derive() Policy {
	d := NewLinear(p.attempts, p.minInterval, p.maxInterval).
		WithJitter(p.jitter).
		WithCooldown(p.cooldown)
	d.step = p.step
	return d
}
