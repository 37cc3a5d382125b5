// Package retry contains delivery retry policies for code that drains a buffer into an
// unreliable sink.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"
)

// ErrExhausted is returned by [Do] when the policy allows no more attempts.
var ErrExhausted = errors.New("retry attempts exhausted")

// Policy decides when a failed delivery is attempted again.
//
// A Policy is stateful and must not be shared between goroutines. Use Derive to get a fresh
// instance for every delivery.
type Policy interface {
	// Attempt reports whether another attempt should be made. It blocks for the interval
	// between attempts and returns false if the context is cancelled while waiting.
	Attempt(ctx context.Context) bool
	// Cooldown is how long a batch that exhausted its attempts should stay aside before it's
	// delivered again.
	Cooldown() time.Duration
	// Derive returns an unused copy of the policy.
	Derive() Policy
}

// Do calls deliver until it succeeds or policy allows no more attempts. The policy is derived
// first, so the same policy can be passed to many calls.
//
// When attempts are exhausted, the returned error wraps both [ErrExhausted] and the last
// delivery error. When ctx is cancelled, ctx.Err() is returned.
func Do(ctx context.Context, policy Policy, deliver func(ctx context.Context) error) error {
	p := policy.Derive()

	var last error
	for p.Attempt(ctx) {
		if last = deliver(ctx); last == nil {
			return nil
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if last == nil {
		return ErrExhausted
	}
	return fmt.Errorf("%w: %w", ErrExhausted, last)
}

type counter struct {
	attempted int
	attempts  int
}

func newCounter(attempts int) counter {
	if attempts < 0 {
		panic("attempts can't be < 0")
	}
	return counter{attempts: attempts}
}

func (c *counter) infinite() bool {
	return c.attempts == 0
}

func (c *counter) exhausted() bool {
	return !c.infinite() && c.attempted >= c.attempts
}

func checkJitter(jitter float64) {
	if jitter < 0 {
		panic("jitter can't be < 0")
	}
	if jitter >= 1 {
		panic("jitter can't be >= 1")
	}
}

func checkCooldown(c counter, cooldown time.Duration) {
	if c.infinite() && cooldown > 0 {
		panic("can't set cooldown with infinite attempts")
	}
	if cooldown < 0 {
		panic("cooldown can't be < 0")
	}
}

// sleep waits interval spread by up to ±jitter of itself.
func sleep(ctx context.Context, interval time.Duration, jitter float64) bool {
	m := (rand.Float64() * 2) - 1
	d := interval + time.Duration(m*jitter*float64(interval))

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
