package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/teenjuna/buffered"
	"github.com/teenjuna/buffered/retry"
)

// How long the final flush may take after shutdown was requested.
const drainTimeout = 5 * time.Second

// pipeline moves samples from a producer to a sink through a shared buffer.
type pipeline struct {
	mu     sync.Mutex
	buffer *buffered.PackagedBuffer[[]any]

	batch     int
	perRecord bool
	policy    retry.Policy
	sink      func(ctx context.Context, data []byte) error
	logger    *slog.Logger

	done chan struct{}
}

func newPipeline(
	buffer *buffered.PackagedBuffer[[]any],
	batch int,
	policy retry.Policy,
	sink func(ctx context.Context, data []byte) error,
	logger *slog.Logger,
) *pipeline {
	return &pipeline{
		buffer: buffer,
		batch:  batch,
		policy: policy,
		sink:   sink,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// produce puts a sample into the buffer every interval until ctx is cancelled or limit samples
// were produced. A limit of 0 means no limit. It must be called once.
func (p *pipeline) produce(
	ctx context.Context,
	interval time.Duration,
	limit int,
	sample func(time.Time) []any,
) error {
	defer close(p.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for n := 0; limit == 0 || n < limit; n++ {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			p.mu.Lock()
			p.buffer.Put(sample(now))
			p.mu.Unlock()
		}
	}

	p.logger.Info("Sampling finished", "samples", limit)
	return nil
}

// run flushes the buffer every interval. It returns after a final flush when ctx is cancelled,
// or when the producer has finished and the buffer is drained.
func (p *pipeline) run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return p.drain(context.WithoutCancel(ctx))
		case <-ticker.C:
		}

		err := p.flush(ctx)
		if errors.Is(err, retry.ErrExhausted) {
			cooldown := p.policy.Cooldown()
			p.logger.Warn("Delivery failed, cooling down", "err", err, "cooldown", cooldown)
			if !sleep(ctx, cooldown) {
				return p.drain(context.WithoutCancel(ctx))
			}
			continue
		}
		if err != nil && ctx.Err() == nil {
			return err
		}

		select {
		case <-p.done:
			if p.size() == 0 {
				return nil
			}
		default:
		}
	}
}

// flush delivers one batch. Samples of a batch that couldn't be delivered are put back at the
// front in their original order.
func (p *pipeline) flush(ctx context.Context) error {
	items, data, err := p.take()
	if err != nil || len(items) == 0 {
		return err
	}

	err = retry.Do(ctx, p.policy, func(ctx context.Context) error {
		return p.sink(ctx, data)
	})
	if err != nil {
		p.mu.Lock()
		p.restore(items)
		p.mu.Unlock()
		return err
	}

	p.logger.Debug("Delivered batch", "samples", len(items), "bytes", len(data))
	return nil
}

// take removes up to batch samples and packs them into one message. With per-record framing
// every sample is packed by the buffer on its own and the terminated records are
// concatenated; otherwise the whole batch is packed as a single list of records.
func (p *pipeline) take() ([][]any, []byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.perRecord {
		items := p.buffer.DumpN(p.batch)
		if len(items) == 0 {
			return nil, nil, nil
		}
		data, err := p.buffer.Packager().Pack(message(items), true)
		if err != nil {
			p.restore(items)
			return nil, nil, fmt.Errorf("pack batch of %d samples: %w", len(items), err)
		}
		return items, data, nil
	}

	items := make([][]any, 0, min(p.batch, p.buffer.Size()))
	for item := range p.buffer.Iter() {
		if len(items) == p.batch {
			break
		}
		items = append(items, item)
	}

	records, err := p.buffer.DumpPacked(p.batch)
	if err != nil {
		// The sample that failed is still at the front.
		p.restore(items[:len(records)])
		return nil, nil, fmt.Errorf("pack sample: %w", err)
	}
	return items, bytes.Join(records, nil), nil
}

// drain flushes until the buffer is empty or drainTimeout passes.
func (p *pipeline) drain(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, drainTimeout)
	defer cancel()

	for p.size() > 0 {
		if err := p.flush(ctx); err != nil {
			lost := p.size()
			p.logger.Error("Final flush failed", "err", err, "lost", lost)
			return fmt.Errorf("final flush: %w", err)
		}
	}
	return nil
}

// restore puts items back at the front in their original order. The caller holds p.mu.
func (p *pipeline) restore(items [][]any) {
	// PutBackMany reverses its arguments.
	items = slices.Clone(items)
	slices.Reverse(items)
	p.buffer.PutBackMany(items...)
}

func (p *pipeline) size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.buffer.Size()
}

// message converts a batch into a []any of records, which every packager understands.
func message(items [][]any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
