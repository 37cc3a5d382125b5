// This package contains a bounded double-ended [Buffer] of records and a [PackagedBuffer] that
// drains records through a packager.
//
// Buffers are not thread-safe. Callers that share a buffer between goroutines must guard it
// with their own lock.
package buffered

import (
	"fmt"
	"iter"
	"log/slog"
	"slices"

	list "github.com/bahlo/generic-list-go"
)

// Buffer is a bounded double-ended queue of items.
//
// Put inserts at the back, PutBack inserts at the front and Get removes from the front. When
// the buffer is full, inserting at one end silently evicts the item at the other end.
type Buffer[Item any] struct {
	items    *list.List[Item]
	capacity int
	clone    func(Item) Item
	logger   *slog.Logger
	metrics  *metrics
}

// New creates a new Buffer with the provided configuration functions.
//
// Default configuration:
//   - Capacity: [DefaultCapacity]
//   - Items: none
//   - Logger: discards everything
//   - Prometheus: disabled
//   - Clone: reflection-based deep copy
func New[Item any](configFuncs ...func(c *Config[Item])) *Buffer[Item] {
	cfg := newConfig[Item]()
	for _, cf := range configFuncs {
		if cf != nil {
			cf(cfg)
		}
	}
	return newBuffer(cfg)
}

func newBuffer[Item any](cfg *Config[Item]) *Buffer[Item] {
	b := Buffer[Item]{
		items:    list.New[Item](),
		capacity: cfg.capacity,
		clone:    cfg.clone,
		logger:   cfg.logger,
	}
	if cfg.prometheus != nil {
		b.metrics = cfg.prometheus.metrics()
	}

	b.PutMany(cfg.items...)

	return &b
}

// Put inserts item at the back. If the buffer is full, the front item is evicted.
func (b *Buffer[Item]) Put(item Item) {
	if b.items.Len() >= b.capacity {
		b.evict(b.items.Front(), front)
	}
	b.items.PushBack(item)
	b.metrics.pushed(back, b.items.Len())
}

// PutMany inserts items at the back in order, as if Put was called for each of them.
func (b *Buffer[Item]) PutMany(items ...Item) {
	for _, item := range items {
		b.Put(item)
	}
}

// PutBack inserts item at the front. If the buffer is full, the back item is evicted.
func (b *Buffer[Item]) PutBack(item Item) {
	if b.items.Len() >= b.capacity {
		b.evict(b.items.Back(), back)
	}
	b.items.PushFront(item)
	b.metrics.pushed(front, b.items.Len())
}

// PutBackMany calls PutBack for each item in order, so the last item ends up at the front.
func (b *Buffer[Item]) PutBackMany(items ...Item) {
	for _, item := range items {
		b.PutBack(item)
	}
}

// Get removes and returns the front item. It returns false if the buffer is empty.
func (b *Buffer[Item]) Get() (Item, bool) {
	e := b.items.Front()
	if e == nil {
		var zero Item
		return zero, false
	}
	return b.remove(e), true
}

// GetAt removes and returns the item at index. Negative indexes count from the back, so -1 is
// the last item.
//
// Returns [ErrEmpty] if the buffer is empty and an [IndexError] if index doesn't resolve to an
// item.
func (b *Buffer[Item]) GetAt(index int) (Item, error) {
	e, err := b.element(index)
	if err != nil {
		var zero Item
		return zero, err
	}
	return b.remove(e), nil
}

// Peek returns the front item without removing it. It returns false if the buffer is empty.
func (b *Buffer[Item]) Peek() (Item, bool) {
	e := b.items.Front()
	if e == nil {
		var zero Item
		return zero, false
	}
	return e.Value, true
}

// PeekAt returns the item at index without removing it. Index resolution and errors are the
// same as in [Buffer.GetAt].
func (b *Buffer[Item]) PeekAt(index int) (Item, error) {
	e, err := b.element(index)
	if err != nil {
		var zero Item
		return zero, err
	}
	return e.Value, nil
}

func (b *Buffer[Item]) Size() int {
	return b.items.Len()
}

func (b *Buffer[Item]) Capacity() int {
	return b.capacity
}

func (b *Buffer[Item]) Empty() bool {
	return b.items.Len() == 0
}

func (b *Buffer[Item]) NotEmpty() bool {
	return b.items.Len() > 0
}

// Dump removes and returns all items.
func (b *Buffer[Item]) Dump() []Item {
	return b.DumpN(0)
}

// DumpN removes and returns up to limit front items. If limit < 1, all items are removed.
func (b *Buffer[Item]) DumpN(limit int) []Item {
	n := b.items.Len()
	if limit >= 1 && limit < n {
		n = limit
	}

	out := make([]Item, 0, n)
	for range n {
		item, _ := b.Get()
		out = append(out, item)
	}

	return out
}

// Snapshot returns all items without removing them.
func (b *Buffer[Item]) Snapshot() []Item {
	return slices.AppendSeq(make([]Item, 0, b.items.Len()), b.Iter())
}

// Iter returns a sequence of all items from front to back.
func (b *Buffer[Item]) Iter() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for e := b.items.Front(); e != nil; e = e.Next() {
			if !yield(e.Value) {
				return
			}
		}
	}
}

// Copy returns an independent deep copy of the buffer. The copy has the same capacity, logger
// and clone function, but no metrics.
func (b *Buffer[Item]) Copy() *Buffer[Item] {
	c := Buffer[Item]{
		items:    list.New[Item](),
		capacity: b.capacity,
		clone:    b.clone,
		logger:   b.logger,
	}
	for e := b.items.Front(); e != nil; e = e.Next() {
		c.items.PushBack(b.clone(e.Value))
	}
	return &c
}

// String renders the first and last items, the size and the capacity, for example
// "Buffer(1 ... 5, len=5/4096)".
func (b *Buffer[Item]) String() string {
	return b.format("Buffer")
}

func (b *Buffer[Item]) format(name string) string {
	first, last := "<nil>", "<nil>"
	if b.items.Len() != 0 {
		first = fmt.Sprint(b.items.Front().Value)
		last = fmt.Sprint(b.items.Back().Value)
	}
	return fmt.Sprintf("%s(%s ... %s, len=%d/%d)", name, first, last, b.items.Len(), b.capacity)
}

func (b *Buffer[Item]) element(index int) (*list.Element[Item], error) {
	size := b.items.Len()
	if size == 0 {
		return nil, ErrEmpty
	}

	i := index
	if i < 0 {
		i += size
	}
	if i < 0 || i >= size {
		b.logger.Debug("index is out of range", "index", index, "size", size)
		return nil, &IndexError{Index: index, Size: size}
	}

	// Walk from the closer end.
	if i < size/2 {
		e := b.items.Front()
		for range i {
			e = e.Next()
		}
		return e, nil
	}
	e := b.items.Back()
	for range size - 1 - i {
		e = e.Prev()
	}
	return e, nil
}

func (b *Buffer[Item]) remove(e *list.Element[Item]) Item {
	item := b.items.Remove(e)
	b.metrics.removed(b.items.Len())
	return item
}

func (b *Buffer[Item]) evict(e *list.Element[Item], end string) {
	b.items.Remove(e)
	b.metrics.evicted(end)
	b.logger.Debug("evicted item from full buffer", "end", end, "capacity", b.capacity)
}
