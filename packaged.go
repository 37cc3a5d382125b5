package buffered

import (
	"fmt"

	"github.com/teenjuna/buffered/packager"
)

// PackagedBuffer is a [Buffer] that can drain items through a [packager.Packager].
//
// A PackagedBuffer should hold either raw records, drained with NextPacked and DumpPacked, or
// packed data (strings or byte slices, for example read from a wire), drained with
// NextUnpacked and DumpUnpacked. DumpUnpacked decides which one it holds by looking at the
// front item only, so mixing both kinds gives undefined results.
type PackagedBuffer[Item any] struct {
	*Buffer[Item]
	packager packager.Packager
}

// NewPackaged creates a new PackagedBuffer with the provided configuration functions.
//
// Default configuration is the same as in [New], plus:
//   - Packager: JSON packager using the terminator below
//   - Terminator: [packager.DefaultTerminator]
func NewPackaged[Item any](configFuncs ...func(c *PackagedConfig[Item])) *PackagedBuffer[Item] {
	cfg := newPackagedConfig(configFuncs...)
	return &PackagedBuffer[Item]{
		Buffer:   newBuffer(&cfg.Config),
		packager: cfg.packager,
	}
}

func (b *PackagedBuffer[Item]) Packager() packager.Packager {
	return b.packager
}

// NextPacked removes the front item and returns it packed. Returns [ErrEmpty] if the buffer is
// empty. If packing fails, the item stays in the buffer.
func (b *PackagedBuffer[Item]) NextPacked(terminate bool) ([]byte, error) {
	item, ok := b.Peek()
	if !ok {
		return nil, ErrEmpty
	}

	data, err := b.packager.Pack(item, terminate)
	if err != nil {
		b.metrics.packagingError(opPack)
		return nil, fmt.Errorf("pack item: %w", err)
	}

	b.Get()
	b.metrics.packaged(opPack)

	return data, nil
}

// NextUnpacked removes the front item, which must be a string or a []byte, and returns it
// unpacked. Returns [ErrEmpty] if the buffer is empty and [ErrNotPacked] if the item has
// another type. If unpacking fails, the item stays in the buffer.
func (b *PackagedBuffer[Item]) NextUnpacked() (any, error) {
	item, ok := b.Peek()
	if !ok {
		return nil, ErrEmpty
	}

	data, ok := packed(item)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotPacked, item)
	}

	v, err := b.packager.Unpack(data)
	if err != nil {
		b.metrics.packagingError(opUnpack)
		return nil, fmt.Errorf("unpack item: %w", err)
	}

	b.Get()
	b.metrics.packaged(opUnpack)

	return v, nil
}

// DumpPacked calls NextPacked with termination up to limit times, or until the buffer is
// empty if limit < 1. On error, it returns the items packed so far together with the error.
func (b *PackagedBuffer[Item]) DumpPacked(limit int) ([][]byte, error) {
	n := b.dumpSize(limit)
	out := make([][]byte, 0, n)
	for range n {
		data, err := b.NextPacked(true)
		if err != nil {
			return out, err
		}
		out = append(out, data)
	}
	return out, nil
}

// DumpUnpacked removes up to limit items, or all of them if limit < 1, and returns them
// unpacked. On error, it returns the items unpacked so far together with the error.
//
// If the front item isn't packed data, the items are returned as they are with the limit
// semantics of [DumpAny], so a limit of -1 returns all items without removing them.
func (b *PackagedBuffer[Item]) DumpUnpacked(limit int) ([]any, error) {
	if item, ok := b.Peek(); ok {
		if _, ok := packed(item); !ok {
			items := DumpAny(b.Buffer, limit)
			out := make([]any, len(items))
			for i, item := range items {
				out[i] = item
			}
			return out, nil
		}
	}

	n := b.dumpSize(limit)
	out := make([]any, 0, n)
	for range n {
		v, err := b.NextUnpacked()
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Copy returns an independent deep copy of the buffer sharing the same packager.
func (b *PackagedBuffer[Item]) Copy() *PackagedBuffer[Item] {
	return &PackagedBuffer[Item]{
		Buffer:   b.Buffer.Copy(),
		packager: b.packager,
	}
}

func (b *PackagedBuffer[Item]) String() string {
	return b.format("PackagedBuffer")
}

func (b *PackagedBuffer[Item]) dumpSize(limit int) int {
	n := b.Size()
	if limit >= 1 && limit < n {
		n = limit
	}
	return n
}

func packed(item any) ([]byte, bool) {
	switch v := item.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}
