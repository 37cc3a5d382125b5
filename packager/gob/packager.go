package gob

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"github.com/teenjuna/buffered/packager"
)

// Packager packs values of a single type T with encoding/gob. Every packed message carries
// its own type information, so messages can be unpacked independently.
type Packager[T any] struct {
	terminator string
}

var _ packager.Packager = (*Packager[any])(nil)

func New[T any]() *Packager[T] {
	return &Packager[T]{
		terminator: packager.DefaultTerminator,
	}
}

func (p *Packager[T]) WithTerminator(terminator string) *Packager[T] {
	p.terminator = terminator
	return p
}

// Pack encodes data, which must be a T.
func (p *Packager[T]) Pack(data any, terminate bool) ([]byte, error) {
	item, ok := data.(T)
	if !ok {
		var zero T
		return nil, fmt.Errorf("gob: can't pack %T as %T", data, zero)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&item); err != nil {
		return nil, err
	}
	if terminate {
		buf.WriteString(p.terminator)
	}

	return buf.Bytes(), nil
}

// Unpack decodes one T and ignores anything after it.
func (p *Packager[T]) Unpack(data []byte) (any, error) {
	var item T
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&item); err != nil {
		return nil, fmt.Errorf("%w: gob: %w", packager.ErrMalformed, err)
	}
	return item, nil
}
