// Package msgp packs dynamic records with the tinylib/msgp runtime.
//
// Only the value kinds understood by [msgp.AppendIntf] are supported: nil, booleans, numbers,
// strings, byte slices, time.Time, []any, map[string]any and types implementing
// [msgp.Marshaler].
package msgp

import (
	"fmt"

	"github.com/tinylib/msgp/msgp"

	"github.com/teenjuna/buffered/packager"
)

type Packager struct {
	terminator string
}

var _ packager.Packager = (*Packager)(nil)

func New() *Packager {
	return &Packager{
		terminator: packager.DefaultTerminator,
	}
}

func (p *Packager) WithTerminator(terminator string) *Packager {
	p.terminator = terminator
	return p
}

func (p *Packager) Pack(data any, terminate bool) ([]byte, error) {
	out, err := msgp.AppendIntf(nil, data)
	if err != nil {
		return nil, err
	}
	if terminate {
		out = append(out, p.terminator...)
	}
	return out, nil
}

// Unpack decodes one value and ignores the rest of data.
func (p *Packager) Unpack(data []byte) (any, error) {
	v, _, err := msgp.ReadIntfBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%w: msgp: %w", packager.ErrMalformed, err)
	}
	return v, nil
}
