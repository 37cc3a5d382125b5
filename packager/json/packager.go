package json

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/teenjuna/buffered/packager"
)

// Packager packs records as JSON documents followed by a terminator.
type Packager struct {
	terminator string
}

var _ packager.Packager = (*Packager)(nil)

func New() *Packager {
	return &Packager{
		terminator: packager.DefaultTerminator,
	}
}

// WithTerminator sets the suffix appended by Pack and removed by Unpack.
func (p *Packager) WithTerminator(terminator string) *Packager {
	p.terminator = terminator
	return p
}

func (p *Packager) Pack(data any, terminate bool) ([]byte, error) {
	out, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	if terminate {
		out = append(out, p.terminator...)
	}
	return out, nil
}

// Unpack removes the terminator, if present, and decodes the rest. Empty input decodes to nil
// without an error. Numbers are decoded as float64.
func (p *Packager) Unpack(data []byte) (any, error) {
	data = bytes.TrimSuffix(data, []byte(p.terminator))
	if len(data) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: json: %w", packager.ErrMalformed, err)
	}

	return v, nil
}
