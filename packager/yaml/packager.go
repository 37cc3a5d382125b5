package yaml

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/teenjuna/buffered/packager"
)

// Packager packs records as YAML documents followed by a terminator.
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
	out, err := yaml.Marshal(data)
	if err != nil {
		return nil, err
	}
	if terminate {
		out = append(out, p.terminator...)
	}
	return out, nil
}

// Unpack removes the terminator, if present, and decodes the rest. Empty input decodes to nil
// without an error.
func (p *Packager) Unpack(data []byte) (any, error) {
	data = bytes.TrimSuffix(data, []byte(p.terminator))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: yaml: %w", packager.ErrMalformed, err)
	}

	return v, nil
}
