// Package msgpack packs records with MessagePack using reflection, so any Go value can be
// packed without generated code.
package msgpack

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

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

// Pack encodes data with sorted map keys, so equal maps always produce equal bytes.
func (p *Packager) Pack(data any, terminate bool) ([]byte, error) {
	var buf bytes.Buffer

	enc := msgpack.GetEncoder()
	enc.Reset(&buf)
	enc.SetSortMapKeys(true)
	err := enc.Encode(data)
	msgpack.PutEncoder(enc)
	if err != nil {
		return nil, err
	}

	if terminate {
		buf.WriteString(p.terminator)
	}

	return buf.Bytes(), nil
}

// Unpack decodes exactly one value. Anything after it, the terminator included, is ignored.
// Integers are decoded as int64 or uint64 and floats as float64.
func (p *Packager) Unpack(data []byte) (any, error) {
	dec := msgpack.GetDecoder()
	dec.Reset(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	v, err := dec.DecodeInterface()
	msgpack.PutDecoder(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: msgpack: %w", packager.ErrMalformed, err)
	}

	return v, nil
}
