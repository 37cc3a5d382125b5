package msgpack_test

import (
	"bytes"
	"testing"

	"github.com/teenjuna/buffered/internal/testing/require"
	"github.com/teenjuna/buffered/packager"
	"github.com/teenjuna/buffered/packager/msgpack"
)

func TestPackager(t *testing.T) {
	p := msgpack.New().WithTerminator("\x00")

	data := []any{
		[]any{"cpu", 0.5, 1622555555.0},
		[]any{"memory", 0.6, 1622555556.0},
	}

	packed, err := p.Pack(data, true)
	require.Nil(t, err)
	require.Equal(t, packed[len(packed)-1], byte(0))

	unpacked, err := p.Unpack(packed)
	require.Nil(t, err)
	require.Equal(t, unpacked, any(data))
}

func TestPackagerMapsAreDeterministic(t *testing.T) {
	p := msgpack.New()

	data := map[string]any{"cpu": 0.5, "memory": 0.6, "host": "db-1", "up": true}

	first, err := p.Pack(data, false)
	require.Nil(t, err)
	for range 100 {
		packed, err := p.Pack(data, false)
		require.Nil(t, err)
		require.Equal(t, bytes.Equal(packed, first), true)
	}

	unpacked, err := p.Unpack(first)
	require.Nil(t, err)
	require.Equal(t, unpacked, any(data))
}

func TestPackagerIgnoresTrailingBytes(t *testing.T) {
	p := msgpack.New()

	packed, err := p.Pack("cpu", true)
	require.Nil(t, err)

	packed = append(packed, "garbage"...)
	unpacked, err := p.Unpack(packed)
	require.Nil(t, err)
	require.Equal(t, unpacked, any("cpu"))
}

func TestPackagerUnpackMalformed(t *testing.T) {
	p := msgpack.New()

	_, err := p.Unpack(nil)
	require.ErrorIs(t, err, packager.ErrMalformed)

	// Array header of 3 elements followed by a single one.
	_, err = p.Unpack([]byte{0x93, 0xa1, 'a'})
	require.ErrorIs(t, err, packager.ErrMalformed)
}
