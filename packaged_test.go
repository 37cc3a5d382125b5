package buffered_test

import (
	"testing"

	"github.com/teenjuna/buffered"
	"github.com/teenjuna/buffered/internal/testing/require"
	"github.com/teenjuna/buffered/packager"
	"github.com/teenjuna/buffered/packager/json"
	"github.com/teenjuna/buffered/packager/separator"
)

var samples = [][]any{
	{"cpu", 0.5, 1622555555.0},
	{"memory", 0.6, 1622555556.0},
	{"cpu", 0.7, 1622555557.0},
}

func strs(data [][]byte) []string {
	out := make([]string, len(data))
	for i, d := range data {
		out[i] = string(d)
	}
	return out
}

func TestPackagedBufferScenario(t *testing.T) {
	buffer := buffered.NewPackaged(func(c *buffered.PackagedConfig[[]int]) {
		c.Packager(separator.New("|", ";"))
	})
	buffer.Put([]int{1, 2, 3})
	buffer.Put([]int{4, 5, 6})
	buffer.Put([]int{7, 8, 9})
	require.Equal(t, buffer.String(), "PackagedBuffer([1 2 3] ... [7 8 9], len=3/4096)")

	packed, err := buffer.DumpPacked(0)
	require.Nil(t, err)
	require.Equal(t, strs(packed), []string{"1;2;3|\n", "4;5;6|\n", "7;8;9|\n"})
	require.Equal(t, buffer.Empty(), true)
}

func TestPackagedBufferSeparator(t *testing.T) {
	buffer := buffered.NewPackaged(func(c *buffered.PackagedConfig[[]any]) {
		c.Packager(separator.New("|", ":").WithTerminator("\x00"))
		c.Items(samples...)
	})

	packed, err := buffer.Copy().DumpPacked(0)
	require.Nil(t, err)
	require.Equal(t, strs(packed), []string{
		"cpu:0.5:1622555555.0|\x00",
		"memory:0.6:1622555556.0|\x00",
		"cpu:0.7:1622555557.0|\x00",
	})
	require.Equal(t, buffer.Size(), 3)

	buffer.Put([]any{"cpu", 0.8, 1622555558.0})

	unpacked, err := buffer.Copy().DumpUnpacked(0)
	require.Nil(t, err)
	require.Equal(t, unpacked, []any{
		[]any{"cpu", 0.5, 1622555555.0},
		[]any{"memory", 0.6, 1622555556.0},
		[]any{"cpu", 0.7, 1622555557.0},
		[]any{"cpu", 0.8, 1622555558.0},
	})

	packed, err = buffer.DumpPacked(2)
	require.Nil(t, err)
	require.Equal(t, strs(packed), []string{
		"cpu:0.5:1622555555.0|\x00",
		"memory:0.6:1622555556.0|\x00",
	})
	require.Equal(t, buffer.Size(), 2)
}

func TestPackagedBufferDumpUnpackedRaw(t *testing.T) {
	buffer := buffered.NewPackaged(func(c *buffered.PackagedConfig[[]any]) {
		c.Items(samples...)
	})

	unpacked, err := buffer.DumpUnpacked(-1)
	require.Nil(t, err)
	require.Equal(t, unpacked, []any{samples[0], samples[1], samples[2]})
	require.Equal(t, buffer.Size(), 3)

	unpacked, err = buffer.DumpUnpacked(-2)
	require.Nil(t, err)
	require.Equal(t, unpacked, []any{})
	require.Equal(t, buffer.Size(), 3)

	unpacked, err = buffer.DumpUnpacked(1)
	require.Nil(t, err)
	require.Equal(t, unpacked, []any{samples[0]})
	require.Equal(t, buffer.Size(), 2)
}

func TestPackagedBufferUnpack(t *testing.T) {
	buffer := buffered.NewPackaged(func(c *buffered.PackagedConfig[string]) {
		c.Packager(separator.New("|", ":").WithTerminator("\x00"))
		c.Items(
			"cpu:0.5:1622555555.0|\x00",
			"memory:0.6:1622555556.0|\x00",
			"cpu:0.7:1622555557.0|\x00",
			"cpu:0.8:1622555558.0|\x00",
		)
	})

	unpacked, err := buffer.DumpUnpacked(0)
	require.Nil(t, err)
	require.Equal(t, unpacked, []any{
		[]string{"cpu", "0.5", "1622555555.0"},
		[]string{"memory", "0.6", "1622555556.0"},
		[]string{"cpu", "0.7", "1622555557.0"},
		[]string{"cpu", "0.8", "1622555558.0"},
	})
	require.Equal(t, buffer.Empty(), true)
}

func TestPackagedBufferBytes(t *testing.T) {
	buffer := buffered.NewPackaged[[]byte]()
	buffer.Put([]byte(`{"cpu":0.5}` + "\n"))
	buffer.Put([]byte(`{"cpu":0.6}` + "\n"))

	v, err := buffer.NextUnpacked()
	require.Nil(t, err)
	require.Equal(t, v, any(map[string]any{"cpu": 0.5}))

	unpacked, err := buffer.DumpUnpacked(5)
	require.Nil(t, err)
	require.Equal(t, unpacked, []any{map[string]any{"cpu": 0.6}})
}

func TestPackagedBufferDefaultPackager(t *testing.T) {
	buffer := buffered.NewPackaged(func(c *buffered.PackagedConfig[[]any]) {
		c.Terminator("\r\n")
	})
	buffer.PutMany(samples...)

	data, err := buffer.NextPacked(true)
	require.Nil(t, err)
	require.Equal(t, string(data), `["cpu",0.5,1622555555]`+"\r\n")

	data, err = buffer.NextPacked(false)
	require.Nil(t, err)
	require.Equal(t, string(data), `["memory",0.6,1622555556]`)

	v, err := buffer.Packager().Unpack(data)
	require.Nil(t, err)
	require.Equal(t, v, any([]any{"memory", 0.6, 1622555556.0}))
	require.Equal(t, buffer.Size(), 1)
}

func TestPackagedBufferEmpty(t *testing.T) {
	buffer := buffered.NewPackaged[any]()

	_, err := buffer.NextPacked(true)
	require.ErrorIs(t, err, buffered.ErrEmpty)

	_, err = buffer.NextUnpacked()
	require.ErrorIs(t, err, buffered.ErrEmpty)

	packed, err := buffer.DumpPacked(0)
	require.Nil(t, err)
	require.Equal(t, len(packed), 0)

	unpacked, err := buffer.DumpUnpacked(0)
	require.Nil(t, err)
	require.Equal(t, len(unpacked), 0)
}

func TestPackagedBufferNotPacked(t *testing.T) {
	buffer := buffered.NewPackaged[any]()
	buffer.Put(42)

	_, err := buffer.NextUnpacked()
	require.ErrorIs(t, err, buffered.ErrNotPacked)
	require.Equal(t, buffer.Size(), 1)
}

func TestPackagedBufferErrorsKeepItems(t *testing.T) {
	t.Run("Pack", func(t *testing.T) {
		buffer := buffered.NewPackaged[any]()
		buffer.PutMany("cpu", make(chan int), "memory")

		packed, err := buffer.DumpPacked(0)
		require.NotNil(t, err)
		require.Equal(t, strs(packed), []string{`"cpu"` + "\n"})
		require.Equal(t, buffer.Size(), 2)
	})

	t.Run("Unpack", func(t *testing.T) {
		buffer := buffered.NewPackaged(func(c *buffered.PackagedConfig[string]) {
			c.Packager(json.New())
		})
		buffer.PutMany(`"cpu"`, `{"broken"`, `"memory"`)

		unpacked, err := buffer.DumpUnpacked(0)
		require.ErrorIs(t, err, packager.ErrMalformed)
		require.Equal(t, unpacked, []any{"cpu"})
		require.Equal(t, buffer.Size(), 2)

		front, _ := buffer.Peek()
		require.Equal(t, front, `{"broken"`)
	})
}

func TestPackagedBufferCopy(t *testing.T) {
	buffer := buffered.NewPackaged(func(c *buffered.PackagedConfig[[]any]) {
		c.Capacity(10)
		c.Items(samples...)
	})

	copied := buffer.Copy()
	require.Equal(t, copied.Snapshot(), buffer.Snapshot())
	require.Equal(t, copied.Packager() == buffer.Packager(), true)
	require.Equal(t, copied.String(), "PackagedBuffer([cpu 0.5 1.622555555e+09] ... [cpu 0.7 1.622555557e+09], len=3/10)")

	copied.Snapshot()[0][0] = "disk"
	first, _ := buffer.Peek()
	require.Equal(t, first[0], any("cpu"))
}
