package buffered_test

import (
	"testing"

	"github.com/teenjuna/buffered"
	"github.com/teenjuna/buffered/internal/testing/require"
)

func TestPutAny(t *testing.T) {
	t.Run("Scalar", func(t *testing.T) {
		buffer := buffered.New[any]()
		buffered.PutAny(buffer, "hello")
		require.Equal(t, buffer.String(), "Buffer(hello ... hello, len=1/4096)")
	})

	t.Run("Record", func(t *testing.T) {
		buffer := buffered.New[any]()
		buffered.PutAny(buffer, []string{"hello"})
		buffered.PutAny(buffer, []any{"cpu", 0.5})
		require.Equal(t, buffer.Snapshot(), []any{[]string{"hello"}, []any{"cpu", 0.5}})
	})

	t.Run("Batch", func(t *testing.T) {
		buffer := buffered.New[any]()
		buffered.PutAny(buffer, [][]int{{1, 2, 3}, {4, 5, 6}})
		buffered.PutAny(buffer, []any{[]int{7, 8, 9}})
		require.Equal(t, buffer.Size(), 3)
		require.Equal(t, buffer.Snapshot(), []any{[]int{1, 2, 3}, []int{4, 5, 6}, []int{7, 8, 9}})
	})

	t.Run("Batch of maps", func(t *testing.T) {
		buffer := buffered.New[any]()
		buffered.PutAny(buffer, []map[string]int{{"a": 1}, {"b": 2}})
		require.Equal(t, buffer.Snapshot(), []any{map[string]int{"a": 1}, map[string]int{"b": 2}})
	})

	t.Run("Empty", func(t *testing.T) {
		buffer := buffered.New[any]()
		buffered.PutAny(buffer, []int{})
		require.Equal(t, buffer.Snapshot(), []any{[]int{}})
	})

	t.Run("Bytes", func(t *testing.T) {
		buffer := buffered.New[any]()
		buffered.PutAny(buffer, [][]byte{[]byte("a"), []byte("b")})
		buffered.PutAny(buffer, []byte("c"))
		require.Equal(t, buffer.Snapshot(), []any{[][]byte{[]byte("a"), []byte("b")}, []byte("c")})
	})
}

func TestPutBackAny(t *testing.T) {
	buffer := buffered.New[any]()
	buffered.PutAny(buffer, 0)
	buffered.PutBackAny(buffer, [][]int{{1}, {2}})
	buffered.PutBackAny(buffer, "x")
	require.Equal(t, buffer.Snapshot(), []any{"x", []int{2}, []int{1}, 0})
}

func TestDumpAny(t *testing.T) {
	buffer := buffered.New(func(c *buffered.Config[int]) {
		c.Items(1, 2, 3, 4, 5)
	})

	require.Equal(t, buffered.DumpAny(buffer, -1), []int{1, 2, 3, 4, 5})
	require.Equal(t, buffer.Size(), 5)

	require.Equal(t, buffered.DumpAny(buffer, -2), []int{})
	require.Equal(t, buffer.Size(), 5)

	require.Equal(t, buffered.DumpAny(buffer, 2), []int{1, 2})
	require.Equal(t, buffer.Size(), 3)

	require.Equal(t, buffered.DumpAny(buffer, 0), []int{3, 4, 5})
	require.Equal(t, buffer.Empty(), true)
}
