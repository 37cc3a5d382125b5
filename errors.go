package buffered

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty is returned by operations that need an element when the buffer has none. It
	// marks an absent value rather than a failure.
	ErrEmpty = errors.New("buffer is empty")
	// ErrOutOfRange is matched by every [IndexError].
	ErrOutOfRange = errors.New("index is out of range")
	// ErrNotPacked is returned by [PackagedBuffer.NextUnpacked] when the front element is
	// neither a string nor a []byte.
	ErrNotPacked = errors.New("item is not packed")
)

// IndexError is returned when an index doesn't resolve to an element of a non-empty buffer.
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d is out of range for buffer of length %d", e.Index, e.Size)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrOutOfRange
}
