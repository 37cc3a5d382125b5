// This package contains the main [Packager] interface and several implementations inside
// subpackages.
package packager

import "errors"

// DefaultTerminator is appended to packed data by every packager unless configured otherwise.
const DefaultTerminator = "\n"

var (
	// ErrMalformed is wrapped by errors returned from Unpack when the input can't be decoded
	// by the packager's format.
	ErrMalformed = errors.New("malformed packed data")
)

// Packager converts a record into an encoded representation and back.
//
// Implementations are stateless and can be shared between buffers.
type Packager interface {
	// Pack encodes data. If terminate is true, the packager's terminator is appended to the
	// result.
	Pack(data any, terminate bool) ([]byte, error)
	// Unpack decodes data produced by Pack. Errors caused by invalid input wrap
	// [ErrMalformed].
	Unpack(data []byte) (any, error)
}
