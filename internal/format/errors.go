package format

import "errors"

var (
	// ErrSignatureMismatch indicates a structure had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrFreeCell indicates a free cell was found where an allocated one was required.
	ErrFreeCell = errors.New("format: cell not in use")
	// ErrUnsupported indicates a record variant this package does not decode.
	ErrUnsupported = errors.New("format: unsupported feature")
	// ErrSanityLimit indicates a count or length beyond the decoding limits.
	ErrSanityLimit = errors.New("format: sanity limit exceeded")
)
