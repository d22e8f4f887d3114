package format

import (
	"errors"
	"fmt"

	"github.com/joshuapare/hivexcavator/internal/buf"
)

// Cell is a single allocation within a hive bin.
//
//	Offset  Size  Description
//	0x00    4     Signed size. Negative => allocated, positive => free.
//	              The absolute value includes the 4-byte header.
//	0x04    ...   Payload. Records start with a two-letter signature.
type Cell struct {
	Size int  // total size including header
	Free bool // true when the size field is positive
	Data []byte
}

// Tag returns the two-letter record signature, or "" for short payloads.
func (c Cell) Tag() string {
	if len(c.Data) < SignatureSize {
		return ""
	}
	return string(c.Data[:SignatureSize])
}

// ParseCell decodes the cell starting at b[0]. The payload aliases b.
func ParseCell(b []byte) (Cell, error) {
	if len(b) < CellHeaderSize {
		return Cell{}, fmt.Errorf("cell: %w", ErrTruncated)
	}
	raw := buf.I32LE(b)
	if raw == 0 {
		return Cell{}, errors.New("cell: zero length")
	}
	size := int(raw)
	if raw < 0 {
		size = -size
	}
	if size < CellHeaderSize || size > len(b) {
		return Cell{}, fmt.Errorf("cell: %w (size %d, have %d)", ErrTruncated, size, len(b))
	}
	return Cell{
		Size: size,
		Free: raw > 0,
		Data: b[CellHeaderSize:size],
	}, nil
}
