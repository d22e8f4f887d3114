package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivexcavator/internal/buf"
)

// HBIN describes a hive bin header (0x20 bytes):
//
//	Offset  Size  Field
//	0x00    4     'h' 'b' 'i' 'n'
//	0x04    4     Offset of this bin relative to the first bin
//	0x08    4     Size of the bin, multiple of 0x1000
//
// The remaining fields are not needed to locate cells.
type HBIN struct {
	FileOffset uint32
	Size       uint32
}

// NextHBIN validates the bin header at off within b and returns it along
// with the absolute offset of the following bin.
func NextHBIN(b []byte, off int) (HBIN, int, error) {
	head, ok := buf.Slice(b, off, HBINHeaderSize)
	if !ok {
		return HBIN{}, 0, fmt.Errorf("hbin at %#x: %w", off, ErrTruncated)
	}
	if !bytes.Equal(head[:len(HBINSignature)], HBINSignature) {
		return HBIN{}, 0, fmt.Errorf("hbin at %#x: %w", off, ErrSignatureMismatch)
	}
	size := buf.U32LE(head[HBINSizeOffset:])
	if size == 0 || size%HBINAlignment != 0 {
		return HBIN{}, 0, fmt.Errorf("hbin at %#x: invalid size %d", off, size)
	}
	next, ok := buf.AddOverflowSafe(off, int(size))
	if !ok || next > len(b) {
		return HBIN{}, 0, fmt.Errorf("hbin at %#x: %w", off, ErrTruncated)
	}
	return HBIN{
		FileOffset: buf.U32LE(head[HBINFileOffsetField:]),
		Size:       size,
	}, next, nil
}
