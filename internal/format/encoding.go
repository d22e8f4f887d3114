package format

import (
	"encoding/binary"
	"fmt"
)

// Little-endian writers used by test fixtures that synthesize hive images.

func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

func PutI32(b []byte, off int, v int32) {
	binary.LittleEndian.PutUint32(b[off:off+4], uint32(v))
}

func PutU64(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// CheckedReadU16 reads a uint16 at off, failing with ErrTruncated when the
// field does not fit.
func CheckedReadU16(b []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(b) {
		return 0, fmt.Errorf("u16 at %d: %w", off, ErrTruncated)
	}
	return binary.LittleEndian.Uint16(b[off:]), nil
}

// CheckedReadU32 reads a uint32 at off, failing with ErrTruncated when the
// field does not fit.
func CheckedReadU32(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, fmt.Errorf("u32 at %d: %w", off, ErrTruncated)
	}
	return binary.LittleEndian.Uint32(b[off:]), nil
}

// CheckedReadU64 reads a uint64 at off, failing with ErrTruncated when the
// field does not fit.
func CheckedReadU64(b []byte, off int) (uint64, error) {
	if off < 0 || off+8 > len(b) {
		return 0, fmt.Errorf("u64 at %d: %w", off, ErrTruncated)
	}
	return binary.LittleEndian.Uint64(b[off:]), nil
}

// Align8 rounds n up to the cell alignment.
func Align8(n int) int {
	return (n + CellAlignment - 1) &^ (CellAlignment - 1)
}

// AlignHBIN rounds n up to the hive bin alignment.
func AlignHBIN(n int) int {
	return (n + HBINAlignment - 1) &^ (HBINAlignment - 1)
}
