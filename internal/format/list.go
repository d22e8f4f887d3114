package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivexcavator/internal/buf"
)

// DecodeSubkeyList extracts NK offsets from a leaf list (LI, LF or LH). When
// expected is non-zero it caps the number of entries read, so a list whose
// count disagrees with the parent's subkey count yields the smaller of both.
func DecodeSubkeyList(b []byte, expected uint32) ([]uint32, error) {
	if len(b) < ListHeaderSize {
		return nil, fmt.Errorf("subkey list: %w", ErrTruncated)
	}
	count := uint32(buf.U16LE(b[SignatureSize:]))
	if expected != 0 && expected < count {
		count = expected
	}
	switch sig := b[:SignatureSize]; {
	case bytes.Equal(sig, LISignature):
		return readOffsets(b, "li list", count, OffsetFieldSize)
	case bytes.Equal(sig, LFSignature), bytes.Equal(sig, LHSignature):
		return readOffsets(b, "lf list", count, LFEntrySize)
	default:
		return nil, fmt.Errorf("subkey list %q: %w", sig, ErrUnsupported)
	}
}

// IsRIList reports whether b holds an RI (indirect) list.
func IsRIList(b []byte) bool {
	return len(b) >= SignatureSize && bytes.Equal(b[:SignatureSize], RISignature)
}

// DecodeRIList returns the offsets of the leaf lists an RI list points at.
// The caller fetches and decodes each leaf.
func DecodeRIList(b []byte) ([]uint32, error) {
	if len(b) < ListHeaderSize {
		return nil, fmt.Errorf("ri list: %w", ErrTruncated)
	}
	if !IsRIList(b) {
		return nil, fmt.Errorf("ri list: %w", ErrSignatureMismatch)
	}
	return readOffsets(b, "ri list", uint32(buf.U16LE(b[SignatureSize:])), OffsetFieldSize)
}

// DecodeValueList decodes a value list: a bare array of VK offsets with no
// header, sized by the owning key's value count.
func DecodeValueList(b []byte, count uint32) ([]uint32, error) {
	if count == 0 {
		return nil, nil
	}
	if _, err := buf.CheckListBounds(len(b), 0, int(count), OffsetFieldSize); err != nil {
		return nil, fmt.Errorf("value list: %w: %w", ErrTruncated, err)
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = buf.U32LE(b[i*OffsetFieldSize:])
	}
	return out, nil
}

// readOffsets reads count elements of stride bytes after the list header,
// taking the first uint32 of each element.
func readOffsets(b []byte, what string, count uint32, stride int) ([]uint32, error) {
	if _, err := buf.CheckListBounds(len(b), ListHeaderSize, int(count), stride); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", what, ErrTruncated, err)
	}
	out := make([]uint32, count)
	for i := range out {
		out[i] = buf.U32LE(b[ListHeaderSize+i*stride:])
	}
	return out, nil
}
