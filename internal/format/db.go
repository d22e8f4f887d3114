package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivexcavator/internal/buf"
)

// DBRecord is a big-data record. Values larger than DBChunkSize are split
// into blocks; the record points at a block list cell holding one cell
// offset per block.
//
//	Offset  Size  Field
//	0x00    2     'd' 'b'
//	0x02    2     Number of blocks
//	0x04    4     Offset of the block list cell
//	0x08    4     Unused
type DBRecord struct {
	NumBlocks       uint16
	BlocklistOffset uint32
}

// DecodeDB decodes a DB payload (after the cell header).
func DecodeDB(b []byte) (DBRecord, error) {
	if len(b) < DBMinSize {
		return DBRecord{}, fmt.Errorf("db: %w (need %d bytes, have %d)", ErrTruncated, DBMinSize, len(b))
	}
	if !IsDBRecord(b) {
		return DBRecord{}, fmt.Errorf("db: %w", ErrSignatureMismatch)
	}
	return DBRecord{
		NumBlocks:       buf.U16LE(b[DBCountOffset:]),
		BlocklistOffset: buf.U32LE(b[DBListOffset:]),
	}, nil
}

// IsDBRecord reports whether b starts with the "db" signature.
func IsDBRecord(b []byte) bool {
	return len(b) >= SignatureSize && bytes.Equal(b[:SignatureSize], DBSignature)
}
