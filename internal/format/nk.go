package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivexcavator/internal/buf"
)

// NKRecord captures the fields of a key node the reader needs.
//
//	Offset  Size  Field
//	0x00    2     'n' 'k'
//	0x02    2     Flags (0x20 => name stored as Windows-1252)
//	0x04    8     Last write time (FILETIME)
//	0x10    4     Parent cell offset
//	0x14    4     Number of subkeys
//	0x1C    4     Offset to subkey list
//	0x24    4     Number of values
//	0x28    4     Offset to value list
//	0x2C    4     Security offset
//	0x30    4     Class name offset
//	0x48    2     Name length in bytes
//	0x4A    2     Class length in bytes
//	0x4C    n     Name bytes
type NKRecord struct {
	Flags            uint16
	LastWriteRaw     uint64
	ParentOffset     uint32
	SubkeyCount      uint32
	SubkeyListOffset uint32
	ValueCount       uint32
	ValueListOffset  uint32
	SecurityOffset   uint32
	ClassNameOffset  uint32
	NameLength       uint16
	ClassLength      uint16
	NameRaw          []byte
}

// NameIsCompressed reports whether the name is stored in 8-bit form.
func (nk NKRecord) NameIsCompressed() bool {
	return nk.Flags&NKFlagCompressedName != 0
}

// IsHiveEntry reports whether the key is flagged as the hive root.
func (nk NKRecord) IsHiveEntry() bool {
	return nk.Flags&NKFlagHiveEntry != 0
}

// DecodeNK decodes an NK payload, rejecting counts beyond the sanity limits.
func DecodeNK(b []byte) (NKRecord, error) {
	if len(b) < NKMinSize {
		return NKRecord{}, fmt.Errorf("nk: %w (have %d, need %d)", ErrTruncated, len(b), NKMinSize)
	}
	if !bytes.Equal(b[:SignatureSize], NKSignature) {
		return NKRecord{}, fmt.Errorf("nk: %w", ErrSignatureMismatch)
	}

	// The fixed part is covered by the length check above.
	nk := NKRecord{
		Flags:            buf.U16LE(b[NKFlagsOffset:]),
		LastWriteRaw:     buf.U64LE(b[NKLastWriteOffset:]),
		ParentOffset:     buf.U32LE(b[NKParentOffset:]),
		SubkeyCount:      buf.U32LE(b[NKSubkeyCountOffset:]),
		SubkeyListOffset: buf.U32LE(b[NKSubkeyListOffset:]),
		ValueCount:       buf.U32LE(b[NKValueCountOffset:]),
		ValueListOffset:  buf.U32LE(b[NKValueListOffset:]),
		SecurityOffset:   buf.U32LE(b[NKSecurityOffset:]),
		ClassNameOffset:  buf.U32LE(b[NKClassNameOffset:]),
		NameLength:       buf.U16LE(b[NKNameLenOffset:]),
		ClassLength:      buf.U16LE(b[NKClassLenOffset:]),
	}

	if nk.SubkeyCount > MaxSubkeyCount {
		return NKRecord{}, fmt.Errorf("nk subkey count %d exceeds limit %d: %w",
			nk.SubkeyCount, MaxSubkeyCount, ErrSanityLimit)
	}
	if nk.ValueCount > MaxValueCount {
		return NKRecord{}, fmt.Errorf("nk value count %d exceeds limit %d: %w",
			nk.ValueCount, MaxValueCount, ErrSanityLimit)
	}

	name, ok := buf.Slice(b, NKNameOffset, int(nk.NameLength))
	if !ok {
		return NKRecord{}, fmt.Errorf("nk name: %w (need %d bytes from %d, have %d)",
			ErrTruncated, nk.NameLength, NKNameOffset, len(b))
	}
	nk.NameRaw = name
	return nk, nil
}
