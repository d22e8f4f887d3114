// Package format houses the low-level decoders for the Windows Registry hive
// ("regf") file format. Decoders work on raw cell payloads, never allocate
// more than the record they return, and know nothing about the public API.
package format

var (
	// REGFSignature is the four-byte magic at the start of every hive file.
	REGFSignature = []byte{'r', 'e', 'g', 'f'}

	// HBINSignature is the four-byte magic at the beginning of each hive bin.
	HBINSignature = []byte{'h', 'b', 'i', 'n'}

	NKSignature = []byte{'n', 'k'}
	VKSignature = []byte{'v', 'k'}

	// LF and LH lists carry a hash next to each offset, LI lists do not.
	LFSignature = []byte{'l', 'f'}
	LHSignature = []byte{'l', 'h'}
	LISignature = []byte{'l', 'i'}

	// RISignature marks an indirect list whose entries point at other lists.
	RISignature = []byte{'r', 'i'}

	// DBSignature marks a big-data record for values larger than one cell.
	DBSignature = []byte{'d', 'b'}
)

const (
	// HeaderSize is the size of the REGF header; the first HBIN follows it.
	HeaderSize = 4096

	HBINHeaderSize = 0x20
	CellHeaderSize = 4

	// HBINAlignment is the granularity of hive bin sizes.
	HBINAlignment = 0x1000

	// CellAlignment is the granularity of cell sizes.
	CellAlignment = 8

	HBINFileOffsetField = 0x04
	HBINSizeOffset      = 0x08

	// InvalidOffset marks an unused offset field (no list, no class, ...).
	InvalidOffset = 0xFFFFFFFF

	// SignatureSize is the size of two-letter record signatures.
	SignatureSize = 2

	// ListHeaderSize covers signature plus uint16 count of LI/LF/LH/RI lists.
	ListHeaderSize = 4

	// OffsetFieldSize is the size of a cell index (HCELL_INDEX).
	OffsetFieldSize = 4

	// LFEntrySize is one LF/LH element: cell index plus name hash.
	LFEntrySize = 8

	DWORDSize = 4
	QWORDSize = 8
)

// REGF header field offsets.
const (
	REGFSignatureSize      = 4
	REGFPrimarySeqOffset   = 0x004
	REGFSecondarySeqOffset = 0x008
	REGFTimeStampOffset    = 0x00C
	REGFMajorVersionOffset = 0x014
	REGFMinorVersionOffset = 0x018
	REGFTypeOffset         = 0x01C
	REGFRootCellOffset     = 0x024
	REGFDataSizeOffset     = 0x028
	REGFFileNameOffset     = 0x030
	REGFFileNameSize       = 64
)

// NK field offsets (payload starts at the "nk" signature).
const (
	NKFlagsOffset       = 0x02
	NKLastWriteOffset   = 0x04
	NKParentOffset      = 0x10
	NKSubkeyCountOffset = 0x14
	NKSubkeyListOffset  = 0x1C
	NKValueCountOffset  = 0x24
	NKValueListOffset   = 0x28
	NKSecurityOffset    = 0x2C
	NKClassNameOffset   = 0x30
	NKNameLenOffset     = 0x48
	NKClassLenOffset    = 0x4A
	NKNameOffset        = 0x4C

	// NKFlagCompressedName (KEY_COMP_NAME) means the name is Windows-1252.
	NKFlagCompressedName = 0x20

	// NKFlagHiveEntry (KEY_HIVE_ENTRY) is set on the root key.
	NKFlagHiveEntry = 0x04

	NKMinSize = NKNameOffset
)

// VK field offsets.
const (
	VKNameLenOffset = 0x02
	VKDataLenOffset = 0x04
	VKDataOffOffset = 0x08
	VKTypeOffset    = 0x0C
	VKFlagsOffset   = 0x10
	VKNameOffset    = 0x14

	VKMinSize = VKNameOffset

	// VKFlagASCIIName means the value name is stored in Windows-1252.
	VKFlagASCIIName = 0x0001

	// The high bit of the data length says the payload lives in the
	// data offset field itself (at most four bytes).
	VKDataInlineBit  = 0x80000000
	VKDataLengthMask = 0x7FFFFFFF
)

// DB (big data) record layout.
const (
	DBCountOffset = 0x02 // uint16 number of blocks
	DBListOffset  = 0x04 // cell index of the block list
	DBMinSize     = 0x0C

	// DBChunkSize is the payload carried by every block except the last.
	DBChunkSize = 16344

	// DBBlockPadding trails every data block and is not part of the value.
	DBBlockPadding = 4
)

// Sanity limits applied while decoding untrusted records. They are well above
// anything Windows produces and only reject obviously hostile values.
const (
	MaxSubkeyCount  = 1 << 20
	MaxValueCount   = 1 << 20
	MaxNameLen      = 0x7FFF
	MaxValueDataLen = 1 << 30
)
