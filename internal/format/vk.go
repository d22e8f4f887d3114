package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/hivexcavator/internal/buf"
)

// VKRecord models a value key record.
//
//	Offset  Size  Field
//	0x00    2     'v' 'k'
//	0x02    2     Name length in bytes
//	0x04    4     Data length (high bit => data inline in the next field)
//	0x08    4     Data cell offset, or the data itself when inline
//	0x0C    4     Value type
//	0x10    2     Flags (0x01 => name stored as Windows-1252)
//	0x14    n     Name bytes
type VKRecord struct {
	NameLength uint16
	DataLength uint32
	DataOffset uint32
	Type       uint32
	Flags      uint16
	NameRaw    []byte
}

// NameIsASCII reports whether the name is stored as 8-bit bytes.
func (vk VKRecord) NameIsASCII() bool {
	return vk.Flags&VKFlagASCIIName != 0
}

// DataInline reports whether the data is stored within DataOffset.
func (vk VKRecord) DataInline() bool {
	return vk.DataLength&VKDataInlineBit != 0
}

// Length returns the declared payload length without the inline bit.
func (vk VKRecord) Length() int {
	return int(vk.DataLength & VKDataLengthMask)
}

// DecodeVK decodes a VK payload.
func DecodeVK(b []byte) (VKRecord, error) {
	if len(b) < VKMinSize {
		return VKRecord{}, fmt.Errorf("vk: %w (have %d, need %d)", ErrTruncated, len(b), VKMinSize)
	}
	if !bytes.Equal(b[:SignatureSize], VKSignature) {
		return VKRecord{}, fmt.Errorf("vk: %w", ErrSignatureMismatch)
	}

	nameLen, err := CheckedReadU16(b, VKNameLenOffset)
	if err != nil {
		return VKRecord{}, fmt.Errorf("vk name len: %w", err)
	}
	if int(nameLen) > MaxNameLen {
		return VKRecord{}, fmt.Errorf("vk name len %d exceeds limit %d: %w",
			nameLen, MaxNameLen, ErrSanityLimit)
	}

	dataLen, err := CheckedReadU32(b, VKDataLenOffset)
	if err != nil {
		return VKRecord{}, fmt.Errorf("vk data len: %w", err)
	}
	if n := dataLen & VKDataLengthMask; n > MaxValueDataLen {
		return VKRecord{}, fmt.Errorf("vk data len %d exceeds limit %d: %w",
			n, MaxValueDataLen, ErrSanityLimit)
	}

	vk := VKRecord{
		NameLength: nameLen,
		DataLength: dataLen,
		DataOffset: buf.U32LE(b[VKDataOffOffset:]),
		Type:       buf.U32LE(b[VKTypeOffset:]),
		Flags:      buf.U16LE(b[VKFlagsOffset:]),
	}

	name, ok := buf.Slice(b, VKNameOffset, int(nameLen))
	if !ok {
		return VKRecord{}, fmt.Errorf("vk name: %w (need %d bytes from %d, have %d)",
			ErrTruncated, nameLen, VKNameOffset, len(b))
	}
	vk.NameRaw = name
	return vk, nil
}
