// Package hivetest builds small registry hive images in memory so readers
// and renderers can be tested against real bytes.
//
//	root := &hivetest.Key{Name: "ROOT", Children: []*hivetest.Key{
//	    {Name: "Description", Values: []*hivetest.Value{hivetest.String("version", "12.0")}},
//	}}
//	img := hivetest.Build(root)
//	r, err := reader.OpenBytes(img.Bytes, types.OpenOptions{})
package hivetest

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf16"

	"github.com/joshuapare/hivexcavator/internal/buf"
	"github.com/joshuapare/hivexcavator/internal/format"
	"github.com/joshuapare/hivexcavator/pkg/types"
)

// Key describes one key of the image.
type Key struct {
	Name     string
	Values   []*Value
	Children []*Key

	// UTF16Name stores the name as UTF-16LE instead of Windows-1252.
	UTF16Name bool
	// Indirect splits the children over an RI list with two leaves.
	Indirect bool
}

// Value describes one value of the image.
type Value struct {
	Name string
	Type uint32
	Data []byte

	// BigData stores the payload behind a DB record split in two blocks.
	BigData bool
	// DeclaredLen overrides the data length written to the VK record.
	DeclaredLen *uint32
}

// String returns a REG_SZ value holding s as NUL-terminated UTF-16LE.
func String(name, s string) *Value {
	return &Value{Name: name, Type: uint32(types.REG_SZ), Data: UTF16(s)}
}

// Dword returns a REG_DWORD value.
func Dword(name string, v uint32) *Value {
	b := make([]byte, 4)
	format.PutU32(b, 0, v)
	return &Value{Name: name, Type: uint32(types.REG_DWORD), Data: b}
}

// Qword returns a REG_QWORD value.
func Qword(name string, v uint64) *Value {
	b := make([]byte, 8)
	format.PutU64(b, 0, v)
	return &Value{Name: name, Type: uint32(types.REG_QWORD), Data: b}
}

// Raw returns a value with an arbitrary type code and payload.
func Raw(name string, typ uint32, data []byte) *Value {
	return &Value{Name: name, Type: typ, Data: data}
}

// UTF16 encodes s as UTF-16LE with a terminating NUL.
func UTF16(s string) []byte {
	units := utf16.Encode([]rune(s))
	b := make([]byte, 2*len(units)+2)
	for i, u := range units {
		format.PutU16(b, 2*i, u)
	}
	return b
}

// Image is a built hive plus the handles assigned to each key and value.
type Image struct {
	Bytes  []byte
	keys   map[*Key]uint32
	values map[*Value]uint32
}

// Node returns the handle assigned to k.
func (img *Image) Node(k *Key) types.NodeID {
	off, ok := img.keys[k]
	if !ok {
		panic(fmt.Sprintf("hivetest: key %q not in image", k.Name))
	}
	return types.NodeID(off)
}

// Value returns the handle assigned to v.
func (img *Image) Value(v *Value) types.ValueID {
	off, ok := img.values[v]
	if !ok {
		panic(fmt.Sprintf("hivetest: value %q not in image", v.Name))
	}
	return types.ValueID(off)
}

// SetParent overwrites the parent field of k's NK record.
func (img *Image) SetParent(k *Key, parent uint32) {
	format.PutU32(img.Bytes, img.payload(img.keys[k])+format.NKParentOffset, parent)
}

// SetSubkeyList overwrites the subkey list offset of k's NK record.
func (img *Image) SetSubkeyList(k *Key, off uint32) {
	format.PutU32(img.Bytes, img.payload(img.keys[k])+format.NKSubkeyListOffset, off)
}

// SetValueList overwrites the value list offset of k's NK record.
func (img *Image) SetValueList(k *Key, off uint32) {
	format.PutU32(img.Bytes, img.payload(img.keys[k])+format.NKValueListOffset, off)
}

// WriteFile stores the image under dir and returns its path.
func (img *Image) WriteFile(dir, name string) (string, error) {
	path := filepath.Join(dir, name)
	return path, os.WriteFile(path, img.Bytes, 0o600)
}

func (img *Image) payload(off uint32) int {
	return format.HeaderSize + int(off) + format.CellHeaderSize
}

// builder lays cells out back to back after a single hbin header. Offsets
// are relative to the start of the bin, as in the hive itself.
type builder struct {
	data   []byte
	keys   map[*Key]uint32
	values map[*Value]uint32
}

// Build serializes the tree rooted at root into a complete hive image.
func Build(root *Key) *Image {
	b := &builder{
		data:   make([]byte, format.HBINHeaderSize),
		keys:   make(map[*Key]uint32),
		values: make(map[*Value]uint32),
	}
	b.allocKeys(root)
	b.fillKey(root, format.InvalidOffset, true)

	// Cells are 8-byte aligned, so any slack is large enough for a free cell.
	binSize := format.AlignHBIN(len(b.data))
	if free := binSize - len(b.data); free > 0 {
		b.data = append(b.data, make([]byte, free)...)
		format.PutI32(b.data, binSize-free, int32(free))
	}
	copy(b.data, format.HBINSignature)
	format.PutU32(b.data, format.HBINFileOffsetField, 0)
	format.PutU32(b.data, format.HBINSizeOffset, uint32(binSize))

	out := make([]byte, format.HeaderSize, format.HeaderSize+binSize)
	copy(out, format.REGFSignature)
	format.PutU32(out, format.REGFPrimarySeqOffset, 1)
	format.PutU32(out, format.REGFSecondarySeqOffset, 1)
	format.PutU32(out, format.REGFMajorVersionOffset, 1)
	format.PutU32(out, format.REGFMinorVersionOffset, 3)
	format.PutU32(out, format.REGFRootCellOffset, b.keys[root])
	format.PutU32(out, format.REGFDataSizeOffset, uint32(binSize))
	for i, u := range utf16.Encode([]rune(`\??\C:\Boot\BCD`)) {
		format.PutU16(out, format.REGFFileNameOffset+2*i, u)
	}
	out = append(out, b.data...)

	return &Image{Bytes: out, keys: b.keys, values: b.values}
}

// alloc reserves an allocated cell with room for n payload bytes and
// returns its offset.
func (b *builder) alloc(n int) uint32 {
	off := len(b.data)
	size := format.Align8(n + format.CellHeaderSize)
	b.data = append(b.data, make([]byte, size)...)
	format.PutI32(b.data, off, -int32(size))
	return uint32(off)
}

func (b *builder) cell(off uint32) []byte {
	return b.data[int(off)+format.CellHeaderSize:]
}

func (b *builder) allocKeys(k *Key) {
	b.keys[k] = b.alloc(format.NKNameOffset + len(keyName(k)))
	for _, c := range k.Children {
		b.allocKeys(c)
	}
}

func keyName(k *Key) []byte {
	if k.UTF16Name {
		u := UTF16(k.Name)
		return u[:len(u)-2]
	}
	return []byte(k.Name)
}

func (b *builder) fillKey(k *Key, parent uint32, root bool) {
	name := keyName(k)
	var flags uint16
	if !k.UTF16Name {
		flags |= format.NKFlagCompressedName
	}
	if root {
		flags |= format.NKFlagHiveEntry
	}

	subkeys := uint32(format.InvalidOffset)
	if len(k.Children) > 0 {
		subkeys = b.subkeyList(k)
	}
	values := uint32(format.InvalidOffset)
	if len(k.Values) > 0 {
		values = b.valueList(k.Values)
	}

	nk := b.cell(b.keys[k])
	copy(nk, format.NKSignature)
	format.PutU16(nk, format.NKFlagsOffset, flags)
	format.PutU64(nk, format.NKLastWriteOffset, 0x01D9_0000_0000_0000)
	format.PutU32(nk, format.NKParentOffset, parent)
	format.PutU32(nk, format.NKSubkeyCountOffset, uint32(len(k.Children)))
	format.PutU32(nk, format.NKSubkeyListOffset, subkeys)
	format.PutU32(nk, format.NKValueCountOffset, uint32(len(k.Values)))
	format.PutU32(nk, format.NKValueListOffset, values)
	format.PutU32(nk, format.NKSecurityOffset, format.InvalidOffset)
	format.PutU32(nk, format.NKClassNameOffset, format.InvalidOffset)
	format.PutU16(nk, format.NKNameLenOffset, uint16(len(name)))
	copy(nk[format.NKNameOffset:], name)

	for _, c := range k.Children {
		b.fillKey(c, b.keys[k], false)
	}
}

func (b *builder) subkeyList(k *Key) uint32 {
	if !k.Indirect || len(k.Children) < 2 {
		return b.leafList(k.Children)
	}
	half := len(k.Children) / 2
	leaves := []uint32{b.leafList(k.Children[:half]), b.leafList(k.Children[half:])}
	off := b.alloc(format.ListHeaderSize + format.OffsetFieldSize*len(leaves))
	ri := b.cell(off)
	copy(ri, format.RISignature)
	format.PutU16(ri, format.SignatureSize, uint16(len(leaves)))
	for i, leaf := range leaves {
		format.PutU32(ri, format.ListHeaderSize+i*format.OffsetFieldSize, leaf)
	}
	return off
}

func (b *builder) leafList(children []*Key) uint32 {
	off := b.alloc(format.ListHeaderSize + format.LFEntrySize*len(children))
	lf := b.cell(off)
	copy(lf, format.LFSignature)
	format.PutU16(lf, format.SignatureSize, uint16(len(children)))
	for i, c := range children {
		format.PutU32(lf, format.ListHeaderSize+i*format.LFEntrySize, b.keys[c])
		hint := format.ListHeaderSize + i*format.LFEntrySize + 4
		copy(lf[hint:hint+4], c.Name) // LF hint: first four name bytes
	}
	return off
}

func (b *builder) valueList(vals []*Value) uint32 {
	ids := make([]uint32, len(vals))
	for i, v := range vals {
		ids[i] = b.value(v)
	}
	off := b.alloc(format.OffsetFieldSize * len(ids))
	list := b.cell(off)
	for i, id := range ids {
		format.PutU32(list, i*format.OffsetFieldSize, id)
	}
	return off
}

func (b *builder) value(v *Value) uint32 {
	off := b.alloc(format.VKNameOffset + len(v.Name))
	b.values[v] = off

	length := uint32(len(v.Data))
	var dataOff uint32
	switch {
	case v.BigData:
		dataOff = b.bigData(v.Data)
	case len(v.Data) <= format.OffsetFieldSize:
		var field [format.OffsetFieldSize]byte
		copy(field[:], v.Data)
		dataOff = buf.U32LE(field[:])
		length |= format.VKDataInlineBit
	default:
		dataOff = b.alloc(len(v.Data))
		copy(b.cell(dataOff), v.Data)
	}
	if v.DeclaredLen != nil {
		length = *v.DeclaredLen
	}

	vk := b.cell(off)
	copy(vk, format.VKSignature)
	format.PutU16(vk, format.VKNameLenOffset, uint16(len(v.Name)))
	format.PutU32(vk, format.VKDataLenOffset, length)
	format.PutU32(vk, format.VKDataOffOffset, dataOff)
	format.PutU32(vk, format.VKTypeOffset, v.Type)
	format.PutU16(vk, format.VKFlagsOffset, format.VKFlagASCIIName)
	copy(vk[format.VKNameOffset:], v.Name)
	return off
}

// bigData writes data as a DB record with two blocks. Each block carries the
// trailing padding the reader strips; the first block is a multiple of eight
// bytes so cell alignment adds no slack to it. data must hold at least 16 bytes.
func (b *builder) bigData(data []byte) uint32 {
	if len(data) < 16 {
		panic("hivetest: BigData needs at least 16 bytes")
	}
	half := (len(data) / 2) &^ 7
	parts := [][]byte{data[:half], data[half:]}
	blocks := make([]uint32, len(parts))
	for i, p := range parts {
		blocks[i] = b.alloc(len(p) + format.DBBlockPadding)
		copy(b.cell(blocks[i]), p)
	}
	list := b.alloc(format.OffsetFieldSize * len(blocks))
	for i, blk := range blocks {
		format.PutU32(b.cell(list), i*format.OffsetFieldSize, blk)
	}
	off := b.alloc(format.DBMinSize)
	db := b.cell(off)
	copy(db, format.DBSignature)
	format.PutU16(db, format.DBCountOffset, uint16(len(blocks)))
	format.PutU32(db, format.DBListOffset, list)
	return off
}
