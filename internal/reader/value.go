package reader

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/joshuapare/hivexcavator/internal/buf"
	"github.com/joshuapare/hivexcavator/internal/format"
	"github.com/joshuapare/hivexcavator/pkg/types"
)

func errType(want string, got uint32) error {
	return &types.Error{
		Kind: types.ErrKindType,
		Msg:  fmt.Sprintf("registry value has type %s, want %s", types.RegType(got), want),
		Err:  types.ErrTypeMismatch,
	}
}

func errShort(what string, have int) error {
	return &types.Error{
		Kind: types.ErrKindCorrupt,
		Msg:  fmt.Sprintf("value too short for %s (%d bytes)", what, have),
		Err:  types.ErrCorrupt,
	}
}

func (r *reader) StatValue(id types.ValueID) (types.ValueMeta, error) {
	if err := r.ensureOpen(); err != nil {
		return types.ValueMeta{}, err
	}
	vk, err := r.vk(id)
	if err != nil {
		return types.ValueMeta{}, err
	}
	name, err := DecodeValueName(vk)
	if err != nil {
		return types.ValueMeta{}, wrapCorruptErr(err)
	}
	size := vk.Length()
	if vk.DataInline() {
		size = min(size, format.OffsetFieldSize)
	}
	return types.ValueMeta{
		Name:           name,
		Type:           types.RegType(vk.Type),
		Size:           size,
		Inline:         vk.DataInline(),
		NameCompressed: vk.NameIsASCII(),
	}, nil
}

// ValueType returns the declared type without touching the data cell.
func (r *reader) ValueType(id types.ValueID) (types.RegType, error) {
	if err := r.ensureOpen(); err != nil {
		return 0, err
	}
	vk, err := r.vk(id)
	if err != nil {
		return 0, err
	}
	return types.RegType(vk.Type), nil
}

func (r *reader) ValueName(id types.ValueID) (string, error) {
	if err := r.ensureOpen(); err != nil {
		return "", err
	}
	vk, err := r.vk(id)
	if err != nil {
		return "", err
	}
	name, err := DecodeValueName(vk)
	if err != nil {
		return "", wrapCorruptErr(err)
	}
	return name, nil
}

func (r *reader) ValueBytes(id types.ValueID, ro types.ReadOptions) ([]byte, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}
	vk, data, err := r.value(id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	// Inline and DB payloads are already private copies.
	if vk.DataInline() || !r.opts.ZeroCopy || ro.CopyData {
		return append([]byte(nil), data...), nil
	}
	return data, nil
}

func (r *reader) ValueString(id types.ValueID, _ types.ReadOptions) (string, error) {
	if err := r.ensureOpen(); err != nil {
		return "", err
	}
	vk, data, err := r.value(id)
	if err != nil {
		return "", err
	}
	switch types.RegType(vk.Type) {
	case types.REG_SZ, types.REG_EXPAND_SZ, types.REG_LINK:
		s, err := DecodeUTF16(data)
		if err != nil {
			return "", wrapCorruptErr(err)
		}
		return s, nil
	default:
		return "", errType("REG_SZ", vk.Type)
	}
}

func (r *reader) ValueStrings(id types.ValueID, _ types.ReadOptions) ([]string, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}
	vk, data, err := r.value(id)
	if err != nil {
		return nil, err
	}
	if types.RegType(vk.Type) != types.REG_MULTI_SZ {
		return nil, errType("REG_MULTI_SZ", vk.Type)
	}
	out, err := DecodeMultiString(data)
	if err != nil {
		return nil, wrapCorruptErr(err)
	}
	return out, nil
}

// ValueDWORD decodes REG_DWORD (little-endian) and REG_DWORD_BE values.
func (r *reader) ValueDWORD(id types.ValueID) (uint32, error) {
	if err := r.ensureOpen(); err != nil {
		return 0, err
	}
	vk, data, err := r.value(id)
	if err != nil {
		return 0, err
	}
	switch types.RegType(vk.Type) {
	case types.REG_DWORD:
		if len(data) < format.DWORDSize {
			return 0, errShort("DWORD", len(data))
		}
		return buf.U32LE(data), nil
	case types.REG_DWORD_BE:
		if len(data) < format.DWORDSize {
			return 0, errShort("DWORD", len(data))
		}
		return buf.U32BE(data), nil
	default:
		return 0, errType("REG_DWORD", vk.Type)
	}
}

func (r *reader) ValueQWORD(id types.ValueID) (uint64, error) {
	if err := r.ensureOpen(); err != nil {
		return 0, err
	}
	vk, data, err := r.value(id)
	if err != nil {
		return 0, err
	}
	if types.RegType(vk.Type) != types.REG_QWORD {
		return 0, errType("REG_QWORD", vk.Type)
	}
	if len(data) < format.QWORDSize {
		return 0, errShort("QWORD", len(data))
	}
	return buf.U64LE(data), nil
}

// vk reads only the VK record, so metadata stays readable even when the
// data cell is damaged.
func (r *reader) vk(id types.ValueID) (format.VKRecord, error) {
	c, err := r.cell(uint32(id))
	if err != nil {
		return format.VKRecord{}, err
	}
	vk, err := format.DecodeVK(c.Data)
	if err != nil {
		return format.VKRecord{}, wrapCorruptErr(err)
	}
	return vk, nil
}

// value returns the VK record and its payload. Inline payloads live in the
// data offset field, large ones are spread over a DB record.
func (r *reader) value(id types.ValueID) (format.VKRecord, []byte, error) {
	vk, err := r.vk(id)
	if err != nil {
		return format.VKRecord{}, nil, err
	}
	length := vk.Length()

	if vk.DataInline() {
		if length > format.OffsetFieldSize {
			return format.VKRecord{}, nil, &types.Error{
				Kind: types.ErrKindCorrupt,
				Msg:  fmt.Sprintf("inline length %d exceeds field", length),
				Err:  types.ErrCorrupt,
			}
		}
		var field [format.OffsetFieldSize]byte
		binary.LittleEndian.PutUint32(field[:], vk.DataOffset)
		return vk, append([]byte(nil), field[:length]...), nil
	}
	if length == 0 {
		return vk, nil, nil
	}
	if length > r.opts.MaxCellSize {
		return format.VKRecord{}, nil, &types.Error{
			Kind: types.ErrKindCorrupt,
			Msg:  "value data exceeds MaxCellSize",
			Err:  types.ErrCorrupt,
		}
	}

	dataCell, err := r.cell(vk.DataOffset)
	if err != nil {
		return format.VKRecord{}, nil, fmt.Errorf("value %#x data: %w", uint32(id), err)
	}
	if len(dataCell.Data) < length && format.IsDBRecord(dataCell.Data) {
		data, err := r.valueDB(dataCell.Data, length)
		if err != nil {
			return format.VKRecord{}, nil, err
		}
		return vk, data, nil
	}

	if len(dataCell.Data) < length {
		if !r.opts.Tolerant {
			return format.VKRecord{}, nil, &types.Error{
				Kind: types.ErrKindCorrupt,
				Msg:  fmt.Sprintf("value data truncated: declared %d, cell holds %d", length, len(dataCell.Data)),
				Err:  types.ErrCorrupt,
			}
		}
		length = len(dataCell.Data)
	}
	return vk, dataCell.Data[:length], nil
}

// valueDB assembles a big-data value from its blocks into one buffer of
// exactly want bytes (fewer in tolerant mode when blocks run short).
func (r *reader) valueDB(dbData []byte, want int) ([]byte, error) {
	db, err := format.DecodeDB(dbData)
	if err != nil {
		return nil, wrapCorruptErr(err)
	}
	list, err := r.cell(db.BlocklistOffset)
	if err != nil {
		return nil, fmt.Errorf("db blocklist: %w", err)
	}
	blocks, err := format.DecodeValueList(list.Data, uint32(db.NumBlocks))
	if err != nil {
		return nil, wrapCorruptErr(fmt.Errorf("db blocklist: %w", err))
	}

	out := make([]byte, 0, want)
	for i, off := range blocks {
		block, err := r.cell(off)
		if err != nil {
			return nil, fmt.Errorf("db block %d: %w", i, err)
		}
		data := block.Data
		if len(data) > format.DBBlockPadding {
			data = data[:len(data)-format.DBBlockPadding]
		}
		out = append(out, data[:min(len(data), want-len(out))]...)
		if len(out) == want {
			return out, nil
		}
	}
	if r.opts.Tolerant {
		return out, nil
	}
	return nil, &types.Error{
		Kind: types.ErrKindCorrupt,
		Msg:  fmt.Sprintf("db data size mismatch: expected %d bytes, got %d", want, len(out)),
		Err:  types.ErrCorrupt,
	}
}

// DecodeValueName converts a VK name to UTF-8. The default value has an
// empty name.
func DecodeValueName(vk format.VKRecord) (string, error) {
	if vk.NameIsASCII() {
		return decodeWindows1252(vk.NameRaw)
	}
	if len(vk.NameRaw)%2 != 0 {
		return "", errors.New("vk name has odd length")
	}
	return decodeUTF16LE(vk.NameRaw), nil
}

// DecodeUTF16 decodes a REG_SZ payload. The string ends at the first NUL
// code unit; anything after it is slack.
func DecodeUTF16(data []byte) (string, error) {
	if len(data)%2 != 0 {
		return "", errors.New("utf16 string has odd length")
	}
	return decodeUTF16LE(trimAtNUL(data)), nil
}

// DecodeMultiString splits a REG_MULTI_SZ payload. An empty string ends the
// list; a missing final terminator is tolerated.
func DecodeMultiString(data []byte) ([]string, error) {
	if len(data)%2 != 0 {
		return nil, errors.New("multisz has odd length")
	}
	var out []string
	start := 0
	for i := 0; i <= len(data); i += 2 {
		if i < len(data) && (data[i] != 0 || data[i+1] != 0) {
			continue
		}
		if i == start {
			break
		}
		out = append(out, decodeUTF16LE(data[start:i]))
		start = i + 2
	}
	return out, nil
}
