package reader

import (
	"errors"
	"fmt"

	"github.com/joshuapare/hivexcavator/internal/format"
	"github.com/joshuapare/hivexcavator/pkg/types"
)

func (r *reader) StatKey(id types.NodeID) (types.KeyMeta, error) {
	if err := r.ensureOpen(); err != nil {
		return types.KeyMeta{}, err
	}
	nk, err := r.nk(id)
	if err != nil {
		return types.KeyMeta{}, err
	}
	name, err := DecodeKeyName(nk)
	if err != nil {
		return types.KeyMeta{}, wrapCorruptErr(err)
	}
	return types.KeyMeta{
		Name:           name,
		LastWrite:      format.FiletimeToTime(nk.LastWriteRaw),
		SubkeyN:        int(nk.SubkeyCount),
		ValueN:         int(nk.ValueCount),
		NameCompressed: nk.NameIsCompressed(),
	}, nil
}

func (r *reader) KeyName(id types.NodeID) (string, error) {
	if err := r.ensureOpen(); err != nil {
		return "", err
	}
	nk, err := r.nk(id)
	if err != nil {
		return "", err
	}
	name, err := DecodeKeyName(nk)
	if err != nil {
		return "", wrapCorruptErr(err)
	}
	return name, nil
}

func (r *reader) Subkeys(id types.NodeID) ([]types.NodeID, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}
	nk, err := r.nk(id)
	if err != nil {
		return nil, err
	}
	if nk.SubkeyCount == 0 || nk.SubkeyListOffset == format.InvalidOffset {
		return nil, nil
	}
	list, err := r.subkeyList(nk.SubkeyListOffset, nk.SubkeyCount, true)
	if err != nil {
		return nil, err
	}
	out := make([]types.NodeID, len(list))
	for i, off := range list {
		out[i] = types.NodeID(off)
	}
	return out, nil
}

// Parent returns the key's parent. The root, and any key whose parent field
// is unset, reports types.ErrNotFound; a parent field pointing at something
// other than a key is reported as corruption.
func (r *reader) Parent(id types.NodeID) (types.NodeID, error) {
	if err := r.ensureOpen(); err != nil {
		return 0, err
	}
	if uint32(id) == r.head.RootCellOffset {
		return 0, fmt.Errorf("key %#x is the root: %w", uint32(id), types.ErrNotFound)
	}
	nk, err := r.nk(id)
	if err != nil {
		return 0, err
	}
	if nk.IsHiveEntry() || nk.ParentOffset == format.InvalidOffset {
		return 0, types.ErrNotFound
	}
	parent := types.NodeID(nk.ParentOffset)
	if _, err := r.nk(parent); err != nil {
		return 0, fmt.Errorf("parent of %#x: %w", uint32(id), err)
	}
	return parent, nil
}

func (r *reader) Values(id types.NodeID) ([]types.ValueID, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}
	nk, err := r.nk(id)
	if err != nil {
		return nil, err
	}
	if nk.ValueCount == 0 || nk.ValueListOffset == format.InvalidOffset {
		return nil, nil
	}
	c, err := r.cell(nk.ValueListOffset)
	if err != nil {
		return nil, err
	}
	list, err := format.DecodeValueList(c.Data, nk.ValueCount)
	if err != nil {
		return nil, wrapCorruptErr(err)
	}
	out := make([]types.ValueID, len(list))
	for i, off := range list {
		out[i] = types.ValueID(off)
	}
	return out, nil
}

func (r *reader) nk(id types.NodeID) (format.NKRecord, error) {
	c, err := r.cell(uint32(id))
	if err != nil {
		return format.NKRecord{}, err
	}
	nk, err := format.DecodeNK(c.Data)
	if err != nil {
		return format.NKRecord{}, wrapCorruptErr(err)
	}
	return nk, nil
}

// subkeyList resolves a subkey list cell. RI lists fan out to leaf lists and
// may not nest, which bounds the recursion to one level.
func (r *reader) subkeyList(offset, expected uint32, allowRI bool) ([]uint32, error) {
	c, err := r.cell(offset)
	if err != nil {
		return nil, err
	}
	if !format.IsRIList(c.Data) {
		list, err := format.DecodeSubkeyList(c.Data, expected)
		if err != nil {
			return nil, wrapCorruptErr(err)
		}
		return list, nil
	}
	if !allowRI {
		return nil, &types.Error{Kind: types.ErrKindCorrupt, Msg: "nested ri list", Err: types.ErrCorrupt}
	}

	leaves, err := format.DecodeRIList(c.Data)
	if err != nil {
		return nil, wrapCorruptErr(err)
	}
	out := make([]uint32, 0, expected)
	for _, leaf := range leaves {
		list, err := r.subkeyList(leaf, 0, false)
		if err != nil {
			return nil, err
		}
		out = append(out, list...)
	}
	return out, nil
}

// DecodeKeyName converts an NK name to UTF-8.
func DecodeKeyName(nk format.NKRecord) (string, error) {
	if nk.NameIsCompressed() {
		return decodeWindows1252(nk.NameRaw)
	}
	if len(nk.NameRaw)%2 != 0 {
		return "", errors.New("nk name has odd length")
	}
	return decodeUTF16LE(nk.NameRaw), nil
}
