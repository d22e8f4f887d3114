package excavate

import (
	"errors"

	"github.com/joshuapare/hivexcavator/pkg/types"
)

var errFake = errors.New("fake accessor failure")

// fakeValue is a value held by fakeHive.
type fakeValue struct {
	name string
	typ  types.RegType
	data []byte
}

// fakeHive is a map-backed Accessor. Ids listed in the fail* sets return
// errFake from the matching getter.
type fakeHive struct {
	root     types.NodeID
	names    map[types.NodeID]string
	parents  map[types.NodeID]types.NodeID
	children map[types.NodeID][]types.NodeID
	values   map[types.NodeID][]types.ValueID
	vals     map[types.ValueID]fakeValue

	failName     map[types.NodeID]bool
	failChildren map[types.NodeID]bool
	failValues   map[types.NodeID]bool
}

func newFakeHive(rootName string) *fakeHive {
	return &fakeHive{
		root:         1,
		names:        map[types.NodeID]string{1: rootName},
		parents:      map[types.NodeID]types.NodeID{},
		children:     map[types.NodeID][]types.NodeID{},
		values:       map[types.NodeID][]types.ValueID{},
		vals:         map[types.ValueID]fakeValue{},
		failName:     map[types.NodeID]bool{},
		failChildren: map[types.NodeID]bool{},
		failValues:   map[types.NodeID]bool{},
	}
}

func (f *fakeHive) addKey(parent, id types.NodeID, name string) types.NodeID {
	f.names[id] = name
	f.parents[id] = parent
	f.children[parent] = append(f.children[parent], id)
	return id
}

func (f *fakeHive) addValue(key types.NodeID, id types.ValueID, name string, typ types.RegType, data []byte) types.ValueID {
	f.vals[id] = fakeValue{name: name, typ: typ, data: data}
	f.values[key] = append(f.values[key], id)
	return id
}

func (f *fakeHive) Root() (types.NodeID, error) { return f.root, nil }

func (f *fakeHive) Subkeys(id types.NodeID) ([]types.NodeID, error) {
	if f.failChildren[id] {
		return nil, errFake
	}
	return f.children[id], nil
}

func (f *fakeHive) Parent(id types.NodeID) (types.NodeID, error) {
	p, ok := f.parents[id]
	if !ok {
		return 0, types.ErrNotFound
	}
	return p, nil
}

func (f *fakeHive) Values(id types.NodeID) ([]types.ValueID, error) {
	if f.failValues[id] {
		return nil, errFake
	}
	return f.values[id], nil
}

func (f *fakeHive) KeyName(id types.NodeID) (string, error) {
	if f.failName[id] {
		return "", errFake
	}
	return f.names[id], nil
}

func (f *fakeHive) value(id types.ValueID) (fakeValue, error) {
	v, ok := f.vals[id]
	if !ok {
		return fakeValue{}, types.ErrNotFound
	}
	return v, nil
}

func (f *fakeHive) ValueName(id types.ValueID) (string, error) {
	v, err := f.value(id)
	return v.name, err
}

func (f *fakeHive) ValueType(id types.ValueID) (types.RegType, error) {
	v, err := f.value(id)
	return v.typ, err
}

func (f *fakeHive) ValueString(id types.ValueID, _ types.ReadOptions) (string, error) {
	v, err := f.value(id)
	if err != nil {
		return "", err
	}
	if v.typ != types.REG_SZ {
		return "", types.ErrTypeMismatch
	}
	return string(v.data), nil
}

func (f *fakeHive) ValueDWORD(id types.ValueID) (uint32, error) {
	v, err := f.value(id)
	if err != nil {
		return 0, err
	}
	if len(v.data) < 4 {
		return 0, types.ErrCorrupt
	}
	return uint32(v.data[0]) | uint32(v.data[1])<<8 | uint32(v.data[2])<<16 | uint32(v.data[3])<<24, nil
}

func (f *fakeHive) ValueQWORD(id types.ValueID) (uint64, error) {
	v, err := f.value(id)
	if err != nil {
		return 0, err
	}
	if len(v.data) < 8 {
		return 0, types.ErrCorrupt
	}
	var out uint64
	for i := 7; i >= 0; i-- {
		out = out<<8 | uint64(v.data[i])
	}
	return out, nil
}

func (f *fakeHive) ValueBytes(id types.ValueID, _ types.ReadOptions) ([]byte, error) {
	v, err := f.value(id)
	return v.data, err
}
