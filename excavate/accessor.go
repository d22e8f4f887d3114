package excavate

import "github.com/joshuapare/hivexcavator/pkg/types"

// Accessor is the read-only view of a hive the excavator needs. Any
// types.Reader satisfies it.
//
// Parent must fail for the root; any error from Parent is taken to mean the
// node has no parent.
type Accessor interface {
	Root() (types.NodeID, error)
	Subkeys(types.NodeID) ([]types.NodeID, error)
	Parent(types.NodeID) (types.NodeID, error)
	Values(types.NodeID) ([]types.ValueID, error)
	KeyName(types.NodeID) (string, error)

	ValueName(types.ValueID) (string, error)
	ValueType(types.ValueID) (types.RegType, error)
	ValueString(types.ValueID, types.ReadOptions) (string, error)
	ValueDWORD(types.ValueID) (uint32, error)
	ValueQWORD(types.ValueID) (uint64, error)
	ValueBytes(types.ValueID, types.ReadOptions) ([]byte, error)
}

var _ Accessor = types.Reader(nil)
