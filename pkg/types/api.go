package types

import (
	"fmt"
	"time"
)

// -----------------------------------------------------------------------------
// Typed Errors (stable categories for programmatic handling)
// -----------------------------------------------------------------------------

// ErrKind classifies errors so callers can branch on intent rather than text.
type ErrKind int

const (
	ErrKindFormat      ErrKind = iota // malformed headers/signatures (e.g., bad "regf")
	ErrKindCorrupt                    // structural corruption (bad sizes/offsets/tags)
	ErrKindUnsupported                // valid feature we don't support
	ErrKindNotFound                   // missing key/value/parent
	ErrKindType                       // requested decode doesn't match value RegType
	ErrKindState                      // invalid operation for current state (e.g., closed)
)

// String returns a short lowercase label for the kind.
func (k ErrKind) String() string {
	switch k {
	case ErrKindFormat:
		return "format"
	case ErrKindCorrupt:
		return "corrupt"
	case ErrKindUnsupported:
		return "unsupported"
	case ErrKindNotFound:
		return "not found"
	case ErrKindType:
		return "type"
	case ErrKindState:
		return "state"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is a typed error with an optional underlying cause.
type Error struct {
	Kind ErrKind
	Msg  string
	Err  error // optional underlying cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is a *Error of the same kind with no message of
// its own or the same message. This lets callers match on the sentinels below
// even when an implementation returns a freshly built error of that kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind && (t.Msg == "" || t.Msg == e.Msg)
}

// Sentinels commonly returned by implementations.
var (
	// ErrNotHive indicates the file lacks a valid "regf" header.
	ErrNotHive = &Error{Kind: ErrKindFormat, Msg: "not a registry hive (bad regf header)"}
	// ErrCorrupt indicates non-recoverable structural inconsistency.
	ErrCorrupt = &Error{Kind: ErrKindCorrupt, Msg: "corrupt hive structure"}
	// ErrUnsupported indicates a recognized but unsupported feature/variant.
	ErrUnsupported = &Error{Kind: ErrKindUnsupported, Msg: "unsupported hive feature"}
	// ErrNotFound indicates a missing key/value, or a parent lookup on the root.
	ErrNotFound = &Error{Kind: ErrKindNotFound, Msg: "not found"}
	// ErrTypeMismatch indicates the requested decode doesn't match the value type.
	ErrTypeMismatch = &Error{Kind: ErrKindType, Msg: "registry value has different type"}
	// ErrClosed indicates the reader was used after Close.
	ErrClosed = &Error{Kind: ErrKindState, Msg: "reader is closed"}
)

// -----------------------------------------------------------------------------
// Core Identifiers & Metadata
// -----------------------------------------------------------------------------

// NodeID and ValueID are small, copyable handles referring to NK/VK records.
// The reader encodes them as cell offsets relative to the first HBIN, so they
// are only meaningful for the Reader that produced them.
type (
	NodeID  uint32
	ValueID uint32
)

// RegType enumerates Windows registry value types commonly encountered.
// (The numbers align with Windows definitions.)
type RegType uint32

const (
	REG_NONE                       RegType = 0
	REG_SZ                         RegType = 1
	REG_EXPAND_SZ                  RegType = 2
	REG_BINARY                     RegType = 3
	REG_DWORD                      RegType = 4
	REG_DWORD_BE                   RegType = 5
	REG_LINK                       RegType = 6
	REG_MULTI_SZ                   RegType = 7
	REG_RESOURCE_LIST              RegType = 8
	REG_FULL_RESOURCE_DESCRIPTOR   RegType = 9
	REG_RESOURCE_REQUIREMENTS_LIST RegType = 10
	REG_QWORD                      RegType = 11
)

// Code returns the raw type code as a signed 32-bit integer, the way
// registry tooling reports it (0xFFFFFFFF is -1).
func (t RegType) Code() int32 {
	return int32(t)
}

// String implements the Stringer interface for RegType
func (t RegType) String() string {
	switch t {
	case REG_NONE:
		return "REG_NONE"
	case REG_SZ:
		return "REG_SZ"
	case REG_EXPAND_SZ:
		return "REG_EXPAND_SZ"
	case REG_BINARY:
		return "REG_BINARY"
	case REG_DWORD:
		return "REG_DWORD"
	case REG_DWORD_BE:
		return "REG_DWORD_BE"
	case REG_LINK:
		return "REG_LINK"
	case REG_MULTI_SZ:
		return "REG_MULTI_SZ"
	case REG_RESOURCE_LIST:
		return "REG_RESOURCE_LIST"
	case REG_FULL_RESOURCE_DESCRIPTOR:
		return "REG_FULL_RESOURCE_DESCRIPTOR"
	case REG_RESOURCE_REQUIREMENTS_LIST:
		return "REG_RESOURCE_REQUIREMENTS_LIST"
	case REG_QWORD:
		return "REG_QWORD"
	default:
		// Signed, so invalid codes such as 0xFFFFFFFF read as negative.
		return fmt.Sprintf("UNKNOWN_TYPE_%d", t.Code())
	}
}

// ValueMeta describes a value without forcing data decoding.
type ValueMeta struct {
	Name           string  // value name ("" for default/unnamed)
	Type           RegType // declared registry type
	Size           int     // logical payload size (from VK)
	Inline         bool    // true if VK embeds data in its offset field
	NameCompressed bool    // true if name is stored in Windows-1252
}

// KeyMeta exposes cheap NK-level information useful for listings.
type KeyMeta struct {
	Name           string    // key name as UTF-8
	LastWrite      time.Time // NK timestamp
	SubkeyN        int       // number of subkeys
	ValueN         int       // number of values
	NameCompressed bool      // true if name is stored in Windows-1252
}

// HiveInfo exposes registry hive header (REGF) metadata.
type HiveInfo struct {
	PrimarySequence   uint32    // Primary sequence number
	SecondarySequence uint32    // Secondary sequence number
	LastWrite         time.Time // Last write timestamp
	MajorVersion      uint32    // Format major version
	MinorVersion      uint32    // Format minor version
	Type              uint32    // 0 = primary, 1 = alternate
	RootCellOffset    uint32    // Offset of root NK record
	HiveBinsDataSize  uint32    // Total size of HBIN data
	FileName          string    // Embedded file name (often a \??\ path)
}

// -----------------------------------------------------------------------------
// Open Options & Read Options
// -----------------------------------------------------------------------------

// OpenOptions controls safety/performance tradeoffs for constructing a Reader.
type OpenOptions struct {
	// ZeroCopy allows returned slices to alias the underlying mapped buffer
	// when safe. Callers must treat these as read-only and must not retain
	// them after Close.
	ZeroCopy bool

	// Tolerant enables best-effort reads on mild inconsistencies, such as a
	// data cell shorter than the length its VK declares. Bounds are still
	// enforced.
	Tolerant bool

	// MaxCellSize guards against absurd/malicious cell sizes.
	// Zero selects the 64 MiB default.
	MaxCellSize int
}

// ReadOptions let callers request per-call behavior (e.g., forced copying).
type ReadOptions struct {
	// CopyData forces a heap copy even if ZeroCopy is enabled globally.
	CopyData bool
}

// -----------------------------------------------------------------------------
// Read-Only API
// -----------------------------------------------------------------------------

// Reader is a read-only view over a registry hive.
type Reader interface {
	// Close releases resources (e.g., unmaps the file). After Close, any
	// previously returned zero-copy slices are invalid.
	Close() error

	// Info returns hive header metadata (version, timestamps, etc).
	Info() HiveInfo

	// Root returns the root key node ID.
	Root() (NodeID, error)

	// StatKey returns cheap NK metadata.
	StatKey(NodeID) (KeyMeta, error)

	// KeyName returns the key name decoded to UTF-8.
	KeyName(NodeID) (string, error)

	// Subkeys lists direct child keys in on-disk order.
	Subkeys(NodeID) ([]NodeID, error)

	// Parent returns the parent of a node. It returns ErrNotFound for the
	// root and a corrupt/format error when the parent address is invalid.
	Parent(NodeID) (NodeID, error)

	// Values lists value handles for a key in on-disk order.
	Values(NodeID) ([]ValueID, error)

	// StatValue returns cheap VK metadata (no data decode).
	StatValue(ValueID) (ValueMeta, error)

	// ValueType returns the registry type of a value.
	ValueType(ValueID) (RegType, error)

	// ValueName returns the name of a value ("" for the default value).
	ValueName(ValueID) (string, error)

	// ValueBytes returns raw value bytes. If ZeroCopy is enabled and safe, and
	// CopyData is false, the returned slice aliases the backing buffer.
	ValueBytes(ValueID, ReadOptions) ([]byte, error)

	// Decoders with type checks.
	ValueString(ValueID, ReadOptions) (string, error)    // REG_SZ / REG_EXPAND_SZ
	ValueStrings(ValueID, ReadOptions) ([]string, error) // REG_MULTI_SZ
	ValueDWORD(ValueID) (uint32, error)                  // REG_DWORD / REG_DWORD_BE
	ValueQWORD(ValueID) (uint64, error)                  // REG_QWORD
}
