package excavate

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind says what a Line describes.
type Kind int

const (
	KindStore Kind = iota // header line naming the root key
	KindNode
	KindValue
)

var kindNames = [...]string{KindStore: "store", KindNode: "node", KindValue: "value"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if name == string(b) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("excavate: unknown line kind %q", b)
}

// Role tags a piece of a rendered line so a presentation layer can style it.
type Role int

const (
	RolePlain Role = iota // indentation and punctuation
	RoleStoreName
	RoleNodeName
	RoleNodeID
	RoleValueKey
	RoleValueText
	RoleValueID
)

var roleNames = [...]string{
	RolePlain:     "plain",
	RoleStoreName: "store-name",
	RoleNodeName:  "node-name",
	RoleNodeID:    "node-id",
	RoleValueKey:  "value-key",
	RoleValueText: "value-text",
	RoleValueID:   "value-id",
}

func (r Role) String() string {
	if r < 0 || int(r) >= len(roleNames) {
		return "role(" + strconv.Itoa(int(r)) + ")"
	}
	return roleNames[r]
}

// Segment is a run of text with a single role.
type Segment struct {
	Text string
	Role Role
}

// Line is one rendered row of the tree.
type Line struct {
	Kind  Kind   `json:"kind"`
	Depth int    `json:"depth"`
	Name  string `json:"name"`            // key name, or value name for KindValue
	Text  string `json:"value"` // decoded value, KindValue only
	ID    uint32 `json:"id"`

	// Indent is the number of spaces per depth level.
	Indent int `json:"-"`
}

// lineJSON is the wire shape of a Line. Value is present on value lines
// even when empty, and absent on store and node lines.
type lineJSON struct {
	Kind  Kind    `json:"kind"`
	Depth int     `json:"depth"`
	Name  string  `json:"name"`
	Value *string `json:"value,omitempty"`
	ID    uint32  `json:"id"`
}

// MarshalJSON encodes the line in its per-kind shape.
func (l Line) MarshalJSON() ([]byte, error) {
	out := lineJSON{Kind: l.Kind, Depth: l.Depth, Name: l.Name, ID: l.ID}
	if l.Kind == KindValue {
		text := l.Text
		out.Value = &text
	}
	return json.Marshal(out)
}

// Segments splits the line into styled runs:
//
//	store:  <name> (<id>)
//	node:   <indent><name> (<id>)
//	value:  <indent>  <name>: <text> (<id>)
func (l Line) Segments() []Segment {
	pad := strings.Repeat(" ", l.Indent*l.Depth)
	id := strconv.FormatUint(uint64(l.ID), 10)
	switch l.Kind {
	case KindStore:
		return []Segment{
			{l.Name, RoleStoreName},
			{" (", RolePlain}, {id, RoleNodeID}, {")", RolePlain},
		}
	case KindValue:
		return []Segment{
			{pad + strings.Repeat(" ", l.Indent), RolePlain},
			{l.Name, RoleValueKey},
			{": ", RolePlain},
			{l.Text, RoleValueText},
			{" (", RolePlain}, {id, RoleValueID}, {")", RolePlain},
		}
	default:
		return []Segment{
			{pad, RolePlain},
			{l.Name, RoleNodeName},
			{" (", RolePlain}, {id, RoleNodeID}, {")", RolePlain},
		}
	}
}

// String renders the line without styling.
func (l Line) String() string {
	var b strings.Builder
	for _, s := range l.Segments() {
		b.WriteString(s.Text)
	}
	return b.String()
}
