package excavate

// Tag is the display category of a registry value type.
type Tag int

const (
	TagUnrecognized Tag = iota
	TagNone
	TagUnknown
	TagString
	TagExpandString
	TagBinary
	TagDword
	TagMultiString
	TagQword
)

// typeTable maps raw type codes to tags. Codes are signed so that the
// 0xFFFFFFFF marker found in BCD stores reads as -1.
var typeTable = map[int32]Tag{
	-1: TagNone,
	0:  TagUnknown,
	1:  TagString,
	2:  TagExpandString,
	3:  TagBinary,
	4:  TagDword,
	7:  TagMultiString,
	11: TagQword,
}

var tagNames = [...]string{
	TagUnrecognized: "unrecognized",
	TagNone:         "none",
	TagUnknown:      "unknown",
	TagString:       "string",
	TagExpandString: "expandstring",
	TagBinary:       "binary",
	TagDword:        "dword",
	TagMultiString:  "multistring",
	TagQword:        "qword",
}

// TypeOf returns the tag for a raw type code. Codes outside the table are
// TagUnrecognized.
func TypeOf(code int32) Tag {
	if t, ok := typeTable[code]; ok {
		return t
	}
	return TagUnrecognized
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return tagNames[TagUnrecognized]
	}
	return tagNames[t]
}
