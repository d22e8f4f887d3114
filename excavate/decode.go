package excavate

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/charmap"

	"github.com/joshuapare/hivexcavator/pkg/types"
)

// Decoder turns values into single-line display strings.
type Decoder struct {
	a   Accessor
	log *log.Logger
}

// NewDecoder returns a decoder reading through a. A nil logger discards.
func NewDecoder(a Accessor, logger *log.Logger) *Decoder {
	if logger == nil {
		logger = discardLogger()
	}
	return &Decoder{a: a, log: logger}
}

// Decode renders the value with the given handle. It never fails:
//
//   - strings come back as the accessor decodes them;
//   - dwords and qwords render as lowercase hex without a 0x prefix;
//   - everything else is read as Windows-1252 text with newlines removed.
//
// A typed read that fails falls back to the text path; a payload that cannot
// be read at all renders as "".
func (d *Decoder) Decode(id types.ValueID) string {
	tag := TagUnrecognized
	typ, err := d.a.ValueType(id)
	if err != nil {
		d.log.Debug("value type unreadable", "value", uint32(id), "err", err)
	} else {
		tag = TypeOf(typ.Code())
	}

	switch tag {
	case TagString:
		s, err := d.a.ValueString(id, types.ReadOptions{})
		if err == nil {
			return s
		}
		d.log.Debug("string value undecodable, using raw bytes", "value", uint32(id), "err", err)
	case TagDword:
		v, err := d.a.ValueDWORD(id)
		if err == nil {
			return strconv.FormatUint(uint64(v), 16)
		}
		d.log.Debug("dword value undecodable, using raw bytes", "value", uint32(id), "err", err)
	case TagQword:
		v, err := d.a.ValueQWORD(id)
		if err == nil {
			return strconv.FormatUint(v, 16)
		}
		d.log.Debug("qword value undecodable, using raw bytes", "value", uint32(id), "err", err)
	}
	return d.text(id)
}

// text decodes the raw payload from code page 1252.
func (d *Decoder) text(id types.ValueID) string {
	raw, err := d.a.ValueBytes(id, types.ReadOptions{})
	if err != nil {
		d.log.Debug("value payload unreadable", "value", uint32(id), "err", err)
		return ""
	}
	return DecodeWindows1252(raw)
}

// DecodeWindows1252 converts b from code page 1252 to UTF-8 and drops every
// '\n' so the result fits on one line.
func DecodeWindows1252(b []byte) string {
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return strings.ReplaceAll(string(out), "\n", "")
}
