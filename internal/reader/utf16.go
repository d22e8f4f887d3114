package reader

import (
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// decodeUTF16LE decodes UTF-16LE to UTF-8. Unpaired surrogates become U+FFFD.
func decodeUTF16LE(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	// Registry names are overwhelmingly ASCII: [byte, 0x00] pairs.
	ascii := true
	for i := 0; i+1 < len(data); i += 2 {
		if data[i+1] != 0 || data[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		out := make([]byte, len(data)/2)
		for i := range out {
			out[i] = data[2*i]
		}
		return string(out)
	}
	out, err := utf16le.NewDecoder().Bytes(data)
	if err != nil {
		return ""
	}
	return string(out)
}

// decodeWindows1252 decodes a compressed (8-bit) name.
func decodeWindows1252(data []byte) (string, error) {
	if isASCII(data) {
		return string(data), nil
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

// trimAtNUL cuts a UTF-16LE buffer at the first NUL code unit.
func trimAtNUL(data []byte) []byte {
	for i := 0; i+1 < len(data); i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			return data[:i]
		}
	}
	return data
}
