package reader

import (
	"testing"

	"github.com/joshuapare/hivexcavator/internal/format"
)

func TestDecodeKeyName(t *testing.T) {
	tests := []struct {
		name        string
		nameRaw     []byte
		flags       uint16
		want        string
		expectError bool
	}{
		{name: "Empty name", flags: format.NKFlagCompressedName, want: ""},
		{name: "ASCII (compressed)", nameRaw: []byte("Objects"), flags: format.NKFlagCompressedName, want: "Objects"},
		{
			name:    "German umlauts (Windows-1252)",
			nameRaw: []byte{'a', 'b', 0xe4, 0xf6, 0xfc, 0xdf},
			flags:   format.NKFlagCompressedName,
			want:    "abäöüß",
		},
		{
			name:    "Euro sign (Windows-1252)",
			nameRaw: []byte{'p', 0x80},
			flags:   format.NKFlagCompressedName,
			want:    "p€",
		},
		{
			name:    "ASCII (UTF-16LE)",
			nameRaw: []byte{'T', 0, 'e', 0, 's', 0, 't', 0},
			want:    "Test",
		},
		{
			name:    "Surrogate pair (UTF-16LE)",
			nameRaw: []byte{'H', 0, 0x3d, 0xd8, 0x00, 0xde},
			want:    "H\U0001F600",
		},
		{
			name:        "Odd length (UTF-16LE)",
			nameRaw:     []byte{'T', 0, 'e'},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nk := format.NKRecord{
				Flags:      tt.flags,
				NameLength: uint16(len(tt.nameRaw)),
				NameRaw:    tt.nameRaw,
			}
			got, err := DecodeKeyName(nk)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("name mismatch:\n  got:  %q (% x)\n  want: %q (% x)", got, []byte(got), tt.want, []byte(tt.want))
			}
		})
	}
}
