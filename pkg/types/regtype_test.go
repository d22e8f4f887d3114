package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestRegType_String(t *testing.T) {
	tests := []struct {
		name     string
		regType  RegType
		expected string
	}{
		// Known types
		{name: "REG_NONE", regType: REG_NONE, expected: "REG_NONE"},
		{name: "REG_SZ", regType: REG_SZ, expected: "REG_SZ"},
		{name: "REG_EXPAND_SZ", regType: REG_EXPAND_SZ, expected: "REG_EXPAND_SZ"},
		{name: "REG_BINARY", regType: REG_BINARY, expected: "REG_BINARY"},
		{name: "REG_DWORD", regType: REG_DWORD, expected: "REG_DWORD"},
		{name: "REG_DWORD_BE", regType: REG_DWORD_BE, expected: "REG_DWORD_BE"},
		{name: "REG_LINK", regType: REG_LINK, expected: "REG_LINK"},
		{name: "REG_MULTI_SZ", regType: REG_MULTI_SZ, expected: "REG_MULTI_SZ"},
		{name: "REG_RESOURCE_LIST", regType: REG_RESOURCE_LIST, expected: "REG_RESOURCE_LIST"},
		{name: "REG_QWORD", regType: REG_QWORD, expected: "REG_QWORD"},
		// Unknown types render as UNKNOWN_TYPE_<signed int32>
		{name: "Unknown type 100", regType: RegType(100), expected: "UNKNOWN_TYPE_100"},
		{name: "Type 12", regType: RegType(12), expected: "UNKNOWN_TYPE_12"},
		{
			name:     "Invalid type -1 (0xFFFFFFFF)",
			regType:  RegType(0xFFFFFFFF),
			expected: "UNKNOWN_TYPE_-1",
		},
		{
			name:     "Invalid type -65511 (0xFFFF0019) - from real data",
			regType:  RegType(4294901785), // 0xFFFF0019
			expected: "UNKNOWN_TYPE_-65511",
		},
		{
			name:     "Very large unknown type",
			regType:  RegType(2147483648), // 2^31
			expected: "UNKNOWN_TYPE_-2147483648",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.regType.String()
			if result != tt.expected {
				t.Errorf("RegType(%d).String() = %q, expected %q (0x%08x as int32: %d)",
					uint32(tt.regType), result, tt.expected,
					uint32(tt.regType), int32(tt.regType))
			}
		})
	}
}

func TestRegType_Code(t *testing.T) {
	if got := RegType(0xFFFFFFFF).Code(); got != -1 {
		t.Fatalf("Code() = %d, want -1", got)
	}
	if got := REG_QWORD.Code(); got != 11 {
		t.Fatalf("Code() = %d, want 11", got)
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	rootParent := &Error{Kind: ErrKindNotFound, Msg: "not found"}
	if !errors.Is(rootParent, ErrNotFound) {
		t.Fatal("expected fresh not-found error to match ErrNotFound")
	}

	wrapped := fmt.Errorf("parent of 32: %w", ErrNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatal("expected wrapped sentinel to match")
	}

	corrupt := &Error{Kind: ErrKindCorrupt, Msg: "cell offset 7 out of range", Err: ErrCorrupt}
	if errors.Is(corrupt, ErrNotFound) {
		t.Fatal("corrupt error must not match ErrNotFound")
	}
	if !errors.Is(corrupt, ErrCorrupt) {
		t.Fatal("expected corrupt error to match ErrCorrupt through Unwrap")
	}

	var typed *Error
	if !errors.As(wrapped, &typed) || typed.Kind != ErrKindNotFound {
		t.Fatalf("errors.As failed: %v", typed)
	}
}

func TestErrKind_String(t *testing.T) {
	if ErrKindNotFound.String() != "not found" {
		t.Fatalf("unexpected label %q", ErrKindNotFound.String())
	}
	if ErrKind(42).String() != "kind(42)" {
		t.Fatalf("unexpected label %q", ErrKind(42).String())
	}
}
