package excavate

import "testing"

func TestTypeOf(t *testing.T) {
	tests := []struct {
		code int32
		want Tag
	}{
		{-1, TagNone},
		{0, TagUnknown},
		{1, TagString},
		{2, TagExpandString},
		{3, TagBinary},
		{4, TagDword},
		{5, TagUnrecognized},
		{6, TagUnrecognized},
		{7, TagMultiString},
		{11, TagQword},
		{99, TagUnrecognized},
		{-65511, TagUnrecognized},
	}
	for _, tt := range tests {
		if got := TypeOf(tt.code); got != tt.want {
			t.Errorf("TypeOf(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestTagString(t *testing.T) {
	if TagMultiString.String() != "multistring" {
		t.Fatalf("unexpected name %q", TagMultiString.String())
	}
	if Tag(42).String() != "unrecognized" {
		t.Fatalf("unexpected name %q", Tag(42).String())
	}
}
