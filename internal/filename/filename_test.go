package filename

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"plain title", nil},
		{"", nil},
		{"a/b", ErrIllegalChar},
		{"line\nbreak", ErrIllegalChar},
		{"cr\rhere", ErrIllegalChar},
		{"tab\there", ErrIllegalChar},
		{"sep\u2028x", ErrIllegalChar},
		{"para\u2029x", ErrIllegalChar},
		{strings.Repeat("é", MaxTitleLength), nil},
		{strings.Repeat("x", MaxTitleLength+1), ErrTooLong},
	}
	for _, tt := range tests {
		if got := ValidateName(tt.in); !errors.Is(got, tt.want) {
			t.Fatalf("ValidateName(%q): want %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestReplaceFileNameOutputValidates(t *testing.T) {
	inputs := []string{
		"a/b/c",
		"multi\r\nline\ttitle",
		"  ",
		strings.Repeat("ab/", 400),
		strings.Repeat("界", MaxTitleLength+10),
		"already fine",
	}
	for _, in := range inputs {
		once := ReplaceFileName(in)
		if err := ValidateName(once); err != nil {
			t.Fatalf("ReplaceFileName(%q) = %q does not validate: %v", in, once, err)
		}
		if twice := ReplaceFileName(once); twice != once {
			t.Fatalf("ReplaceFileName not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestReplaceFileNameStripsCharacters(t *testing.T) {
	if got := ReplaceFileName("a/b\tc\nd"); got != "abcd" {
		t.Fatalf("expected abcd, got %q", got)
	}
}
