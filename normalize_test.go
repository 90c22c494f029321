package salin

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "already normal", input: "maayad", expected: "maayad"},
		{name: "mixed case", input: "Maayad Ha Masalem", expected: "maayad ha masalem"},
		{name: "surrounding whitespace", input: "  Ulan \n", expected: "ulan"},
		{name: "inner whitespace kept", input: "ulan  bayaw", expected: "ulan  bayaw"},
		{name: "empty", input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.expected {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("  maayad\tha   masalem ")
	want := []string{"maayad", "ha", "masalem"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens = %v, want %v", got, want)
	}

	if len(Tokens("")) != 0 {
		t.Error("Expected no tokens for empty input")
	}
}

func TestHasControlChars(t *testing.T) {
	if HasControlChars("good morning!") {
		t.Error("Plain text reported as having control chars")
	}
	if !HasControlChars("good\x00morning") {
		t.Error("NUL not detected")
	}
	if !HasControlChars("line\nbreak") {
		t.Error("Newline not detected")
	}
}
