package vouchercode

import (
	"strings"
	"testing"
)

func TestGenerate_InvalidLength(t *testing.T) {
	t.Parallel()

	if _, err := Generate(0); err == nil {
		t.Fatalf("expected error for invalid length")
	}
}

func TestGenerate_LengthAndAlphabet(t *testing.T) {
	t.Parallel()

	code, err := Generate(DefaultLength)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(code) != DefaultLength {
		t.Fatalf("expected code length %d, got %d", DefaultLength, len(code))
	}

	for i := 0; i < len(code); i++ {
		if strings.IndexByte(alphabet, code[i]) == -1 {
			t.Fatalf("code contains invalid character %q", code[i])
		}
	}
}

func TestGenerate_UniqueWithinSmallBatch(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})

	for i := 0; i < 100; i++ {
		code, err := Generate(DefaultLength)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, exists := seen[code]; exists {
			t.Fatalf("duplicate code generated in small batch: %s", code)
		}
		seen[code] = struct{}{}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	if got := Normalize("  ab2c-3def "); got != "AB2C3DEF" {
		t.Fatalf("unexpected normalized code: %s", got)
	}
	if got := Normalize("AB2C 3DEF"); got != "AB2C3DEF" {
		t.Fatalf("unexpected normalized code: %s", got)
	}
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	if IsValid("") {
		t.Fatalf("empty code must be invalid")
	}
	if IsValid("ABC0") {
		t.Fatalf("code with 0 must be invalid")
	}
	if !IsValid("AB2C3DEF") {
		t.Fatalf("expected valid code")
	}
}
