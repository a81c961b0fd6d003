package mfa

import (
	"regexp"
	"testing"
)

var reRecoveryCode = regexp.MustCompile(`^[0-9A-Za-z]{4}-[0-9A-Za-z]{4}-[0-9A-Za-z]{4}$`)

func TestRecoveryCodeGenerate(t *testing.T) {
	// Arrange
	gen := NewRecoveryCode(10)

	// Act
	codes, err := gen.Generate()

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(codes) != 10 {
		t.Fatalf("expected 10 codes, got %d", len(codes))
	}

	seen := map[string]struct{}{}
	for _, code := range codes {
		if !reRecoveryCode.MatchString(code) {
			t.Fatalf("code %q does not match XXXX-XXXX-XXXX", code)
		}
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate code %q", code)
		}
		seen[code] = struct{}{}
	}
}

func TestRecoveryCodeCountFallback(t *testing.T) {
	// Arrange
	gen := NewRecoveryCode(0)

	// Act
	codes, err := gen.Generate()

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(codes) != 10 {
		t.Fatalf("expected default of 10 codes, got %d", len(codes))
	}
}
