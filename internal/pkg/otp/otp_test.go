package otp

import (
	"strings"
	"testing"
	"time"

	libOTP "github.com/pquerna/otp"
)

func TestTOTPGenerate(t *testing.T) {
	// Arrange
	o := NewTOTP("gomfa", 30, 1, libOTP.DigitsSix)

	// Act
	secret, uri, err := o.Generate("user@example.com")

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret == "" {
		t.Fatal("expected a non-empty secret")
	}
	if !strings.HasPrefix(uri, "otpauth://totp/") {
		t.Fatalf("expected otpauth uri, got %q", uri)
	}
	if !strings.Contains(uri, "gomfa") {
		t.Fatalf("expected issuer in uri, got %q", uri)
	}
}

func TestTOTPValidateCurrentCode(t *testing.T) {
	// Arrange
	o := NewTOTP("gomfa", 30, 1, libOTP.DigitsSix)
	secret, _, err := o.Generate("user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	code, err := o.GenerateCode(secret, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act & Assert
	if !o.Validate(code, secret, now) {
		t.Fatal("expected current code to validate")
	}
}

func TestTOTPValidateAdjacentWindow(t *testing.T) {
	// Arrange: skew of one step tolerates one period of clock drift
	o := NewTOTP("gomfa", 30, 1, libOTP.DigitsSix)
	secret, _, err := o.Generate("user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	previous, err := o.GenerateCode(secret, now.Add(-30*time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act & Assert
	if !o.Validate(previous, secret, now) {
		t.Fatal("expected previous-window code to validate with skew 1")
	}
}

func TestTOTPValidateStaleCode(t *testing.T) {
	// Arrange
	o := NewTOTP("gomfa", 30, 1, libOTP.DigitsSix)
	secret, _, err := o.Generate("user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	stale, err := o.GenerateCode(secret, now.Add(-5*time.Minute))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act & Assert
	if o.Validate(stale, secret, now) {
		t.Fatal("expected code from five minutes ago to be rejected")
	}
}

func TestTOTPValidateMalformedInput(t *testing.T) {
	// Arrange
	o := NewTOTP("gomfa", 30, 1, libOTP.DigitsSix)
	secret, _, err := o.Generate("user@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now := time.Now()

	// Act & Assert
	if o.Validate("", secret, now) {
		t.Fatal("empty code must not validate")
	}
	if o.Validate("abcdef", secret, now) {
		t.Fatal("non-numeric code must not validate")
	}
	if o.Validate("123456", "not a base32 secret!!", now) {
		t.Fatal("malformed secret must not validate")
	}
}

func TestNewTOTPDefaults(t *testing.T) {
	// Arrange & Act
	o := NewTOTP("gomfa", 0, 0, libOTP.Digits(99))

	// Assert
	if o.period != 30 {
		t.Fatalf("expected fallback period 30, got %d", o.period)
	}
	if o.skew != 1 {
		t.Fatalf("expected fallback skew 1, got %d", o.skew)
	}
	if o.digits != libOTP.DigitsSix {
		t.Fatalf("expected fallback to six digits, got %v", o.digits)
	}
}
