package validator

import (
	"errors"
	"testing"
)

type loginSample struct {
	Password string `validate:"required,password"`
	OtpCode  string `validate:"required,mfa_code"`
}

func TestV10ValidatorValid(t *testing.T) {
	// Arrange
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act & Assert: a TOTP-shaped code
	if err := v.Validate(loginSample{Password: "longenough", OtpCode: "123456"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act & Assert: a backup-code-shaped code
	if err := v.Validate(loginSample{Password: "longenough", OtpCode: "aB3d-EF5h-9kLm"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestV10ValidatorInvalid(t *testing.T) {
	// Arrange
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act
	err = v.Validate(loginSample{Password: "short", OtpCode: "12345"})

	// Assert: snake_case field keys with translated messages
	var verr V10ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected V10ValidationError, got %v", err)
	}
	if _, ok := verr["password"]; !ok {
		t.Fatalf("expected password field error, got %v", verr)
	}
	if _, ok := verr["otp_code"]; !ok {
		t.Fatalf("expected otp_code field error, got %v", verr)
	}
}

func TestV10ValidatorRequired(t *testing.T) {
	// Arrange
	v, err := NewV10Validator()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act
	err = v.Validate(loginSample{})

	// Assert
	var verr V10ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected V10ValidationError, got %v", err)
	}
	if len(verr.Values()) != 2 {
		t.Fatalf("expected two field errors, got %v", verr)
	}
}
