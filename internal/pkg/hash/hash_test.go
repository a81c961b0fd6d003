package hash

import (
	"strings"
	"testing"
)

func TestArgon2idHashAndVerify(t *testing.T) {
	// Arrange
	h := NewArgon2id("")

	// Act
	hashed, err := h.Hash("s3cr3t-code")

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(string(hashed), "$argon2id$") {
		t.Fatalf("expected encoded argon2id form, got %q", hashed)
	}
	if !h.Verify(string(hashed), "s3cr3t-code") {
		t.Fatal("expected matching plaintext to verify")
	}
	if h.Verify(string(hashed), "wrong-code") {
		t.Fatal("expected mismatching plaintext to fail")
	}
}

func TestArgon2idHashesAreSalted(t *testing.T) {
	// Arrange
	h := NewArgon2id("")

	// Act
	first, err := h.Hash("same-input")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := h.Hash("same-input")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Assert
	if string(first) == string(second) {
		t.Fatal("two hashes of the same input must differ by salt")
	}
}

func TestArgon2idPepper(t *testing.T) {
	// Arrange
	peppered := NewArgon2id("pepper")
	plain := NewArgon2id("")

	hashed, err := peppered.Hash("s3cr3t-code")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act & Assert
	if !peppered.Verify(string(hashed), "s3cr3t-code") {
		t.Fatal("expected peppered hasher to verify its own hash")
	}
	if plain.Verify(string(hashed), "s3cr3t-code") {
		t.Fatal("hash made with a pepper must not verify without it")
	}
}

func TestArgon2idVerifyMalformed(t *testing.T) {
	// Arrange
	h := NewArgon2id("")

	// Act & Assert
	if h.Verify("", "anything") {
		t.Fatal("empty hash must not verify")
	}
	if h.Verify("$bcrypt$nope", "anything") {
		t.Fatal("non-argon2id hash must not verify")
	}
	if h.Verify("$argon2id$v=19$m=bad$salt$sum", "anything") {
		t.Fatal("malformed parameters must not verify")
	}
}

func TestBcryptHashAndVerify(t *testing.T) {
	// Arrange: minimum cost keeps the test fast
	h := NewBcrypt(4, "")

	// Act
	hashed, err := h.Hash("correct-horse")

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !h.Verify(string(hashed), "correct-horse") {
		t.Fatal("expected matching password to verify")
	}
	if h.Verify(string(hashed), "wrong-horse") {
		t.Fatal("expected mismatching password to fail")
	}
}

func TestBcryptPepper(t *testing.T) {
	// Arrange
	peppered := NewBcrypt(4, "pepper")
	plain := NewBcrypt(4, "")

	hashed, err := peppered.Hash("correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Act & Assert
	if !peppered.Verify(string(hashed), "correct-horse") {
		t.Fatal("expected peppered hasher to verify its own hash")
	}
	if plain.Verify(string(hashed), "correct-horse") {
		t.Fatal("hash made with a pepper must not verify without it")
	}
}
