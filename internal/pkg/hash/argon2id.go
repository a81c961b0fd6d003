package hash

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id implements the Hash interface using Argon2id.
type Argon2id struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
	pepper      string
}

// NewArgon2id returns an Argon2id hasher with recommended defaults.
func NewArgon2id(pepper string) *Argon2id {
	return &Argon2id{
		memory:      32 * 1024, // KiB; time/memory trade-off
		iterations:  3,
		parallelism: 2,
		saltLength:  16,
		keyLength:   32,
		pepper:      pepper,
	}
}

// Hash takes a plaintext string and returns its hashed representation in the
// standard $argon2id$... encoded form.
func (a *Argon2id) Hash(plaintext string) ([]byte, error) {
	salt := make([]byte, a.saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	sum := argon2.IDKey([]byte(plaintext+a.pepper), salt, a.iterations, a.memory, a.parallelism, a.keyLength)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		a.memory,
		a.iterations,
		a.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(sum),
	)

	return []byte(encoded), nil
}

// Verify checks if the given plaintext string matches the hashed value.
//
// Parameters are parsed from the encoded hash so older hashes keep verifying
// after defaults change. The final comparison is constant time.
func (a *Argon2id) Verify(hashed, plaintext string) bool {
	if len(hashed) == 0 || plaintext == "" {
		return false
	}

	parts := strings.Split(hashed, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false
	}

	var (
		memory      uint32
		iterations  uint32
		parallelism uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(plaintext+a.pepper), salt, iterations, memory, parallelism, uint32(len(expected)))

	return subtle.ConstantTimeCompare(expected, computed) == 1
}
