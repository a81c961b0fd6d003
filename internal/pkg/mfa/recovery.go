package mfa

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// RecoveryCodeGenerator defines an interface for generating MFA recovery codes.
type RecoveryCodeGenerator interface {
	// Generate returns a slice of unique recovery codes or an error if the
	// random source fails.
	Generate() ([]string, error)
}

// alphabet is the character set used for recovery code generation.
//
// It includes digits, uppercase letters, and lowercase letters for a total
// of 62 characters, providing high entropy while remaining user-friendly.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	defaultCodeCount   = 10
	defaultGroupLength = 4
	defaultGroupCount  = 3
)

// RecoveryCode generates cryptographically secure MFA recovery codes.
//
// It produces codes formatted as dash-separated groups, e.g.:
//
//	XXXX-XXXX-XXXX
//
// Each X is selected uniformly at random from the alphabet constant using
// crypto/rand; an unavailable random source surfaces as an error rather
// than degrading to weaker randomness.
type RecoveryCode struct {
	count       int
	groupLength int
	groupCount  int
}

// NewRecoveryCode returns a RecoveryCode generator producing count codes per
// batch. A count below 1 falls back to the default of 10.
func NewRecoveryCode(count int) *RecoveryCode {
	if count < 1 {
		count = defaultCodeCount
	}

	return &RecoveryCode{
		count:       count,
		groupLength: defaultGroupLength,
		groupCount:  defaultGroupCount,
	}
}

// Generate produces a set of pairwise distinct recovery codes.
func (rc *RecoveryCode) Generate() ([]string, error) {
	out := make([]string, 0, rc.count)
	seen := make(map[string]struct{}, rc.count)

	for len(out) < rc.count {
		code, err := rc.generateCode()
		if err != nil {
			return nil, err
		}

		// extremely unlikely, but prevents accidental duplicates
		if _, ok := seen[code]; ok {
			continue
		}

		seen[code] = struct{}{}
		out = append(out, code)
	}

	return out, nil
}

func (rc *RecoveryCode) generateCode() (string, error) {
	groups := make([]string, 0, rc.groupCount)

	for i := 0; i < rc.groupCount; i++ {
		g, err := rc.randomString(rc.groupLength)
		if err != nil {
			return "", err
		}
		groups = append(groups, g)
	}

	return strings.Join(groups, "-"), nil
}

func (rc *RecoveryCode) randomString(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)

	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(alphabet[idx.Int64()])
	}

	return sb.String(), nil
}
