package mfa

// Purpose identifies the MFA encryption purpose.
type Purpose string

const (
	// PurposeOTPSeed scopes encryption to TOTP shared secrets.
	PurposeOTPSeed Purpose = "otp_seed"
)

// Scope binds encryption to MFA-specific identifiers.
// This is used as AAD (Additional Authenticated Data) in AES-GCM, so a
// ciphertext copied onto another user's row fails to decrypt.
type Scope struct {
	// UserID is the user identifier for scoping.
	UserID int64
	// Purpose is the encryption purpose.
	Purpose Purpose
}
