// Package entity holds the two-factor domain types and their lifecycle rules.
package entity

import "time"

// Credential is a user's TOTP enrollment. Each user has at most one.
//
// Secret holds the encrypted TOTP seed; the plaintext never touches storage.
// Version is bumped by every state change and used for optimistic updates.
type Credential struct {
	UserID     int64
	State      CredentialState
	Secret     []byte
	KeyVersion int16
	Version    int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsEnabled reports whether two-factor is active for the user.
func (c *Credential) IsEnabled() bool {
	return c != nil && c.State == CredentialStateEnabled
}

// IsPendingActivation reports whether enrollment has begun but possession
// has not been proven yet.
func (c *Credential) IsPendingActivation() bool {
	return c != nil && c.State == CredentialStatePendingActivation
}

// CanActivate reports whether an activation attempt is meaningful for the
// current state. Activating an already enabled credential is a no-op, not
// an error.
func (c *Credential) CanActivate() error {
	if c == nil || c.State == CredentialStateDisabled || c.State.IsUnknown() {
		return ErrInvalidTransition
	}
	return nil
}

// BackupCode is one single-use recovery code. Only the hash is stored.
type BackupCode struct {
	ID        int64
	UserID    int64
	CodeHash  string
	Used      bool
	CreatedAt time.Time
}

// UserCredentialInfo is the slice of the user record the two-factor flows
// need: identity, account status and the password hash for re-authentication.
type UserCredentialInfo struct {
	ID       int64
	Email    string
	Status   UserStatus
	Password string
}
