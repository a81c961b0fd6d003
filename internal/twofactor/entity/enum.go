package entity

import "errors"

// ErrInvalidTransition is returned when a credential state change is not
// allowed from the current state.
var ErrInvalidTransition = errors.New("twofactor: invalid credential state transition")

// CredentialState tracks where a user's two-factor credential is in its
// lifecycle.
type CredentialState int16

const (
	// CredentialStateUnknown means the state is not known / not set.
	CredentialStateUnknown CredentialState = 0

	// CredentialStateDisabled means the user has no two-factor credential.
	CredentialStateDisabled CredentialState = 1

	// CredentialStatePendingActivation means a secret has been provisioned
	// but the user has not yet proven possession of the authenticator.
	CredentialStatePendingActivation CredentialState = 2

	// CredentialStateEnabled means two-factor is active and enforced at login.
	CredentialStateEnabled CredentialState = 3
)

func (cs CredentialState) String() string {
	switch cs {
	case CredentialStateDisabled:
		return "Disabled"
	case CredentialStatePendingActivation:
		return "PendingActivation"
	case CredentialStateEnabled:
		return "Enabled"
	default:
		return "Unknown"
	}
}

func (cs CredentialState) IsUnknown() bool {
	switch cs {
	case CredentialStateDisabled, CredentialStatePendingActivation, CredentialStateEnabled:
		return false
	default:
		return true
	}
}

// Ensure normalizes out-of-range values to CredentialStateUnknown.
func (cs CredentialState) Ensure() CredentialState {
	switch cs {
	case CredentialStateDisabled, CredentialStatePendingActivation, CredentialStateEnabled:
		return cs
	default:
		return CredentialStateUnknown
	}
}

// UserStatus mirrors the account lifecycle of the owning user. Two-factor
// operations are only allowed for active accounts.
type UserStatus int16

const (
	// UserStatusUnknown means the status is not known / not set.
	UserStatusUnknown UserStatus = 0

	// UserStatusUnverified means the user exists but has not completed verification.
	UserStatusUnverified UserStatus = 1

	// UserStatusActive means the user is verified and allowed to use the app.
	UserStatusActive UserStatus = 2

	// UserStatusBanned means the user is blocked from using the app.
	UserStatusBanned UserStatus = 3

	// UserStatusInactive means the user is not currently active (deactivated, closed).
	UserStatusInactive UserStatus = 4
)

func (us UserStatus) String() string {
	switch us {
	case UserStatusUnverified:
		return "Unverified"
	case UserStatusActive:
		return "Active"
	case UserStatusBanned:
		return "Banned"
	case UserStatusInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

// Ensure normalizes out-of-range values to UserStatusUnknown.
func (us UserStatus) Ensure() UserStatus {
	switch us {
	case UserStatusUnverified, UserStatusActive, UserStatusBanned, UserStatusInactive:
		return us
	default:
		return UserStatusUnknown
	}
}
