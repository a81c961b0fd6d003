// Package event defines the cross-module messaging contracts: destination
// names and payload schemas for security lifecycle events.
package event

// Destinations for two-factor lifecycle events. Topic names double as NATS
// subjects and Kafka topics depending on the configured driver.
const (
	DestinationTwoFactorEnabled           = "security.twofactor.enabled"
	DestinationTwoFactorActivated         = "security.twofactor.activated"
	DestinationTwoFactorDisabled          = "security.twofactor.disabled"
	DestinationTwoFactorBackupCodeUsed    = "security.twofactor.backup_code_used"
	DestinationTwoFactorBackupCodesRotate = "security.twofactor.backup_codes_rotated"
)

// TwoFactorEnabled is published when enrollment begins and a provisioning
// secret has been issued.
type TwoFactorEnabled struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// TwoFactorActivated is published when the user proves possession of the
// authenticator and the credential becomes active.
type TwoFactorActivated struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// TwoFactorDisabled is published when two-factor is torn down.
type TwoFactorDisabled struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
}

// TwoFactorBackupCodeUsed is published when a single-use backup code is
// consumed during verification.
type TwoFactorBackupCodeUsed struct {
	UserID    int64 `json:"user_id"`
	Remaining int   `json:"remaining"`
}

// TwoFactorBackupCodesRotated is published when a fresh backup code set
// replaces the previous one.
type TwoFactorBackupCodesRotated struct {
	UserID int64 `json:"user_id"`
	Count  int   `json:"count"`
}
