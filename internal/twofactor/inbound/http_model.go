package inbound

type StatusResponse struct {
	Enabled              bool `json:"enabled"`
	PendingActivation    bool `json:"pending_activation"`
	BackupCodesRemaining int  `json:"backup_codes_remaining"`
}

type EnableResponse struct {
	Secret          string   `json:"secret"`
	ProvisioningURI string   `json:"provisioning_uri"`
	BackupCodes     []string `json:"backup_codes"`
}

func (EnableResponse) Message() string {
	return "Two-factor authentication is pending activation. Scan the QR code and verify to finish."
}

type ActivateRequest struct {
	OtpCode string `json:"otp_code"`
}

type ActivateResponse struct{}

func (ActivateResponse) Message() string {
	return "Two-factor authentication is now enabled."
}

type DisableRequest struct {
	OtpCode  string `json:"otp_code"`
	Password string `json:"password"`
}

type DisableResponse struct{}

func (DisableResponse) Message() string {
	return "Two-factor authentication has been disabled."
}

type RotateBackupCodesRequest struct {
	OtpCode string `json:"otp_code"`
}

type RotateBackupCodesResponse struct {
	BackupCodes []string `json:"backup_codes"`
}

func (RotateBackupCodesResponse) Message() string {
	return "New backup codes generated. Previous codes no longer work."
}
